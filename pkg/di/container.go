// Package di assembles the process object graph from configuration.
package di

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-social-feed/api"
	"github.com/goliatone/go-social-feed/cache"
	"github.com/goliatone/go-social-feed/config"
	"github.com/goliatone/go-social-feed/feed"
	"github.com/goliatone/go-social-feed/internal/cacheinfra"
	"github.com/goliatone/go-social-feed/reconcile"
	"github.com/goliatone/go-social-feed/repositorycache"
	"github.com/goliatone/go-social-feed/social"
	"github.com/goliatone/go-social-feed/store"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
)

// Clients are the external connections the container builds on. Nil fields are opened
// from configuration.
type Clients struct {
	DB    *bun.DB
	Redis redis.UniversalClient
	Tasks reconcile.TaskClient
}

// Container owns the singletons shared by the HTTP server and the worker.
type Container struct {
	cfg    config.Config
	logger zerolog.Logger

	db    *bun.DB
	redis redis.UniversalClient
	tasks *asynq.Client
	// closers release only the connections the container opened itself.
	closers []func() error

	store      *store.Store
	cache      *cacheinfra.RedisStore
	local      *cacheinfra.SturdycService
	reconciler social.Reconciler
	feed       *feed.Reader
	social     *social.Service
	api        *api.Server
}

// NewContainer opens every connection named in cfg and wires the graph on top of them.
func NewContainer(cfg config.Config, logger zerolog.Logger) (*Container, error) {
	return NewContainerWithClients(cfg, Clients{}, logger)
}

// NewContainerWithClients wires the graph on the given clients, opening the missing ones.
func NewContainerWithClients(cfg config.Config, clients Clients, logger zerolog.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{cfg: cfg, logger: logger, db: clients.DB, redis: clients.Redis}

	if c.db == nil {
		db, err := store.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		c.db = db
		c.closers = append(c.closers, db.Close)
	}

	if c.redis == nil {
		client, err := cacheinfra.NewRedisClient(cfg.RedisURL)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.redis = client
		c.closers = append(c.closers, client.Close)
	}

	c.store = store.New(c.db)
	c.cache = cacheinfra.NewRedisStore(c.redis)

	var posts feed.PostReader = c.store
	var users social.UserReader = c.store
	if cfg.PostCache.Enabled {
		local, err := cacheinfra.NewSturdycService(cfg.PostCache.Local)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.local = local
		posts = repositorycache.NewCachedPosts(c.store, local)
		users = repositorycache.NewCachedUsers(c.store, local)
	}

	reconciler, err := c.newReconciler(clients.Tasks)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.reconciler = reconciler

	c.feed = feed.NewReader(posts, c.cache,
		feed.WithTTL(cfg.TTLs.Feed),
		feed.WithLogger(logger.With().Str("component", "feed").Logger()),
	)
	c.social = social.New(c.store, users, c.cache,
		social.WithTTLs(cfg.TTLs),
		social.WithReconciler(c.reconciler),
		social.WithLogger(logger.With().Str("component", "social").Logger()),
	)
	c.api = api.NewServer(
		api.Config{RateLimit: cfg.HTTP.RateLimit, RateBurst: cfg.HTTP.RateBurst},
		c.feed, c.social, c.store, c.cache,
		logger.With().Str("component", "http").Logger(),
	)

	return c, nil
}

func (c *Container) newReconciler(tasks reconcile.TaskClient) (social.Reconciler, error) {
	if !c.cfg.Reconcile.Enabled {
		return social.NopReconciler{}, nil
	}
	if tasks == nil {
		opt, err := reconcile.ParseRedisURL(c.cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		c.tasks = asynq.NewClient(opt)
		c.closers = append(c.closers, c.tasks.Close)
		tasks = c.tasks
	}
	return reconcile.NewEnqueuer(tasks, c.cfg.Reconcile.Enqueue), nil
}

// Config returns the configuration the container was built from.
func (c *Container) Config() config.Config {
	return c.cfg
}

// DB returns the relational handle.
func (c *Container) DB() *bun.DB {
	return c.db
}

// Store returns the relational store.
func (c *Container) Store() *store.Store {
	return c.store
}

// Cache returns the shared key-value cache.
func (c *Container) Cache() cache.Store {
	return c.cache
}

// LocalCache returns the in-process post cache, or nil when disabled.
func (c *Container) LocalCache() cache.CacheService {
	if c.local == nil {
		return nil
	}
	return c.local
}

// Reconciler returns the counter reconciler used by the social service.
func (c *Container) Reconciler() social.Reconciler {
	return c.reconciler
}

// Feed returns the feed reader.
func (c *Container) Feed() *feed.Reader {
	return c.feed
}

// Social returns the social service.
func (c *Container) Social() *social.Service {
	return c.social
}

// API returns the HTTP server.
func (c *Container) API() *api.Server {
	return c.api
}

// ReconcileHandler returns a task handler on the container's store and cache.
func (c *Container) ReconcileHandler() *reconcile.Handler {
	return reconcile.NewHandler(c.store, c.cache, c.cfg.TTLs, c.logger.With().Str("component", "reconcile").Logger())
}

// NewWorker builds the reconcile worker server and its mux.
func (c *Container) NewWorker() (*asynq.Server, *asynq.ServeMux, error) {
	opt, err := reconcile.ParseRedisURL(c.cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger := c.logger.With().Str("component", "worker").Logger()
	return reconcile.NewServer(opt, c.cfg.Reconcile.Concurrency, logger), reconcile.NewMux(c.ReconcileHandler()), nil
}

// Close waits for background feed writes and releases the connections the container
// opened. Injected clients stay open.
func (c *Container) Close() error {
	if c.feed != nil {
		c.feed.Wait()
	}

	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}
