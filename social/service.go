// Package social implements the state-changing social operations and the reads built on
// them: likes, follows, comments, posts, users and profiles.
//
// Every mutation writes the relational store first. The shared cache is adjusted only
// after the write committed and only when it actually changed state; cache failures turn
// into unknown counts and are never returned.
package social

import (
	"context"

	"github.com/goliatone/go-social-feed/cache"
	"github.com/goliatone/go-social-feed/model"
	"github.com/goliatone/go-social-feed/store"
	"github.com/rs/zerolog"
)

// Relations toggles like and follow rows. Each call runs in its own transaction and
// reports whether it changed state.
type Relations interface {
	AddLike(ctx context.Context, postID, userID string) (bool, error)
	RemoveLike(ctx context.Context, postID, userID string) (bool, error)
	AddFollow(ctx context.Context, followerID, followingID string) (bool, error)
	RemoveFollow(ctx context.Context, followerID, followingID string) (bool, error)
}

// Content stores posts and comments.
type Content interface {
	CreatePost(ctx context.Context, post *model.Post) (*model.Post, error)
	InsertComment(ctx context.Context, c *model.Comment) error
	ListComments(ctx context.Context, postID string, cursor *store.CommentCursor, limit int) ([]model.Comment, error)
}

// Accounts stores users and computes their stats.
type Accounts interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	Stats(ctx context.Context, userID string) (store.UserStats, error)
	Suggestions(ctx context.Context, viewerID string, limit int) ([]model.UserSuggestion, error)
}

// Store is the relational side of the service.
type Store interface {
	Relations
	Content
	Accounts
}

// UserReader loads a user, typically through an in-process cache.
type UserReader interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// Reconciler schedules an out-of-band recompute of cached counters.
type Reconciler interface {
	ReconcileLikes(ctx context.Context, postID string) error
	ReconcileFollows(ctx context.Context, userID string) error
}

// NopReconciler does nothing.
type NopReconciler struct{}

func (NopReconciler) ReconcileLikes(context.Context, string) error   { return nil }
func (NopReconciler) ReconcileFollows(context.Context, string) error { return nil }

// Service holds the collaborators shared by all operations.
type Service struct {
	store      Store
	users      UserReader
	cache      cache.Store
	ttls       cache.TTLConfig
	reconciler Reconciler
	logger     zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithTTLs overrides the cache expirations.
func WithTTLs(ttls cache.TTLConfig) Option {
	return func(s *Service) {
		s.ttls = ttls
	}
}

// WithReconciler sets the counter reconciler.
func WithReconciler(r Reconciler) Option {
	return func(s *Service) {
		if r != nil {
			s.reconciler = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New builds a Service. users is used for profile lookups.
func New(st Store, users UserReader, c cache.Store, opts ...Option) *Service {
	s := &Service{
		store:      st,
		users:      users,
		cache:      c,
		ttls:       cache.DefaultTTLs(),
		reconciler: NopReconciler{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// counted turns a cache result into a Count, logging the failure.
func (s *Service) counted(op, key string, value int64, err error) cache.Count {
	if err != nil {
		s.logger.Warn().Err(err).Str("op", op).Str("key", key).Msg("cache counter unavailable")
		return cache.UnknownCount()
	}
	return cache.KnownCount(value)
}

// peek reads a counter without changing it. An absent key is unknown.
func (s *Service) peek(ctx context.Context, key string) cache.Count {
	value, ok, err := s.cache.GetCount(ctx, key)
	if err != nil {
		return s.counted("get", key, 0, err)
	}
	if !ok {
		return cache.UnknownCount()
	}
	return cache.KnownCount(value)
}
