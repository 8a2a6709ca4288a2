package di_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goliatone/go-social-feed/config"
	"github.com/goliatone/go-social-feed/pkg/di"
	"github.com/goliatone/go-social-feed/pkg/testsupport"
	"github.com/goliatone/go-social-feed/social"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// recordingTasks captures enqueued tasks so tests can run them through the worker mux.
type recordingTasks struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (r *recordingTasks) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func (r *recordingTasks) drain() []*asynq.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.tasks
	r.tasks = nil
	return out
}

func testConfig(t *testing.T, env map[string]string) config.Config {
	t.Helper()

	base := map[string]string{
		"DATABASE_DRIVER": "sqlite3",
		"DATABASE_URL":    "file:unused?mode=memory",
		"HTTP_RATE_LIMIT": "0",
	}
	for k, v := range env {
		base[k] = v
	}

	cfg, err := config.LoadFrom(func(key string) (string, bool) {
		v, ok := base[key]
		return v, ok
	})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	return cfg
}

func newContainer(t *testing.T, env map[string]string) (*di.Container, *recordingTasks) {
	t.Helper()

	db := testsupport.OpenDB(t)
	testsupport.DefaultSeed(t).Apply(t, db)
	cacheStore, _ := testsupport.NewCache(t)
	tasks := &recordingTasks{}

	c, err := di.NewContainerWithClients(testConfig(t, env), di.Clients{
		DB:    db,
		Redis: cacheStore.Client(),
		Tasks: tasks,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewContainerWithClients: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, tasks
}

func TestNewContainerWithClients(t *testing.T) {
	c, _ := newContainer(t, nil)

	if c.Store() == nil || c.Cache() == nil || c.Feed() == nil || c.Social() == nil || c.API() == nil {
		t.Fatal("container should build the whole graph")
	}
	if c.LocalCache() == nil {
		t.Error("post cache is enabled by default")
	}
	if _, isNop := c.Reconciler().(social.NopReconciler); isNop {
		t.Error("reconciler should enqueue when enabled")
	}
}

func TestNewContainer_Toggles(t *testing.T) {
	c, _ := newContainer(t, map[string]string{
		"POST_CACHE_ENABLED": "false",
		"RECONCILE_ENABLED":  "false",
	})

	if c.LocalCache() != nil {
		t.Error("post cache should be disabled")
	}
	if _, isNop := c.Reconciler().(social.NopReconciler); !isNop {
		t.Errorf("expected NopReconciler, got %T", c.Reconciler())
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, nil)
	cfg.TTLs.Feed = 0

	_, err := di.NewContainerWithClients(cfg, di.Clients{}, zerolog.Nop())
	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *config.ConfigError, got %v", err)
	}
}

func TestNewContainer_InvalidPostCache(t *testing.T) {
	cfg := testConfig(t, nil)
	cfg.PostCache.Local.Capacity = 0

	if _, err := di.NewContainerWithClients(cfg, di.Clients{}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for invalid post cache config")
	}
}

func TestClose_LeavesInjectedClientsOpen(t *testing.T) {
	db := testsupport.OpenDB(t)
	cacheStore, _ := testsupport.NewCache(t)

	c, err := di.NewContainerWithClients(testConfig(t, nil), di.Clients{
		DB:    db,
		Redis: cacheStore.Client(),
		Tasks: &recordingTasks{},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewContainerWithClients: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		t.Errorf("injected db was closed: %v", err)
	}
	if err := cacheStore.Ping(context.Background()); err != nil {
		t.Errorf("injected redis was closed: %v", err)
	}
}
