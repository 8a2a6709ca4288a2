package testsupport

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-social-feed/store"
	"github.com/uptrace/bun"
)

var dbCounter atomic.Int64

// OpenDB returns a migrated in-memory sqlite database private to the test.
func OpenDB(t *testing.T) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbCounter.Add(1))

	db, err := store.Open(store.Config{Driver: store.DriverSQLite, DSN: dsn, MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// OpenStore is OpenDB wrapped in a store.Store.
func OpenStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(OpenDB(t))
}
