package testsupport

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/goliatone/go-social-feed/internal/cacheinfra"
	"github.com/redis/go-redis/v9"
)

// NewCache starts a miniredis server for the test and returns a store on it. Closing the
// returned server simulates the cache going down.
func NewCache(t *testing.T) (*cacheinfra.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	return cacheinfra.NewRedisStore(client), mr
}
