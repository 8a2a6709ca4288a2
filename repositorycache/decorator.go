package repositorycache

import (
	"context"

	"github.com/goliatone/go-social-feed/cache"
	"github.com/goliatone/go-social-feed/model"
)

// PostReader is the relational read side the feed depends on.
type PostReader interface {
	ExistingPostIDs(ctx context.Context, ids []string) (map[string]struct{}, error)
	FindPostsByIDs(ctx context.Context, ids []string) (map[string]model.Post, error)
	ListFeed(ctx context.Context, viewerID string, before *int64, limit int) ([]model.Post, error)
}

// UserReader loads a single user.
type UserReader interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// Interface assertions
var (
	_ PostReader = (*CachedPosts)(nil)
	_ UserReader = (*CachedUsers)(nil)
)

// CachedPosts decorates a PostReader with in-process batch caching of post rows.
// Row content is immutable and served from the cache, but existence is always checked
// against the base reader so deleted posts disappear at once. Feed listings are not
// cached here: the shared feed cache already covers them.
type CachedPosts struct {
	base   PostReader
	cache  cache.CacheService
	prefix string
}

// NewCachedPosts wraps base with the given cache service.
func NewCachedPosts(base PostReader, cacheService cache.CacheService) *CachedPosts {
	return &CachedPosts{
		base:   base,
		cache:  cacheService,
		prefix: cache.BatchPrefix("post"),
	}
}

// FindPostsByIDs returns the rows of ids that still exist. Content comes from the cache
// when present; deleted ids are skipped and evicted.
func (c *CachedPosts) FindPostsByIDs(ctx context.Context, ids []string) (map[string]model.Post, error) {
	if len(ids) == 0 {
		return map[string]model.Post{}, nil
	}

	live, err := c.base.ExistingPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	present := make([]string, 0, len(live))
	for _, id := range ids {
		if _, ok := live[id]; ok {
			present = append(present, id)
			continue
		}
		_ = c.cache.Delete(ctx, c.cache.BatchKey(c.prefix, id))
	}
	if len(present) == 0 {
		return map[string]model.Post{}, nil
	}

	return cache.GetOrFetchBatch[model.Post](ctx, c.cache, present, c.prefix, c.base.FindPostsByIDs)
}

// ExistingPostIDs passes through to the base reader.
func (c *CachedPosts) ExistingPostIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	return c.base.ExistingPostIDs(ctx, ids)
}

// ListFeed passes through to the base reader.
func (c *CachedPosts) ListFeed(ctx context.Context, viewerID string, before *int64, limit int) ([]model.Post, error) {
	return c.base.ListFeed(ctx, viewerID, before, limit)
}

// CachedUsers decorates a UserReader with in-process read-through caching.
type CachedUsers struct {
	base   UserReader
	cache  cache.CacheService
	prefix string
}

// NewCachedUsers wraps base with the given cache service.
func NewCachedUsers(base UserReader, cacheService cache.CacheService) *CachedUsers {
	return &CachedUsers{
		base:   base,
		cache:  cacheService,
		prefix: cache.BatchPrefix("user"),
	}
}

// GetUser reads through the cache. Lookup errors are not cached.
func (c *CachedUsers) GetUser(ctx context.Context, id string) (*model.User, error) {
	return cache.GetOrFetch[*model.User](ctx, c.cache, c.key(id), func(ctx context.Context) (*model.User, error) {
		return c.base.GetUser(ctx, id)
	})
}

func (c *CachedUsers) key(id string) string {
	return cache.Key(c.prefix, id)
}
