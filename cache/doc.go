// Package cache defines the key-value cache contracts used by the feed and counter paths.
//
// # Overview
//
// Everything held in the cache is a derived projection of the relational store and may
// disappear at any time. The package exports:
//
//   - Store: ranked sets (per-viewer feeds), scalar counters (likes, comments) and
//     membership sets (followers, following) backed by a shared key-value server
//   - CacheService: an in-process read-through cache with single and batch lookups,
//     used by repository decorators
//   - Count: the result of a best-effort counter read, either a value or unknown
//   - key builders for the persisted layout
//
// # Key Layout
//
//	feed:<viewerId>                 ranked set postId -> created-at epoch ms
//	post:likes:<postId>             counter
//	post:comments_count:<postId>    counter
//	user:following:<userId>         set of followed user ids
//	user:followers:<userId>         set of follower ids
//
// The layout is informative and not a stable contract.
//
// # Failure Policy
//
// Callers treat any Store error as "unknown": reads fall back to the relational store and
// counter adjustments report UnknownCount. A Store error is never returned as the failure
// of a request.
//
//	likes, err := store.Incr(ctx, cache.PostLikesKey(postID), ttls.Likes)
//	count := cache.KnownCount(likes)
//	if err != nil {
//		count = cache.UnknownCount()
//	}
//
// # Typed Helpers
//
// GetOrFetch and GetOrFetchBatch wrap a CacheService with type parameters:
//
//	posts, err := cache.GetOrFetchBatch(ctx, svc, ids, cache.BatchPrefix("post"),
//		func(ctx context.Context, ids []string) (map[string]model.Post, error) {
//			return repo.FindByIDs(ctx, ids)
//		})
//
// See the internal/cacheinfra package for the Redis and sturdyc implementations.
package cache
