// Package repositorycache provides in-process caching decorators for relational readers.
//
// # Overview
//
// The decorators wrap a reader and intercept lookups by identifier. They sit between the
// feed or profile logic and the store:
//
//	posts := repositorycache.NewCachedPosts(store, sturdycService)
//	found, err := posts.FindPostsByIDs(ctx, []string{"p1", "p2"})
//
// # Cached vs Pass-through Operations
//
// Cached:
//   - CachedPosts.FindPostsByIDs (batch; only ids missing from the cache hit the store)
//   - CachedUsers.GetUser
//
// Pass-through:
//   - CachedPosts.ListFeed
//
// # Caching Behavior
//
//  1. Check the cache for each requested id
//  2. Fetch the missing ids from the base reader in one call
//  3. Store what came back
//  4. Return the union
//
// Ids the base reader does not return are absent from the result and are not cached,
// so a deleted post simply disappears from cache-sourced feed pages.
//
// # Error Handling
//
// Errors from the base reader propagate unchanged and are never cached.
package repositorycache
