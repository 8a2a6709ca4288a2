package cache

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidResultType is returned when a cached value does not hold the requested type.
var ErrInvalidResultType = errors.New("cache: cached value has unexpected type")

// ScoredMember is one entry of a ranked set.
type ScoredMember struct {
	Member string
	Score  int64
}

// RankedSets reads and writes score-ordered membership (the per-viewer feed).
type RankedSets interface {
	// RevRange returns up to limit members with the highest scores, highest first.
	RevRange(ctx context.Context, key string, limit int) ([]string, error)
	// RevRangeBefore returns up to limit members with score strictly below maxExclusive, highest first.
	RevRangeBefore(ctx context.Context, key string, maxExclusive int64, limit int) ([]string, error)
	// AddScored upserts members and resets the key expiration.
	AddScored(ctx context.Context, key string, members []ScoredMember, ttl time.Duration) error
}

// Counters adjusts scalar counters. Each call is atomic on the server side.
type Counters interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// DecrFloor decrements and resets the value to zero if it went negative.
	DecrFloor(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// GetCount returns the current value; ok is false when the key is absent.
	GetCount(ctx context.Context, key string) (value int64, ok bool, err error)
	SetCount(ctx context.Context, key string, value int64, ttl time.Duration) error
}

// Sets maintains membership sets (followers, following).
type Sets interface {
	AddMember(ctx context.Context, key, member string) error
	RemoveMember(ctx context.Context, key, member string) error
	// ReplaceMembers overwrites the whole set. An empty list leaves the key absent.
	ReplaceMembers(ctx context.Context, key string, members []string, ttl time.Duration) error
	Cardinality(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Store is the shared key-value cache. Nothing stored in it is authoritative.
type Store interface {
	RankedSets
	Counters
	Sets
	Ping(ctx context.Context) error
}

// FetchFn is the function signature CacheService expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// BatchFetchFn loads the records for ids from the source of truth. Missing ids are left out of the map.
type BatchFetchFn[T any] func(ctx context.Context, ids []string) (map[string]T, error)

// CacheService exposes the in-process read-through operations used by repository decorators.
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)
	GetOrFetchBatch(ctx context.Context, ids []string, prefix string, fetchFn BatchFetchFn[any]) (map[string]any, error)
	// BatchKey is the key GetOrFetchBatch stores id under for prefix.
	BatchKey(prefix, id string) string
	Delete(ctx context.Context, key string) error
}

// GetOrFetch is a type-safe wrapper function that provides generic support for CacheService.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T
	result, err := service.GetOrFetch(ctx, key, fetchFn)
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, ErrInvalidResultType
	}
	return typed, nil
}

// GetOrFetchBatch is the typed form of CacheService.GetOrFetchBatch. Ids the source did not
// return are absent from the result.
func GetOrFetchBatch[T any](ctx context.Context, service CacheService, ids []string, prefix string, fetchFn BatchFetchFn[T]) (map[string]T, error) {
	wrapped := func(ctx context.Context, ids []string) (map[string]any, error) {
		records, err := fetchFn(ctx, ids)
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, len(records))
		for id, record := range records {
			out[id] = record
		}
		return out, nil
	}

	raw, err := service.GetOrFetchBatch(ctx, ids, prefix, wrapped)
	if err != nil {
		return nil, err
	}

	result := make(map[string]T, len(raw))
	for id, value := range raw {
		typed, ok := value.(T)
		if !ok {
			return nil, ErrInvalidResultType
		}
		result[id] = typed
	}
	return result, nil
}
