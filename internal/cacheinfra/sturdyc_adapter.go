package cacheinfra

import (
	"context"
	"reflect"

	"github.com/goliatone/go-social-feed/cache"
	"github.com/viccon/sturdyc"
)

// ToSturdycOptions maps the optional parts of a LocalConfig to sturdyc options.
// Capacity, NumShards, TTL and EvictionPercentage go straight to sturdyc.New.
func ToSturdycOptions(cfg cache.LocalConfig) []sturdyc.Option {
	var options []sturdyc.Option

	if cfg.EarlyRefresh != nil {
		options = append(options, sturdyc.WithEarlyRefreshes(
			cfg.EarlyRefresh.MinAsyncRefreshTime,
			cfg.EarlyRefresh.MaxAsyncRefreshTime,
			cfg.EarlyRefresh.SyncRefreshTime,
			cfg.EarlyRefresh.RetryBaseDelay,
		))
	}

	if cfg.MissingRecordStorage {
		options = append(options, sturdyc.WithMissingRecordStorage())
	}

	if cfg.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	return options
}

// SturdycService is the in-process cache.CacheService.
type SturdycService struct {
	client *sturdyc.Client[any]
}

// NewSturdycService validates cfg and builds a sturdyc client from it.
func NewSturdycService(cfg cache.LocalConfig) (*SturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		ToSturdycOptions(cfg)...,
	)

	return &SturdycService{client: client}, nil
}

// validateFetchFn checks that fetchFn has the signature func(context.Context) (T, error).
func validateFetchFn(fetchFn any) error {
	if fetchFn == nil {
		return &cache.ConfigError{Field: "fetchFn", Message: "cannot be nil"}
	}

	fnType := reflect.TypeOf(fetchFn)
	if fnType.Kind() != reflect.Func {
		return &cache.ConfigError{Field: "fetchFn", Message: "must be a function"}
	}

	if fnType.NumIn() != 1 || fnType.NumOut() != 2 {
		return &cache.ConfigError{Field: "fetchFn", Message: "must have signature func(context.Context) (T, error)"}
	}

	contextType := reflect.TypeOf((*context.Context)(nil)).Elem()
	if !fnType.In(0).Implements(contextType) {
		return &cache.ConfigError{Field: "fetchFn", Message: "first parameter must be context.Context"}
	}

	errorType := reflect.TypeOf((*error)(nil)).Elem()
	if !fnType.Out(1).Implements(errorType) {
		return &cache.ConfigError{Field: "fetchFn", Message: "second return value must be error"}
	}

	return nil
}

// GetOrFetch returns the cached value for key, calling fetchFn on a miss.
// fetchFn is typically a cache.FetchFn[T].
func (s *SturdycService) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	if err := validateFetchFn(fetchFn); err != nil {
		return nil, err
	}

	return s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return callFetchFn(ctx, fetchFn)
	})
}

// callFetchFn invokes a validated fetch function of any result type.
func callFetchFn(ctx context.Context, fetchFn any) (any, error) {
	if fn, ok := fetchFn.(func(context.Context) (any, error)); ok {
		return fn(ctx)
	}
	if fn, ok := fetchFn.(cache.FetchFn[any]); ok {
		return fn(ctx)
	}

	results := reflect.ValueOf(fetchFn).Call([]reflect.Value{reflect.ValueOf(ctx)})

	var result any
	if v := results[0]; v.IsValid() && v.CanInterface() {
		result = v.Interface()
	}

	var err error
	if e := results[1]; e.IsValid() && !e.IsNil() {
		err = e.Interface().(error)
	}

	return result, err
}

// GetOrFetchBatch returns the records for ids, fetching only the ids not already cached.
// Keys are derived from prefix and the id. Ids the source does not return are absent.
func (s *SturdycService) GetOrFetchBatch(ctx context.Context, ids []string, prefix string, fetchFn cache.BatchFetchFn[any]) (map[string]any, error) {
	if len(ids) == 0 {
		return map[string]any{}, nil
	}
	if fetchFn == nil {
		return nil, &cache.ConfigError{Field: "fetchFn", Message: "cannot be nil"}
	}

	return s.client.GetOrFetchBatch(ctx, ids, s.client.BatchKeyFn(prefix), sturdyc.BatchFetchFn[any](fetchFn))
}

// BatchKey returns the key GetOrFetchBatch uses for id under prefix.
func (s *SturdycService) BatchKey(prefix, id string) string {
	return s.client.BatchKeyFn(prefix)(id)
}

// Delete removes a single entry.
func (s *SturdycService) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// Size reports the number of cached entries.
func (s *SturdycService) Size() int {
	return s.client.Size()
}
