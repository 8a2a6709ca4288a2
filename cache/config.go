package cache

import "time"

// TTLConfig holds the expiration applied to each kind of cached projection.
type TTLConfig struct {
	Feed          time.Duration
	Likes         time.Duration
	CommentsCount time.Duration
	Follows       time.Duration
}

// DefaultTTLs returns the expirations used when nothing is configured.
func DefaultTTLs() TTLConfig {
	return TTLConfig{
		Feed:          10 * time.Minute,
		Likes:         6 * time.Hour,
		CommentsCount: 30 * time.Minute,
		Follows:       6 * time.Hour,
	}
}

// Validate checks whether every TTL is positive.
func (c TTLConfig) Validate() error {
	switch {
	case c.Feed <= 0:
		return &ConfigError{Field: "Feed", Message: "must be greater than 0"}
	case c.Likes <= 0:
		return &ConfigError{Field: "Likes", Message: "must be greater than 0"}
	case c.CommentsCount <= 0:
		return &ConfigError{Field: "CommentsCount", Message: "must be greater than 0"}
	case c.Follows <= 0:
		return &ConfigError{Field: "Follows", Message: "must be greater than 0"}
	}
	return nil
}

// LocalConfig configures the in-process read-through cache.
type LocalConfig struct {
	Capacity             int
	NumShards            int
	TTL                  time.Duration
	EvictionPercentage   int
	EarlyRefresh         *EarlyRefreshConfig
	MissingRecordStorage bool
	EvictionInterval     time.Duration
}

// EarlyRefreshConfig mirrors the underlying sturdyc early refresh options.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// DefaultLocalConfig returns a LocalConfig sized for post rows. Posts are immutable, so
// early refreshes are off and a longer TTL is safe.
func DefaultLocalConfig() LocalConfig {
	return LocalConfig{
		Capacity:             10000,
		NumShards:            64,
		TTL:                  5 * time.Minute,
		EvictionPercentage:   10,
		MissingRecordStorage: false,
	}
}

// Validate checks whether the configuration values are valid.
func (c LocalConfig) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	if c.EarlyRefresh != nil {
		if c.EarlyRefresh.MinAsyncRefreshTime < 0 {
			return &ConfigError{Field: "EarlyRefresh.MinAsyncRefreshTime", Message: "must be non-negative"}
		}
		if c.EarlyRefresh.MaxAsyncRefreshTime < c.EarlyRefresh.MinAsyncRefreshTime {
			return &ConfigError{Field: "EarlyRefresh.MaxAsyncRefreshTime", Message: "must not be below MinAsyncRefreshTime"}
		}
		if c.EarlyRefresh.SyncRefreshTime < 0 {
			return &ConfigError{Field: "EarlyRefresh.SyncRefreshTime", Message: "must be non-negative"}
		}
		if c.EarlyRefresh.RetryBaseDelay < 0 {
			return &ConfigError{Field: "EarlyRefresh.RetryBaseDelay", Message: "must be non-negative"}
		}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
