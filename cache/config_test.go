package cache

import (
	"errors"
	"testing"
	"time"
)

func TestDefaultTTLs(t *testing.T) {
	ttls := DefaultTTLs()

	if ttls.Feed != 10*time.Minute {
		t.Errorf("expected feed TTL 10m, got %v", ttls.Feed)
	}
	if ttls.Likes != 6*time.Hour {
		t.Errorf("expected likes TTL 6h, got %v", ttls.Likes)
	}
	if ttls.CommentsCount != 30*time.Minute {
		t.Errorf("expected comments count TTL 30m, got %v", ttls.CommentsCount)
	}
	if ttls.Follows != 6*time.Hour {
		t.Errorf("expected follows TTL 6h, got %v", ttls.Follows)
	}
	if err := ttls.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestTTLConfig_Validate(t *testing.T) {
	ttls := DefaultTTLs()
	ttls.Likes = 0

	err := ttls.Validate()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Field != "Likes" {
		t.Errorf("expected field Likes, got %s", cfgErr.Field)
	}
}

func TestLocalConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*LocalConfig)
		wantField string
	}{
		{name: "valid default config", mutate: func(*LocalConfig) {}},
		{name: "zero capacity", mutate: func(c *LocalConfig) { c.Capacity = 0 }, wantField: "Capacity"},
		{name: "zero shards", mutate: func(c *LocalConfig) { c.NumShards = 0 }, wantField: "NumShards"},
		{name: "zero ttl", mutate: func(c *LocalConfig) { c.TTL = 0 }, wantField: "TTL"},
		{name: "eviction too high", mutate: func(c *LocalConfig) { c.EvictionPercentage = 101 }, wantField: "EvictionPercentage"},
		{
			name: "inverted early refresh window",
			mutate: func(c *LocalConfig) {
				c.EarlyRefresh = &EarlyRefreshConfig{MinAsyncRefreshTime: time.Minute, MaxAsyncRefreshTime: time.Second}
			},
			wantField: "EarlyRefresh.MaxAsyncRefreshTime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultLocalConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("expected field %s, got %s", tt.wantField, cfgErr.Field)
			}
		})
	}
}
