package cacheinfra

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/goliatone/go-social-feed/cache"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements cache.Store on a shared go-redis client.
type RedisStore struct {
	client redis.UniversalClient
}

var _ cache.Store = (*RedisStore)(nil)

// NewRedisStore wraps an existing client. The client is shared and long lived.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

// Client exposes the underlying client.
func (s *RedisStore) Client() redis.UniversalClient {
	return s.client
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) RevRange(ctx context.Context, key string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.client.ZRevRange(ctx, key, 0, int64(limit-1)).Result()
}

func (s *RedisStore) RevRangeBefore(ctx context.Context, key string, maxExclusive int64, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.client.ZRevRangeByScore(ctx, key, &redis.ZRangeBy{
		Max:   "(" + strconv.FormatInt(maxExclusive, 10),
		Min:   "-inf",
		Count: int64(limit),
	}).Result()
}

func (s *RedisStore) AddScored(ctx context.Context, key string, members []cache.ScoredMember, ttl time.Duration) error {
	if len(members) == 0 {
		return nil
	}

	zs := make([]redis.Z, len(members))
	for i, m := range members {
		zs[i] = redis.Z{Score: float64(m.Score), Member: m.Member}
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, zs...)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

func (s *RedisStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (s *RedisStore) DecrFloor(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var decr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		decr = pipe.Decr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if decr.Val() >= 0 {
		return decr.Val(), nil
	}

	if err := s.client.Set(ctx, key, "0", ttl).Err(); err != nil {
		return 0, err
	}
	return 0, nil
}

func (s *RedisStore) GetCount(ctx context.Context, key string) (int64, bool, error) {
	v, err := s.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

func (s *RedisStore) SetCount(ctx context.Context, key string, value int64, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) AddMember(ctx context.Context, key, member string) error {
	return s.client.SAdd(ctx, key, member).Err()
}

func (s *RedisStore) RemoveMember(ctx context.Context, key, member string) error {
	return s.client.SRem(ctx, key, member).Err()
}

func (s *RedisStore) ReplaceMembers(ctx context.Context, key string, members []string, ttl time.Duration) error {
	values := make([]any, len(members))
	for i, m := range members {
		values[i] = m
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.SAdd(ctx, key, values...)
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

func (s *RedisStore) Cardinality(ctx context.Context, key string) (int64, error) {
	return s.client.SCard(ctx, key).Result()
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.client.Expire(ctx, key, ttl).Err()
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
