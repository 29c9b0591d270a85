package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"slotly/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisOpTimeout = 2 * time.Second

// RedisIdempotencyStore shares cached responses between API replicas. Expiry
// is left to Redis.
type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Get treats Redis failures as a cache miss so an outage degrades to
// non-idempotent behaviour instead of failing requests.
func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (*CachedResponse, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.WithContext(ctx).Warn("Idempotency lookup failed", "key", key, "error", err)
		}
		return nil, false
	}

	var cached CachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		s.log.WithContext(ctx).Warn("Discarding corrupt idempotency entry", "key", key, "error", err)
		return nil, false
	}
	return &cached, true
}

func (s *RedisIdempotencyStore) Set(ctx context.Context, key string, response *CachedResponse) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	response.CreatedAt = time.Now()
	data, err := json.Marshal(response)
	if err != nil {
		s.log.WithContext(ctx).Error("Failed to encode idempotency entry", "key", key, "error", err)
		return
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.log.WithContext(ctx).Warn("Failed to store idempotency entry", "key", key, "error", err)
	}
}

// SetIfAbsent maps to SETNX. A Redis failure reports the key as claimed so
// an outage degrades to at-least-once delivery instead of dropping events.
func (s *RedisIdempotencyStore) SetIfAbsent(ctx context.Context, key string, response *CachedResponse) bool {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	response.CreatedAt = time.Now()
	data, err := json.Marshal(response)
	if err != nil {
		s.log.WithContext(ctx).Error("Failed to encode idempotency entry", "key", key, "error", err)
		return true
	}

	claimed, err := s.client.SetNX(ctx, key, data, s.ttl).Result()
	if err != nil {
		s.log.WithContext(ctx).Warn("Failed to claim idempotency key", "key", key, "error", err)
		return true
	}
	return claimed
}

func (s *RedisIdempotencyStore) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.WithContext(ctx).Warn("Failed to delete idempotency entry", "key", key, "error", err)
	}
}

func (s *RedisIdempotencyStore) Stop() {
	if err := s.client.Close(); err != nil {
		s.log.Warn("Failed to close Redis client", "error", err)
	}
}
