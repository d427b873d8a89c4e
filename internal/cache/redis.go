package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisCache stores translations in Redis. Unlike the in-memory cache it
// enforces the configured expiration as a real TTL and lets Redis own the
// capacity policy.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a cache backed by the given Redis client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get implements Cache.
func (c *RedisCache) Get(sourceLang, targetLang, text string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	value, err := c.client.Get(ctx, Key(sourceLang, targetLang, text)).Result()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).Warn("Redis cache read failed")
		}
		return "", false
	}
	return value, true
}

// Set implements Cache.
func (c *RedisCache) Set(sourceLang, targetLang, text, translation string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := c.client.Set(ctx, Key(sourceLang, targetLang, text), translation, c.ttl).Err(); err != nil {
		logrus.WithError(err).Warn("Redis cache write failed")
	}
}

// Close implements Cache.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
