package cache

import (
	"fmt"
	"time"

	"lingo-gate/internal/types"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewCache creates the translation cache. With REDIS_DSN configured the
// Redis-backed cache is used and the configured expiration becomes a real
// TTL; otherwise the bounded in-memory cache is used and the expiration
// setting has no effect.
func NewCache(configManager types.ConfigManager) (Cache, error) {
	redisDSN := configManager.GetRedisDSN()
	if redisDSN == "" {
		logrus.Debug("Translation cache: using in-memory store")
		return NewMemoryCache(), nil
	}

	opt, err := redis.ParseURL(redisDSN)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DSN: %w", err)
	}

	ttl := time.Duration(configManager.GetTranslationConfig().CacheExpiration) * time.Second
	logrus.Debug("Translation cache: using Redis store")
	return NewRedisCache(redis.NewClient(opt), ttl), nil
}
