package cache

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/vanlocweb/vanloc-go/internal/config"
)

// New creates the cache backend the configuration selects: Redis when a
// URL is set, the in-process memory cache otherwise.
func New(cfg *config.Config) (Cacher, error) {
	ttl := time.Duration(cfg.CacheTTL) * time.Second

	if cfg.UseRedisCache() {
		c, err := NewRedisCache(cfg.RedisURL, cfg.CachePrefix, ttl)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		slog.Info("using redis cache", "prefix", cfg.CachePrefix, "ttl", ttl)
		return c, nil
	}

	slog.Info("using memory cache", "ttl", ttl)
	return NewMemoryCache(ttl), nil
}
