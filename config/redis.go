package config

import (
	"context"
	"fmt"
	"time"

	"myhabits/utils"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	URL       string
	CacheTTL  time.Duration
	PingDelay time.Duration
}

func LoadRedisConfig() RedisConfig {
	return RedisConfig{
		URL:       utils.GetEnvAsString("REDIS_URL", ""),
		CacheTTL:  utils.GetEnvAsDuration("REPORT_CACHE_TTL", 5*time.Minute),
		PingDelay: utils.GetEnvAsDuration("REDIS_PING_TIMEOUT", 5*time.Second),
	}
}

// NewRedisClient connects to Redis when a URL is configured. Redis is an
// optional collaborator; a nil client disables report caching.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingDelay)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}
