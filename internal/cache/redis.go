package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"madrasa/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates and returns a new Redis client instance.
// It pings the server to ensure connectivity.
func NewRedisClient(redisCfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redisOptions(redisCfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opt.Addr, err)
	}

	return client, nil
}

// redisOptions accepts either host:port or a redis:// URL in Address.
func redisOptions(redisCfg config.RedisConfig) (*redis.Options, error) {
	if redisCfg.Address == "" {
		return nil, fmt.Errorf("redis configuration is missing or address is empty")
	}

	if strings.HasPrefix(redisCfg.Address, "redis://") || strings.HasPrefix(redisCfg.Address, "rediss://") {
		opt, err := redis.ParseURL(redisCfg.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		return opt, nil
	}

	return &redis.Options{
		Addr:     redisCfg.Address,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	}, nil
}
