package cache

import (
	"context"
	"fmt"
	"time"

	"creatorpay/pkg/config"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// DiscoveryCreatorsKey holds the cached discovery listing.
const DiscoveryCreatorsKey = "discovery:creators"

// InvalidateDiscovery drops the cached discovery listing so the next request
// rebuilds it from the chain.
func InvalidateDiscovery(ctx context.Context, rdb redis.Cmdable) error {
	if rdb == nil {
		return nil
	}
	if err := rdb.Del(ctx, DiscoveryCreatorsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate discovery cache: %w", err)
	}
	return nil
}
