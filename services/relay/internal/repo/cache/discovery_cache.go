package cache

import (
	"context"

	"creatorpay/pkg/cache"

	"github.com/redis/go-redis/v9"
)

// DiscoveryCache drops the shared discovery listing after writes that change it.
type DiscoveryCache interface {
	Invalidate(ctx context.Context) error
}

type discoveryCache struct {
	rdb redis.Cmdable
}

func NewDiscoveryCache(rdb redis.Cmdable) DiscoveryCache {
	return &discoveryCache{rdb: rdb}
}

func (c *discoveryCache) Invalidate(ctx context.Context) error {
	return cache.InvalidateDiscovery(ctx, c.rdb)
}
