package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgcache "creatorpay/pkg/cache"
	"creatorpay/services/discovery/internal/entity"

	"github.com/redis/go-redis/v9"
)

type ListingCache interface {
	// Get returns nil without error on a cache miss.
	Get(ctx context.Context) (*entity.Listing, error)
	Set(ctx context.Context, listing *entity.Listing) error
	Invalidate(ctx context.Context) error
}

type listingCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewListingCache(rdb redis.Cmdable, ttl time.Duration) ListingCache {
	return &listingCache{rdb: rdb, ttl: ttl}
}

func (c *listingCache) Get(ctx context.Context) (*entity.Listing, error) {
	raw, err := c.rdb.Get(ctx, pkgcache.DiscoveryCreatorsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read discovery cache: %w", err)
	}

	var listing entity.Listing
	if err := json.Unmarshal(raw, &listing); err != nil {
		return nil, fmt.Errorf("failed to decode discovery cache: %w", err)
	}
	return &listing, nil
}

func (c *listingCache) Set(ctx context.Context, listing *entity.Listing) error {
	raw, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("failed to encode discovery listing: %w", err)
	}
	if err := c.rdb.Set(ctx, pkgcache.DiscoveryCreatorsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write discovery cache: %w", err)
	}
	return nil
}

func (c *listingCache) Invalidate(ctx context.Context) error {
	return pkgcache.InvalidateDiscovery(ctx, c.rdb)
}
