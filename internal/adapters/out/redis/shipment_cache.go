// Package redis caches shipment registry lookups. Only found shipments are
// cached; a miss always reaches the registry so a newly booked waybill is
// visible at once.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"custody/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "custody:shipment:"

// NewClient parses a redis:// URL into a client.
func NewClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// CachedShipmentRegistry is a read-through cache in front of another
// registry. Redis failures are logged and bypassed.
type CachedShipmentRegistry struct {
	client *redis.Client
	next   ports.ShipmentRegistry
	ttl    time.Duration
	log    *zap.Logger
}

func NewCachedShipmentRegistry(
	client *redis.Client,
	next ports.ShipmentRegistry,
	ttl time.Duration,
	log *zap.Logger,
) *CachedShipmentRegistry {
	return &CachedShipmentRegistry{
		client: client,
		next:   next,
		ttl:    ttl,
		log:    log.Named("shipment_cache"),
	}
}

func (c *CachedShipmentRegistry) FindByAwb(ctx context.Context, awb string) (ports.Shipment, error) {
	awb = strings.TrimSpace(awb)
	key := keyPrefix + awb

	status, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return ports.Shipment{AWB: awb, Status: status}, nil
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn("cache read failed", zap.String("awb", awb), zap.Error(err))
	}

	shipment, err := c.next.FindByAwb(ctx, awb)
	if err != nil {
		return ports.Shipment{}, err
	}

	if err = c.client.Set(ctx, key, shipment.Status, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", zap.String("awb", awb), zap.Error(err))
	}
	return shipment, nil
}

// Invalidate drops the cached entry for awb.
func (c *CachedShipmentRegistry) Invalidate(ctx context.Context, awb string) error {
	if err := c.client.Del(ctx, keyPrefix+strings.TrimSpace(awb)).Err(); err != nil {
		return fmt.Errorf("failed to delete key for %s: %w", awb, err)
	}
	return nil
}

// InvalidatingShipmentFeed evicts the cached status after every successful
// upsert so the next scan reads the new value.
type InvalidatingShipmentFeed struct {
	next  ports.ShipmentFeed
	cache *CachedShipmentRegistry
}

func NewInvalidatingShipmentFeed(next ports.ShipmentFeed, cache *CachedShipmentRegistry) *InvalidatingShipmentFeed {
	return &InvalidatingShipmentFeed{next: next, cache: cache}
}

func (f *InvalidatingShipmentFeed) Upsert(ctx context.Context, s ports.Shipment) error {
	if err := f.next.Upsert(ctx, s); err != nil {
		return err
	}
	if err := f.cache.Invalidate(ctx, s.AWB); err != nil {
		f.cache.log.Warn("cache invalidation failed", zap.String("awb", s.AWB), zap.Error(err))
	}
	return nil
}
