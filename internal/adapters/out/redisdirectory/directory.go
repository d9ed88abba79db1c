// Package redisdirectory caches courier lookups in Redis in front of
// another courier directory.
package redisdirectory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/louwis-alfred/Backend-Commerce/internal/core/domain/model/kernel"
	"github.com/louwis-alfred/Backend-Commerce/internal/core/ports"
)

// DefaultTTL is used when the configured TTL is not positive.
const DefaultTTL = 5 * time.Minute

const keyPrefix = "courier:"

type cachedCourier struct {
	ID   kernel.UUID `json:"id"`
	Name string      `json:"name"`
}

// CachedCourierDirectory is a read-through cache. Redis failures are logged
// and the lookup goes to the wrapped directory, so a cache outage only
// costs latency.
type CachedCourierDirectory struct {
	next   ports.CourierDirectory
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedCourierDirectory(
	next ports.CourierDirectory,
	client redis.UniversalClient,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedCourierDirectory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedCourierDirectory{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "courier_cache"),
	}
}

// Lookup serves from Redis when possible. Unknown couriers are not cached.
func (d *CachedCourierDirectory) Lookup(ctx context.Context, courierID kernel.UUID) (ports.CourierInfo, error) {
	if err := courierID.Validate(); err != nil {
		return ports.CourierInfo{}, err
	}

	key := Key(courierID)
	raw, err := d.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached cachedCourier
		if err = json.Unmarshal(raw, &cached); err == nil {
			return ports.CourierInfo{ID: cached.ID, Name: cached.Name}, nil
		}
		d.logger.WarnContext(ctx, "Dropping unreadable cache entry", "key", key, "error", err)
	case errors.Is(err, redis.Nil):
	default:
		d.logger.WarnContext(ctx, "Courier cache read failed", "key", key, "error", err)
	}

	info, err := d.next.Lookup(ctx, courierID)
	if err != nil {
		return ports.CourierInfo{}, err
	}

	payload, err := json.Marshal(cachedCourier{ID: info.ID, Name: info.Name})
	if err != nil {
		return info, nil
	}
	if err = d.client.Set(ctx, key, payload, d.ttl).Err(); err != nil {
		d.logger.WarnContext(ctx, "Courier cache write failed", "key", key, "error", err)
	}
	return info, nil
}

// Invalidate drops the cached entry, e.g. after a courier was renamed.
func (d *CachedCourierDirectory) Invalidate(ctx context.Context, courierID kernel.UUID) error {
	return d.client.Del(ctx, Key(courierID)).Err()
}

// Key is the Redis key of a courier entry.
func Key(courierID kernel.UUID) string {
	return keyPrefix + courierID.String()
}
