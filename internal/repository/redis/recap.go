package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/absensi-go/internal/domain/attendance"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/cache"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/absensi-go/internal/pkg/recap"
)

type recapCache struct {
	client *cache.Redis
	ttl    time.Duration
}

// NewRecapCache returns a monthly recap cache. A nil client gives a cache
// that always misses.
func NewRecapCache(client *cache.Redis, ttl time.Duration) attendance.RecapCache {
	return &recapCache{client: client, ttl: ttl}
}

func recapKey(userID string, year, month int) string {
	return fmt.Sprintf("recap:%s:%04d-%02d", userID, year, month)
}

// Get implements attendance.RecapCache. Errors are logged and reported as a miss.
func (c *recapCache) Get(ctx context.Context, userID string, year, month int) (recap.Counts, bool) {
	var counts recap.Counts
	err := c.client.GetJSON(ctx, recapKey(userID, year, month), &counts)
	switch {
	case err == nil:
		metrics.RecapCache.WithLabelValues("hit").Inc()
		return counts, true
	case errors.Is(err, cache.ErrMiss):
		metrics.RecapCache.WithLabelValues("miss").Inc()
	default:
		metrics.RecapCache.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "recap cache read failed", "user_id", userID, "error", err)
	}
	return recap.Counts{}, false
}

// Set implements attendance.RecapCache.
func (c *recapCache) Set(ctx context.Context, userID string, year, month int, counts recap.Counts) {
	if err := c.client.SetJSON(ctx, recapKey(userID, year, month), counts, c.ttl); err != nil {
		slog.WarnContext(ctx, "recap cache write failed", "user_id", userID, "error", err)
	}
}

// Invalidate implements attendance.RecapCache.
func (c *recapCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.DeletePattern(ctx, fmt.Sprintf("recap:%s:*", userID)); err != nil {
		slog.WarnContext(ctx, "recap cache invalidation failed", "user_id", userID, "error", err)
	}
}
