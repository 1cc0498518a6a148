package redis

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/absensi-go/internal/pkg/recap"
	"github.com/stretchr/testify/assert"
)

func TestRecapKey(t *testing.T) {
	assert.Equal(t, "recap:user-1:2026-02", recapKey("user-1", 2026, 2))
}

func TestRecapCache_DisabledAlwaysMisses(t *testing.T) {
	c := NewRecapCache(nil, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "user-1", 2026, 2, recap.Counts{Total: 1, Hadir: 1})
	_, ok := c.Get(ctx, "user-1", 2026, 2)
	assert.False(t, ok)
	assert.NotPanics(t, func() { c.Invalidate(ctx, "user-1") })
}
