package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedis_DisabledWhenAddrEmpty(t *testing.T) {
	r := NewRedis("", "", 0)
	assert.Nil(t, r)

	ctx := context.Background()
	var dst map[string]int

	assert.ErrorIs(t, r.GetJSON(ctx, "k", &dst), ErrMiss)
	assert.NoError(t, r.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, r.DeletePattern(ctx, "k*"))
	assert.False(t, r.Healthy(ctx))
	assert.NoError(t, r.Close())
}
