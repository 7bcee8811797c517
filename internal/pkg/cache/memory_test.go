package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient_SetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()

	_, err := c.Get(ctx, "report:balance")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "report:balance", []byte(`[{"balance":70}]`), time.Minute))
	val, err := c.Get(ctx, "report:balance")
	require.NoError(t, err)
	assert.Equal(t, `[{"balance":70}]`, val)

}

func TestMemoryClient_Expiration(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryClient()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v", time.Second))
	_, err := c.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClient_IncrKeepsTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryClient()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "rate-limit:1.2.3.4", 1, time.Minute))
	n, err := c.Incr(ctx, "rate-limit:1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := c.GetInt(ctx, "rate-limit:1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	now = now.Add(time.Minute)
	_, err = c.GetInt(ctx, "rate-limit:1.2.3.4")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClient_WritesSweepExpiredKeys(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryClient()
	c.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("report:balance:v%d", i), "[]", time.Minute))
		_, err := c.Incr(ctx, "report:version")
		require.NoError(t, err)
	}
	require.NoError(t, c.Set(ctx, "rate-limit:10.0.0.1", 1, time.Minute))

	now = now.Add(time.Hour)
	_, err := c.Incr(ctx, "report:version")
	require.NoError(t, err)

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Len(t, c.items, 1, "só o contador sem TTL deve sobrar")
	assert.Equal(t, "1001", c.items["report:version"].value)
}
