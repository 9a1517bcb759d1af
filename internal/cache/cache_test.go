package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divyansh-9/Urja/internal/domain"
)

func sampleUCO(userID string) *domain.UserContextObject {
	return &domain.UserContextObject{
		Meta: domain.UCOMeta{UserID: userID, Version: 1},
		Physical: domain.Physical{
			Age: 21, HeightCm: 170, WeightKg: 65,
		},
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, sampleUCO("u1")))

	got, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.Meta.UserID)
	assert.Equal(t, 1, got.Meta.Version)
}

func TestMemoryCacheInvalidate(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleUCO("u1")))
	require.NoError(t, c.Invalidate(ctx, "u1"))

	_, err := c.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute).(*memoryCache)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	require.NoError(t, c.Set(ctx, sampleUCO("u1")))

	c.now = func() time.Time { return base.Add(30 * time.Second) }
	_, err := c.Get(ctx, "u1")
	assert.NoError(t, err)

	c.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = c.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheNilRejected(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	assert.Error(t, c.Set(context.Background(), nil))
}

func TestMemoryCacheInvalidateMissingIsNoop(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	assert.NoError(t, c.Invalidate(context.Background(), "never-set"))
}
