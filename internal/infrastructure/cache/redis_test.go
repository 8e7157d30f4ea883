package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-literacy-portal/internal/domain/models"
	"legal-literacy-portal/pkg/logger"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisWithClient(client, "test:", logger.NewNop()), mr
}

func TestRedisCache_JSONRoundTrip(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}
	var got payload
	found, err := c.loadJSON(ctx, c.key("k"), &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.storeJSON(ctx, c.key("k"), payload{Name: "x"}, time.Minute))
	assert.True(t, mr.Exists("test:k"))

	found, err = c.loadJSON(ctx, c.key("k"), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "x", got.Name)

	require.NoError(t, mr.Set("test:bad", "{not json"))
	_, err = c.loadJSON(ctx, c.key("bad"), &got)
	assert.Error(t, err)

	require.NoError(t, c.forget(ctx, c.key("k")))
	assert.False(t, mr.Exists("test:k"))
	assert.NoError(t, c.Ping(ctx))
}

func TestRedisCache_CheckRateLimit(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 2, 10, 15, 20, 0, time.UTC)
	mr.SetTime(now)
	c.now = func() time.Time { return now }
	windowEnd := time.Date(2026, 3, 2, 10, 16, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		d, err := c.CheckRateLimit(ctx, "10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, int64(3-i), d.Remaining)
		assert.Equal(t, windowEnd, d.ResetAt)
	}

	d, err := c.CheckRateLimit(ctx, "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, int64(0), d.Remaining)

	d, err = c.CheckRateLimit(ctx, "10.0.0.2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// The next window starts a fresh count
	now = windowEnd.Add(time.Second)
	d, err = c.CheckRateLimit(ctx, "10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(2), d.Remaining)
}

func TestSessionStore(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()
	store := NewSessionStore(c, time.Hour)

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	state := &models.WizardState{
		SessionID: "abc",
		Step:      models.WizardStepAssets,
		Will:      models.WillDocument{TestatorName: "Nomsa", Assets: []string{"House"}},
	}
	require.NoError(t, store.Save(ctx, state))
	assert.Equal(t, time.Hour, mr.TTL("test:"+KeySessionPrefix+"abc"))

	got, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, models.WizardStepAssets, got.Step)
	assert.Equal(t, []string{"House"}, got.Will.Assets)

	mr.FastForward(2 * time.Hour)
	_, err = store.Load(ctx, "abc")
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, store.Save(ctx, state))
	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Load(ctx, "abc")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
