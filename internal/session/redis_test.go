package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gometeo/cityweather/internal/model"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := newRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl, testLogger())
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, time.Hour)

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Set(ctx, "abc", sampleState()))
	assert.True(t, mr.Exists("cityweather:session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("cityweather:session:abc"))

	got, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.UnitsImperial, got.Units)
	assert.Equal(t, 2643743, got.City.ID)
	assert.Equal(t, "E", got.Weather.Wind.Dir)
	assert.Equal(t, "United Kingdom", got.Country.Field("name"))

	require.NoError(t, store.Delete(ctx, "abc"))
	assert.False(t, mr.Exists("cityweather:session:abc"))
	got, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, store.Ping(ctx))
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, time.Minute)

	require.NoError(t, store.Set(ctx, "abc", sampleState()))

	// Saving again restarts the TTL.
	mr.FastForward(40 * time.Second)
	require.NoError(t, store.Set(ctx, "abc", sampleState()))
	assert.Equal(t, time.Minute, mr.TTL("cityweather:session:abc"))

	mr.FastForward(2 * time.Minute)
	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Hour)
	require.NoError(t, mr.Set("cityweather:session:abc", "not json"))

	got, err := store.Get(context.Background(), "abc")
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, time.Hour)
	mr.Close()

	_, err := store.Get(ctx, "abc")
	assert.Error(t, err, "a dead backend must not look like a missing session")
	assert.Error(t, store.Set(ctx, "abc", sampleState()))
	assert.Error(t, store.Ping(ctx))
}
