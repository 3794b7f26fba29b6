package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisAdapter, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisAdapter(client, "test:state"), mr
}

func TestRedisAdapter_LoadMissingKey(t *testing.T) {
	adapter, _ := setupTestRedis(t)

	state, err := adapter.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Cart)
	assert.Empty(t, state.Sales)
}

func TestRedisAdapter_SaveThenLoad(t *testing.T) {
	adapter, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, adapter.Save(ctx, sampleState()))
	assert.True(t, mr.Exists("test:state"))

	state, err := adapter.Load(ctx)
	require.NoError(t, err)
	require.Len(t, state.Sales, 1)
	assert.Equal(t, "sale-1", state.Sales[0].ID.String())
	require.Len(t, state.Cart, 1)
	assert.Equal(t, 1, state.Cart[0].Quantity)
}

func TestRedisAdapter_SaveOverwrites(t *testing.T) {
	adapter, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, adapter.Save(ctx, sampleState()))
	empty := sampleState()
	empty.Sales = nil
	require.NoError(t, adapter.Save(ctx, empty))

	state, err := adapter.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Sales)
}

func TestRedisAdapter_MalformedBlob(t *testing.T) {
	adapter, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("test:state", "not json"))

	state, err := adapter.Load(context.Background())
	assert.ErrorIs(t, err, ErrMalformedState)
	assert.Empty(t, state.Sales)
}

func TestRedisAdapter_LegacyBlob(t *testing.T) {
	adapter, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("test:state", legacyBlob))

	state, err := adapter.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Sales, 1)
}

func TestRedisAdapter_ServerDown(t *testing.T) {
	adapter, mr := setupTestRedis(t)
	mr.Close()

	_, err := adapter.Load(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedState)

	assert.Error(t, adapter.Save(context.Background(), sampleState()))
}
