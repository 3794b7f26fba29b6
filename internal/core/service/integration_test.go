package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/pos-journal/internal/adapter/storage"
	"github.com/rl1809/pos-journal/internal/core/domain"
	"github.com/rl1809/pos-journal/internal/core/service"
)

type testEnv struct {
	mr      *miniredis.Miniredis
	redis   *redis.Client
	catalog *domain.Catalog
}

func setupTestEnv(t *testing.T) *testEnv {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	catalog, err := domain.NewCatalog([]domain.CatalogItem{
		{ItemName: "Coffee", UnitPrice: decimal.RequireFromString("3.00"), Category: "beverage", Inventory: 20},
		{ItemName: "Bagel", UnitPrice: decimal.RequireFromString("1.50"), Category: "bakery", Inventory: 5},
	})
	require.NoError(t, err)

	return &testEnv{mr: mr, redis: rdb, catalog: catalog}
}

func (env *testEnv) newService(t *testing.T) *service.POSService {
	svc := service.NewPOSService(env.catalog, storage.NewRedisAdapter(env.redis, storage.DefaultStateKey),
		service.WithLocation(time.UTC))
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestIntegration_JournalSurvivesRestart(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first := env.newService(t)
	_, err := first.AddToCart(ctx, "Coffee", 2)
	require.NoError(t, err)
	sale, err := first.Checkout(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = first.AddToCart(ctx, "Bagel", 1)
	require.NoError(t, err)

	second := env.newService(t)

	require.Len(t, second.Sales(), 1)
	assert.Equal(t, sale.ID, second.Sales()[0].ID)
	assert.True(t, second.Sales()[0].Total.Equal(decimal.RequireFromString("6")))
	require.Len(t, second.Cart(), 1)
	assert.Equal(t, "Bagel", second.Cart()[0].ItemName)
	assert.Equal(t, 18, second.Remaining()["Coffee"])
}

func TestIntegration_MalformedBlobStartsEmpty(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.mr.Set(storage.DefaultStateKey, "{not json"))

	svc := service.NewPOSService(env.catalog, storage.NewRedisAdapter(env.redis, ""))
	err := svc.Load(context.Background())

	assert.True(t, service.IsPersistence(err))
	assert.ErrorIs(t, err, storage.ErrMalformedState)
	assert.Empty(t, svc.Sales())

	// The next successful write replaces the bad blob.
	_, err = svc.AddToCart(context.Background(), "Bagel", 1)
	require.NoError(t, err)
	assert.NoError(t, svc.Load(context.Background()))
}

func TestIntegration_RedisDownKeepsMutation(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.newService(t)
	env.mr.Close()

	_, err := svc.AddToCart(context.Background(), "Coffee", 1)

	assert.True(t, service.IsPersistence(err))
	assert.Len(t, svc.Cart(), 1)
}

func TestIntegration_ConcurrentSellout(t *testing.T) {
	env := setupTestEnv(t)
	svc := env.newService(t)
	ctx := context.Background()

	var successCount atomic.Int32
	var wg sync.WaitGroup
	totalRequests := 50

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AddToCart(ctx, "Coffee", 1); err == nil {
				successCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(20), successCount.Load())

	_, err := svc.Checkout(ctx, time.Time{})
	require.NoError(t, err)

	reloaded := env.newService(t)
	assert.Equal(t, 0, reloaded.Remaining()["Coffee"])
	assert.Empty(t, reloaded.Cart())
}
