package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/pos-journal/internal/adapter/storage"
	"github.com/rl1809/pos-journal/internal/core/domain"
	"github.com/rl1809/pos-journal/internal/core/service"
	"github.com/rl1809/pos-journal/internal/port"
)

var testNow = time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC)

type failingStore struct {
	*storage.MemoryAdapter
}

func (failingStore) Save(ctx context.Context, state domain.State) error {
	return errors.New("store unavailable")
}

func newTestPOSService(t *testing.T, failSaves bool, opts ...service.Option) *service.POSService {
	t.Helper()

	catalog, err := domain.NewCatalog([]domain.CatalogItem{
		{ItemName: "Coffee", UnitPrice: decimal.RequireFromString("3.00"), Category: "beverage", Inventory: 10},
		{ItemName: "Scone", UnitPrice: decimal.RequireFromString("2.50"), Category: "baked_goods", Inventory: 3},
	})
	require.NoError(t, err)

	var store port.StateRepository = storage.NewMemoryAdapter()
	if failSaves {
		store = failingStore{storage.NewMemoryAdapter()}
	}

	opts = append([]service.Option{
		service.WithClock(func() time.Time { return testNow }),
		service.WithLocation(time.UTC),
	}, opts...)
	return service.NewPOSService(catalog, store, opts...)
}
