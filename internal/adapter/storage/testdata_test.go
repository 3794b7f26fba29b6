package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/pos-journal/internal/core/domain"
)

// legacyBlob is a journal written by the browser build: numeric ids, float
// amounts and millisecond ISO timestamps.
const legacyBlob = `{
  "cart": [{"itemName":"Latte","unitPrice":4.5,"category":"hot_drinks","inventory":20,"quantity":2,"amount":9}],
  "sales": [{"id":1704067200000,"items":[{"itemName":"Coffee","unitPrice":3,"category":"beverage","inventory":10,"quantity":2,"amount":6}],"total":6,"timestamp":"2024-01-01T00:00:00.000Z"}]
}`

func sampleState() domain.State {
	coffee := domain.CatalogItem{ItemName: "Coffee", UnitPrice: decimal.RequireFromString("3.00"), Category: "beverage", Inventory: 10}
	line := domain.NewCartLine(coffee, 2)
	return domain.State{
		Cart:  []domain.CartLine{domain.NewCartLine(coffee, 1)},
		Sales: []domain.Sale{domain.NewSale("sale-1", []domain.CartLine{line}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))},
	}
}
