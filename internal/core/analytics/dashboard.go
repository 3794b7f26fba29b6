package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/pos-journal/internal/core/domain"
)

const recentTransactionCount = 5

type Dashboard struct {
	Period             Period          `json:"period"`
	Revenue            decimal.Decimal `json:"revenue"`
	Transactions       int             `json:"transactions"`
	ItemsSold          int             `json:"itemsSold"`
	TopProduct         string          `json:"topProduct"`
	TopItems           []ProductSales  `json:"topItems"`
	Products           []ProductSales  `json:"products"`
	Categories         []CategorySales `json:"categories"`
	Daily              []Bucket        `json:"daily"`
	Monthly            []Bucket        `json:"monthly"`
	RecentTransactions []domain.Sale   `json:"recentTransactions"`
}

// Summarize computes every dashboard view over the sales in period.
func Summarize(sales []domain.Sale, period Period, now time.Time) Dashboard {
	filtered := FilterByPeriod(sales, period, now)
	top := TopSellingItems(filtered, DefaultTopLimit)

	d := Dashboard{
		Period:             period,
		Revenue:            TotalRevenue(filtered),
		Transactions:       len(filtered),
		ItemsSold:          ItemsSold(filtered),
		TopItems:           top,
		Products:           AggregateByProduct(filtered),
		Categories:         SalesByCategory(filtered),
		Daily:              TimeSeries(filtered, Daily, now.Location()),
		Monthly:            TimeSeries(filtered, Monthly, now.Location()),
		RecentTransactions: RecentTransactions(filtered, recentTransactionCount),
	}
	if len(top) > 0 {
		d.TopProduct = top[0].ItemName
	}
	return d
}
