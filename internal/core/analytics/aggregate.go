package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rl1809/pos-journal/internal/core/domain"
)

const DefaultTopLimit = 5

type ProductSales struct {
	ItemName string          `json:"itemName"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

type CategorySales struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// AggregateByProduct groups every line by item name, ordered by quantity
// descending. Equal quantities keep the order in which items were first seen.
func AggregateByProduct(sales []domain.Sale) []ProductSales {
	index := make(map[string]int)
	out := make([]ProductSales, 0)

	for _, sale := range sales {
		for _, item := range sale.Items {
			idx, ok := index[item.ItemName]
			if !ok {
				idx = len(out)
				index[item.ItemName] = idx
				out = append(out, ProductSales{ItemName: item.ItemName, Total: decimal.Zero})
			}
			out[idx].Quantity += item.Quantity
			out[idx].Total = out[idx].Total.Add(item.Amount)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity > out[j].Quantity
	})
	return out
}

// TotalRevenue sums the stored sale totals as recorded.
func TotalRevenue(sales []domain.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, sale := range sales {
		total = total.Add(sale.Total)
	}
	return total
}

func TopSellingItems(sales []domain.Sale, limit int) []ProductSales {
	if limit <= 0 {
		return []ProductSales{}
	}
	products := AggregateByProduct(sales)
	if len(products) > limit {
		products = products[:limit]
	}
	return products
}

// SalesByCategory sums line amounts per category, highest value first. Names
// are returned in display form.
func SalesByCategory(sales []domain.Sale) []CategorySales {
	index := make(map[string]int)
	out := make([]CategorySales, 0)

	for _, sale := range sales {
		for _, item := range sale.Items {
			idx, ok := index[item.Category]
			if !ok {
				idx = len(out)
				index[item.Category] = idx
				out = append(out, CategorySales{Name: item.Category, Value: decimal.Zero})
			}
			out[idx].Value = out[idx].Value.Add(item.Amount)
		}
	}

	for i := range out {
		out[i].Name = domain.CategoryLabel(out[i].Name)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value.GreaterThan(out[j].Value)
	})
	return out
}

// ItemsSold counts units across the given sales.
func ItemsSold(sales []domain.Sale) int {
	n := 0
	for _, sale := range sales {
		n += sale.ItemCount()
	}
	return n
}

// RecentTransactions returns up to n sales, most recently appended first.
func RecentTransactions(sales []domain.Sale, n int) []domain.Sale {
	if n <= 0 {
		return []domain.Sale{}
	}
	out := make([]domain.Sale, 0, min(n, len(sales)))
	for i := len(sales) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, sales[i])
	}
	return out
}
