// Package inventory derives remaining stock from the catalog and the sale
// ledger. It keeps no state: every call walks the whole ledger.
package inventory

import "github.com/rl1809/pos-journal/internal/core/domain"

// Sold sums the quantity sold per item name across every sale.
func Sold(sales []domain.Sale) map[string]int {
	sold := make(map[string]int)
	for _, sale := range sales {
		for _, item := range sale.Items {
			sold[item.ItemName] += item.Quantity
		}
	}
	return sold
}

// Remaining maps every catalog item to its base inventory minus the quantity
// recorded in sales, clamped at zero. The cart in progress is not subtracted.
func Remaining(items []domain.CatalogItem, sales []domain.Sale) map[string]int {
	sold := Sold(sales)

	remaining := make(map[string]int, len(items))
	for _, item := range items {
		remaining[item.ItemName] = max(0, item.Inventory-sold[item.ItemName])
	}
	return remaining
}

// Available is what can still be added to the cart for one item.
func Available(remaining, inCart int) int {
	return max(0, remaining-inCart)
}
