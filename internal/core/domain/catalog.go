package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

type CatalogItem struct {
	ItemName  string          `json:"itemName"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Category  string          `json:"category"`
	Inventory int             `json:"inventory"` // base stock before any sale
}

// Catalog is the read-only product list loaded once at startup.
type Catalog struct {
	items  []CatalogItem
	byName map[string]int
}

func NewCatalog(items []CatalogItem) (*Catalog, error) {
	c := &Catalog{
		items:  make([]CatalogItem, 0, len(items)),
		byName: make(map[string]int, len(items)),
	}

	for i, item := range items {
		if strings.TrimSpace(item.ItemName) == "" {
			return nil, fmt.Errorf("%w: item %d has no name", ErrInvalidCatalog, i)
		}
		if _, dup := c.byName[item.ItemName]; dup {
			return nil, fmt.Errorf("%w: duplicate item %q", ErrInvalidCatalog, item.ItemName)
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: item %q has negative price", ErrInvalidCatalog, item.ItemName)
		}
		if item.Inventory < 0 {
			return nil, fmt.Errorf("%w: item %q has negative inventory", ErrInvalidCatalog, item.ItemName)
		}

		c.byName[item.ItemName] = len(c.items)
		c.items = append(c.items, item)
	}

	return c, nil
}

func (c *Catalog) Items() []CatalogItem {
	out := make([]CatalogItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Lookup(itemName string) (CatalogItem, bool) {
	idx, ok := c.byName[itemName]
	if !ok {
		return CatalogItem{}, false
	}
	return c.items[idx], true
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Categories returns the distinct raw category values in ascending order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, item := range c.items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		out = append(out, item.Category)
	}
	sort.Strings(out)
	return out
}

// CategoryLabel converts a raw category such as "hot_drinks" to its display form.
func CategoryLabel(category string) string {
	return strings.ReplaceAll(category, "_", " ")
}
