package domain

import "github.com/shopspring/decimal"

type CartLine struct {
	ItemName  string          `json:"itemName"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

func NewCartLine(item CatalogItem, quantity int) CartLine {
	return CartLine{
		ItemName:  item.ItemName,
		UnitPrice: item.UnitPrice,
		Category:  item.Category,
		Quantity:  quantity,
		Amount:    lineAmount(item.UnitPrice, quantity),
	}
}

func lineAmount(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// Cart holds at most one line per item name. Lines only grow; the whole
// cart is cleared on checkout or on request.
type Cart struct {
	lines []CartLine
}

// NewCart rebuilds a cart from persisted lines. Lines with a non-positive
// quantity are dropped, repeated item names are merged and every amount is
// recomputed from quantity and unit price.
func NewCart(lines []CartLine) *Cart {
	c := &Cart{lines: make([]CartLine, 0, len(lines))}
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if idx := c.indexOf(line.ItemName); idx >= 0 {
			c.lines[idx].Quantity += line.Quantity
			c.lines[idx].Amount = lineAmount(c.lines[idx].UnitPrice, c.lines[idx].Quantity)
			continue
		}
		line.Amount = lineAmount(line.UnitPrice, line.Quantity)
		c.lines = append(c.lines, line)
	}
	return c
}

// Add merges quantity into the item's line, creating it when absent, and
// returns the resulting line. Callers validate quantity and stock first.
func (c *Cart) Add(item CatalogItem, quantity int) CartLine {
	if idx := c.indexOf(item.ItemName); idx >= 0 {
		line := &c.lines[idx]
		line.Quantity += quantity
		line.Amount = lineAmount(line.UnitPrice, line.Quantity)
		return *line
	}

	line := NewCartLine(item, quantity)
	c.lines = append(c.lines, line)
	return line
}

func (c *Cart) Quantity(itemName string) int {
	if idx := c.indexOf(itemName); idx >= 0 {
		return c.lines[idx].Quantity
	}
	return 0
}

func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Amount)
	}
	return total
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = c.lines[:0:0]
}

func (c *Cart) indexOf(itemName string) int {
	for i, line := range c.lines {
		if line.ItemName == itemName {
			return i
		}
	}
	return -1
}
