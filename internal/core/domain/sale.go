package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SaleID string

// NewSaleID returns a time-ordered (UUIDv7) identifier.
func NewSaleID() (SaleID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate sale id: %w", err)
	}
	return SaleID(id.String()), nil
}

// UnmarshalJSON accepts both string ids and the numeric epoch-millisecond
// ids written by older journals.
func (id *SaleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = SaleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("sale id: %w", err)
	}
	*id = SaleID(n.String())
	return nil
}

func (id SaleID) String() string {
	return string(id)
}

type Sale struct {
	ID        SaleID          `json:"id"`
	Items     []CartLine      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewSale snapshots lines and recomputes the total from the snapshot.
func NewSale(id SaleID, lines []CartLine, timestamp time.Time) Sale {
	items := make([]CartLine, len(lines))
	copy(items, lines)

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}

	return Sale{
		ID:        id,
		Items:     items,
		Total:     total,
		Timestamp: timestamp,
	}
}

// ItemCount is the number of units sold, not the number of lines.
func (s Sale) ItemCount() int {
	n := 0
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}

func (s Sale) Clone() Sale {
	items := make([]CartLine, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}

// Ledger is the append-only sale log; the only other mutation is removal
// of a whole sale by id. Append order does not imply timestamp order.
type Ledger struct {
	sales []Sale
}

func NewLedger(sales []Sale) *Ledger {
	l := &Ledger{sales: make([]Sale, 0, len(sales))}
	for _, sale := range sales {
		l.sales = append(l.sales, sale.Clone())
	}
	return l
}

func (l *Ledger) Append(sale Sale) {
	l.sales = append(l.sales, sale.Clone())
}

// Remove deletes every sale carrying id and reports whether one existed.
func (l *Ledger) Remove(id SaleID) bool {
	kept := l.sales[:0]
	removed := false
	for _, sale := range l.sales {
		if sale.ID == id {
			removed = true
			continue
		}
		kept = append(kept, sale)
	}
	l.sales = kept
	return removed
}

func (l *Ledger) Find(id SaleID) (Sale, bool) {
	for _, sale := range l.sales {
		if sale.ID == id {
			return sale.Clone(), true
		}
	}
	return Sale{}, false
}

func (l *Ledger) Sales() []Sale {
	out := make([]Sale, len(l.sales))
	for i, sale := range l.sales {
		out[i] = sale.Clone()
	}
	return out
}

func (l *Ledger) Len() int {
	return len(l.sales)
}
