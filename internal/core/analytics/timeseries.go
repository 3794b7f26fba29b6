package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/pos-journal/internal/core/domain"
)

type Granularity string

const (
	Daily   Granularity = "daily"
	Monthly Granularity = "monthly"
)

const (
	dailyKeyLayout     = "2006-01-02"
	monthlyKeyLayout   = "2006-01"
	dailyLabelLayout   = "1/2/2006"
	monthlyLabelLayout = "Jan 2006"
)

func ParseGranularity(value string) Granularity {
	if Granularity(strings.ToLower(strings.TrimSpace(value))) == Monthly {
		return Monthly
	}
	return Daily
}

// Bucket is one point of a sales series. Key is a sortable calendar key
// (2006-01-02 or 2006-01); Label is the display form.
type Bucket struct {
	Key          string          `json:"key"`
	Label        string          `json:"label"`
	Sales        decimal.Decimal `json:"sales"`
	Transactions int             `json:"transactions"`
}

// TimeSeries buckets sales by calendar day or month in loc, ascending.
func TimeSeries(sales []domain.Sale, granularity Granularity, loc *time.Location) []Bucket {
	if loc == nil {
		loc = time.Local
	}

	keyLayout, labelLayout := dailyKeyLayout, dailyLabelLayout
	if granularity == Monthly {
		keyLayout, labelLayout = monthlyKeyLayout, monthlyLabelLayout
	}

	index := make(map[string]int)
	out := make([]Bucket, 0)
	for _, sale := range sales {
		ts := sale.Timestamp.In(loc)
		key := ts.Format(keyLayout)

		idx, ok := index[key]
		if !ok {
			idx = len(out)
			index[key] = idx
			out = append(out, Bucket{Key: key, Label: ts.Format(labelLayout), Sales: decimal.Zero})
		}
		out[idx].Sales = out[idx].Sales.Add(sale.Total)
		out[idx].Transactions++
	}

	// zero-padded keys sort chronologically as strings
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}
