package analytics

import (
	"strings"
	"time"

	"github.com/rl1809/pos-journal/internal/core/domain"
)

type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod never fails: anything unrecognised selects every sale.
func ParsePeriod(value string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(value))); p {
	case PeriodToday, PeriodWeek, PeriodMonth:
		return p
	default:
		return PeriodAll
	}
}

// FilterByPeriod keeps the sales whose timestamp falls in the calendar window
// around now. Calendar boundaries are taken in now's location; weeks run
// Sunday through Saturday.
func FilterByPeriod(sales []domain.Sale, period Period, now time.Time) []domain.Sale {
	keep := periodPredicate(period, now)
	if keep == nil {
		return sales
	}

	out := make([]domain.Sale, 0, len(sales))
	for _, sale := range sales {
		if keep(sale.Timestamp.In(now.Location())) {
			out = append(out, sale)
		}
	}
	return out
}

func periodPredicate(period Period, now time.Time) func(time.Time) bool {
	switch period {
	case PeriodToday:
		y, m, d := now.Date()
		return func(ts time.Time) bool {
			ty, tm, td := ts.Date()
			return ty == y && tm == m && td == d
		}
	case PeriodWeek:
		start, end := weekBounds(now)
		return func(ts time.Time) bool {
			return !ts.Before(start) && ts.Before(end)
		}
	case PeriodMonth:
		y, m, _ := now.Date()
		return func(ts time.Time) bool {
			ty, tm, _ := ts.Date()
			return ty == y && tm == m
		}
	default:
		return nil
	}
}

// weekBounds returns [Sunday 00:00, next Sunday 00:00) for the week holding now.
func weekBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 7)
}
