package service

import (
	"strings"
	"time"
)

const SaleDateLayout = "2006-01-02"

// ParseSaleDate reads a YYYY-MM-DD date as midnight in loc. An empty string
// yields the zero time, which Checkout treats as "now".
func ParseSaleDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}

	t, err := time.ParseInLocation(SaleDateLayout, value, loc)
	if err != nil {
		return time.Time{}, invalid(ErrInvalidSaleDate, "invalid sale date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}
