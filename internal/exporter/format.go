package exporter

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// formatMoney formats an amount with exactly 2 decimal places
func formatMoney(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(2)
}

// formatPrice formats a price with the shortest exact representation
func formatPrice(f float64) string {
	return decimal.NewFromFloat(f).String()
}

// formatOptionalPrice formats a nil price as an empty cell
func formatOptionalPrice(f *float64) string {
	if f == nil {
		return ""
	}
	return formatPrice(*f)
}

// formatOptionalMoney formats a nil amount as an empty cell
func formatOptionalMoney(f *float64) string {
	if f == nil {
		return ""
	}
	return formatMoney(*f)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatTime formats a timestamp as RFC3339 in UTC. A nil time is an empty cell.
func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
