package platforms

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

// ErrDateRequired is returned by time-of-day transforms called without a trading date.
var ErrDateRequired = errors.New("Date is required for DAS Trader imports")

// SideFunc maps a raw side cell to a normalized side.
type SideFunc func(value string) (domain.Side, error)

// TimestampFunc maps a raw time cell to an instant. date is the optional
// trading date supplied by the caller.
type TimestampFunc func(value string, date *time.Time) (time.Time, error)

// PriceFunc parses a price cell.
type PriceFunc func(value string) (float64, error)

// QuantityFunc parses a share count.
type QuantityFunc func(value string) (int64, error)

// FeesFunc parses a fee cell. It never fails.
type FeesFunc func(value string) float64

// RowFilterFunc reports whether a row represents a fill worth importing.
type RowFilterFunc func(row domain.Row) bool

// Transform names understood by the catalog.
const (
	SideDAS       = "das"
	SideDirection = "direction"

	TimestampTimeOfDay = "time_of_day"
	TimestampDateTime  = "datetime"

	PriceCurrency   = "currency"
	QuantityInteger = "integer"
	FeesLenient     = "lenient"

	FilterSkipNonFills = "skip_non_fills"
)

var (
	sideTransforms = map[string]SideFunc{
		SideDAS:       parseDASSide,
		SideDirection: parseDirectionSide,
	}
	timestampTransforms = map[string]TimestampFunc{
		TimestampTimeOfDay: parseTimeOfDay,
		TimestampDateTime:  parseDateTime,
	}
	priceTransforms = map[string]PriceFunc{
		PriceCurrency: parseCurrency,
	}
	quantityTransforms = map[string]QuantityFunc{
		QuantityInteger: parseQuantity,
	}
	feesTransforms = map[string]FeesFunc{
		FeesLenient: parseFees,
	}
	rowFilters = map[string]RowFilterFunc{
		FilterSkipNonFills: skipNonFills,
	}
)

func parseDASSide(value string) (domain.Side, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	switch {
	case v == "B" || v == "BUY" || strings.HasPrefix(v, "BOT"):
		return domain.SideBuy, nil
	case v == "S" || v == "SELL" || strings.HasPrefix(v, "SOLD"):
		return domain.SideSell, nil
	}
	return "", fmt.Errorf("Invalid side value: %s", value)
}

func parseDirectionSide(value string) (domain.Side, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "LONG", "BUY", "B":
		return domain.SideBuy, nil
	case "SHORT", "SELL", "S":
		return domain.SideSell, nil
	}
	return "", fmt.Errorf("Invalid side value: %s", value)
}

// parseTimeOfDay reads HH:MM[:SS[.fff]] and places it on the trading date,
// in the date's location.
func parseTimeOfDay(value string, date *time.Time) (time.Time, error) {
	if date == nil {
		return time.Time{}, ErrDateRequired
	}

	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return time.Time{}, fmt.Errorf("Invalid time format: %s", value)
	}

	hours, errH := strconv.Atoi(parts[0])
	minutes, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return time.Time{}, fmt.Errorf("Invalid time format: %s", value)
	}

	var seconds float64
	if len(parts) == 3 && parts[2] != "" {
		s, err := strconv.ParseFloat(parts[2], 64)
		if err != nil || s < 0 || s >= 60 {
			return time.Time{}, fmt.Errorf("Invalid time format: %s", value)
		}
		seconds = s
	}

	whole := int(seconds)
	nanos := int(math.Round((seconds - float64(whole)) * 1e3) * 1e6)

	y, m, d := date.Date()
	return time.Date(y, m, d, hours, minutes, whole, nanos, date.Location()), nil
}

// dateTimeLayouts are tried in order. Zoneless layouts are read in the
// trading date's location, or UTC when no date was supplied.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"01/02/2006",
	"1/2/2006",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006 3:04:05 PM",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC1123Z,
	time.RFC1123,
}

func parseDateTime(value string, date *time.Time) (time.Time, error) {
	v := strings.TrimSpace(value)
	loc := time.UTC
	if date != nil {
		loc = date.Location()
	}
	for _, layout := range dateTimeLayouts {
		if ts, err := time.ParseInLocation(layout, v, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("Invalid timestamp: %s", value)
}

var currencyReplacer = strings.NewReplacer("$", "", ",", "")

func cleanNumber(value string) string {
	return strings.TrimSpace(currencyReplacer.Replace(value))
}

func parseCurrency(value string) (float64, error) {
	price, err := strconv.ParseFloat(cleanNumber(value), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("Invalid price: %s", value)
	}
	return price, nil
}

// parseQuantity accepts the leading integer of the cell, so "100.0" reads as 100.
func parseQuantity(value string) (int64, error) {
	qty, ok := leadingInt(cleanNumber(value))
	if !ok || qty <= 0 {
		return 0, fmt.Errorf("Invalid quantity: %s", value)
	}
	return qty, nil
}

func leadingInt(s string) (int64, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseFees(value string) float64 {
	fees, err := strconv.ParseFloat(cleanNumber(value), 64)
	if err != nil || math.IsNaN(fees) || math.IsInf(fees, 0) {
		return 0
	}
	return math.Abs(fees)
}

// nonFillEvents are order audit entries that never carry a fill.
var nonFillEvents = map[string]bool{
	"accept":    true,
	"accepted":  true,
	"cancel":    true,
	"canceled":  true,
	"cancelled": true,
	"reject":    true,
	"rejected":  true,
}

// skipNonFills drops rows whose Event or Status column names an order audit
// entry. Every other value, including an empty one, passes.
func skipNonFills(row domain.Row) bool {
	for _, key := range row.Keys() {
		switch strings.ToLower(key) {
		case "event", "status":
			if nonFillEvents[strings.ToLower(strings.TrimSpace(row.Value(key)))] {
				return false
			}
		}
	}
	return true
}
