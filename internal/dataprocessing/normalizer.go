package dataprocessing

import (
	"strings"
	"time"

	"github.com/gwilson152/TradePulse-new/internal/platforms"
	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

// findColumn returns the first row key matching any alias, ignoring case.
// Aliases are tried in priority order and keys in header order.
func findColumn(row domain.Row, aliases []string) (string, bool) {
	keys := row.Keys()
	for _, alias := range aliases {
		for _, key := range keys {
			if strings.EqualFold(key, alias) {
				return key, true
			}
		}
	}
	return "", false
}

// Normalize turns one row into an execution using the platform's columns and
// transforms. Failures are returned as *ValidationError.
func Normalize(row domain.Row, platform *platforms.Platform, tradingDate *time.Time, rowNumber int) (*domain.Execution, error) {
	cols := make(map[platforms.Field]string, len(platforms.RequiredFields))
	for _, f := range platforms.RequiredFields {
		col, ok := findColumn(row, platform.Aliases(f))
		if !ok {
			return nil, &ValidationError{
				Row:     rowNumber,
				Message: "Missing required columns. Found: " + strings.Join(row.Keys(), ", "),
				Data:    row,
			}
		}
		cols[f] = col
	}

	fail := func(f platforms.Field, err error) error {
		return &ValidationError{
			Row:     rowNumber,
			Column:  cols[f],
			Message: err.Error(),
			Data:    row,
			Err:     err,
		}
	}

	symbol := strings.ToUpper(strings.TrimSpace(row.Value(cols[platforms.FieldSymbol])))
	if symbol == "" {
		return nil, &ValidationError{
			Row:     rowNumber,
			Column:  cols[platforms.FieldSymbol],
			Message: "Symbol is required",
			Data:    row,
		}
	}

	side, err := platform.Side(row.Value(cols[platforms.FieldSide]))
	if err != nil {
		return nil, fail(platforms.FieldSide, err)
	}
	price, err := platform.Price(row.Value(cols[platforms.FieldPrice]))
	if err != nil {
		return nil, fail(platforms.FieldPrice, err)
	}
	quantity, err := platform.Quantity(row.Value(cols[platforms.FieldQuantity]))
	if err != nil {
		return nil, fail(platforms.FieldQuantity, err)
	}
	timestamp, err := platform.Timestamp(row.Value(cols[platforms.FieldTimestamp]), tradingDate)
	if err != nil {
		return nil, fail(platforms.FieldTimestamp, err)
	}

	exec := &domain.Execution{
		Symbol:    symbol,
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		Timestamp: timestamp,
		Row:       rowNumber,
		RawData:   row,
	}

	if col, ok := findColumn(row, platform.Aliases(platforms.FieldFees)); ok {
		if v := row.Value(col); v != "" {
			exec.Fees = platform.Fees(v)
		}
	}
	if col, ok := findColumn(row, platform.Aliases(platforms.FieldAccount)); ok {
		exec.Account = row.Value(col)
	}
	if col, ok := findColumn(row, platform.Aliases(platforms.FieldOrderType)); ok {
		exec.OrderType = row.Value(col)
	}

	return exec, nil
}
