package dataprocessing

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

func duplicateKey(t domain.Trade) string {
	return t.Symbol + "|" + t.OpenedAt.UTC().Format(time.RFC3339Nano) + "|" + strconv.FormatFloat(t.EntryPrice, 'f', -1, 64)
}

// DetectDuplicates flags every trade whose symbol, open time and entry price
// repeat an earlier trade in the slice. The first occurrence is never flagged
// and no trade is removed.
func DetectDuplicates(trades []domain.Trade) []domain.ImportWarning {
	var warnings []domain.ImportWarning
	seen := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		key := duplicateKey(t)
		if _, ok := seen[key]; ok {
			warnings = append(warnings, domain.ImportWarning{
				Row:     t.SourceRow,
				Type:    domain.WarningDuplicate,
				Message: fmt.Sprintf("Possible duplicate trade: %s at %s", t.Symbol, strconv.FormatFloat(t.EntryPrice, 'f', -1, 64)),
			})
			continue
		}
		seen[key] = struct{}{}
	}
	return warnings
}
