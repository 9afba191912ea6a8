package dataprocessing

import (
	"sort"

	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

// GroupBySymbol orders executions by timestamp, keeping row order for ties,
// and partitions them by symbol in order of first appearance.
func GroupBySymbol(executions []domain.Execution) ([]string, map[string][]domain.Execution) {
	sorted := make([]domain.Execution, len(executions))
	copy(sorted, executions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var symbols []string
	bySymbol := make(map[string][]domain.Execution)
	for _, e := range sorted {
		if _, ok := bySymbol[e.Symbol]; !ok {
			symbols = append(symbols, e.Symbol)
		}
		bySymbol[e.Symbol] = append(bySymbol[e.Symbol], e)
	}
	return symbols, bySymbol
}

// ReconstructPositions splits one symbol's time-ordered executions into
// round trips. The first fill while flat opens a position and fixes its
// direction. The position closes when bought and sold quantities are equal;
// an over-fill keeps it open. Whatever remains open at the end is returned
// as a final open group.
func ReconstructPositions(executions []domain.Execution) []domain.GroupedPosition {
	var (
		positions    []domain.GroupedPosition
		buys, sells  []domain.Execution
		bought, sold int64
		open         bool
		first        domain.Execution
		tradeType    domain.TradeType
	)

	emit := func() {
		positions = append(positions, domain.GroupedPosition{
			Symbol:         first.Symbol,
			Buys:           buys,
			Sells:          sells,
			FirstExecution: first,
			TradeType:      tradeType,
		})
		buys, sells = nil, nil
		bought, sold = 0, 0
		open = false
	}

	for _, e := range executions {
		if e.Side == domain.SideBuy {
			buys = append(buys, e)
			bought += e.Quantity
		} else {
			sells = append(sells, e)
			sold += e.Quantity
		}

		if !open {
			open = true
			first = e
			tradeType = domain.TradeTypeFor(e.Side)
			continue
		}

		if bought == sold {
			emit()
		}
	}

	if open && len(buys)+len(sells) > 0 {
		emit()
	}
	return positions
}
