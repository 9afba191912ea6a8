package dataprocessing

import (
	"github.com/shopspring/decimal"

	"github.com/gwilson152/TradePulse-new/pkg/contracts/domain"
)

// Builder converts positions and single executions into trades.
type Builder struct {
	ids IDGenerator
}

// NewBuilder returns a builder drawing ids from gen, or random UUIDs when gen is nil.
func NewBuilder(gen IDGenerator) *Builder {
	if gen == nil {
		gen = UUIDGenerator{}
	}
	return &Builder{ids: gen}
}

type legTotals struct {
	qty   decimal.Decimal
	value decimal.Decimal
	fees  decimal.Decimal
}

func totals(execs []domain.Execution) legTotals {
	t := legTotals{qty: decimal.Zero, value: decimal.Zero, fees: decimal.Zero}
	for _, e := range execs {
		q := decimal.NewFromInt(e.Quantity)
		t.qty = t.qty.Add(q)
		t.value = t.value.Add(decimal.NewFromFloat(e.Price).Mul(q))
		t.fees = t.fees.Add(decimal.NewFromFloat(e.Fees))
	}
	return t
}

// FromPosition builds a trade from a reconstructed round trip. Entries are the
// fills on the position's opening side and exits the fills on the other side.
func (b *Builder) FromPosition(p domain.GroupedPosition) domain.Trade {
	entrySide := p.TradeType.EntrySide()
	entryExecs, exitExecs := p.Fills(entrySide), p.Fills(entrySide.Opposite())
	sign := decimal.NewFromInt(1)
	if entrySide == domain.SideSell {
		sign = sign.Neg()
	}

	entry := totals(entryExecs)
	exit := totals(exitExecs)
	totalFees := entry.fees.Add(exit.fees)

	// entryCost returns the average entry cost of qty shares.
	entryCost := func(qty decimal.Decimal) decimal.Decimal {
		if entry.qty.IsZero() {
			return decimal.Zero
		}
		return entry.value.Mul(qty).Div(entry.qty)
	}

	entryAvg := decimal.Zero
	if !entry.qty.IsZero() {
		entryAvg = entry.value.Div(entry.qty)
	}

	trade := domain.Trade{
		Symbol:            p.Symbol,
		TradeType:         p.TradeType,
		Quantity:          entry.qty.IntPart(),
		EntryPrice:        entryAvg.InexactFloat64(),
		Fees:              totalFees.InexactFloat64(),
		AverageEntryPrice: entryAvg.InexactFloat64(),
		TotalFees:         totalFees.InexactFloat64(),
		Account:           p.FirstExecution.Account,
		SourceRow:         p.FirstExecution.Row,
		Entries:           make([]domain.Entry, 0, len(entryExecs)),
		Exits:             make([]domain.Exit, 0, len(exitExecs)),
	}

	for _, e := range entryExecs {
		trade.Entries = append(trade.Entries, domain.Entry{
			ID:        b.ids.NewID(),
			Price:     e.Price,
			Quantity:  e.Quantity,
			Timestamp: e.Timestamp,
			Fees:      e.Fees,
		})
	}

	if exit.qty.IsPositive() {
		exitAvg := exit.value.Div(exit.qty).InexactFloat64()
		trade.ExitPrice = &exitAvg

		pnl := sign.Mul(exit.value.Sub(entryCost(exit.qty))).Sub(totalFees)
		pnlValue := pnl.InexactFloat64()
		trade.PnL = &pnlValue
		trade.RealizedPnL = pnlValue
	}

	for _, e := range exitExecs {
		q := decimal.NewFromInt(e.Quantity)
		gross := sign.Mul(decimal.NewFromFloat(e.Price).Mul(q).Sub(entryCost(q)))
		share := entry.fees.Mul(q).Div(exit.qty)
		trade.Exits = append(trade.Exits, domain.Exit{
			ID:        b.ids.NewID(),
			Price:     e.Price,
			Quantity:  e.Quantity,
			Timestamp: e.Timestamp,
			Fees:      e.Fees,
			PnL:       gross.Sub(decimal.NewFromFloat(e.Fees)).Sub(share).InexactFloat64(),
		})
	}

	if len(entryExecs) > 0 {
		trade.OpenedAt = entryExecs[0].Timestamp
	} else {
		trade.OpenedAt = p.FirstExecution.Timestamp
	}

	if remaining := entry.qty.Sub(exit.qty); remaining.IsPositive() {
		trade.CurrentPositionSize = remaining.IntPart()
	}
	if exit.qty.Equal(entry.qty) && len(exitExecs) > 0 {
		closedAt := exitExecs[len(exitExecs)-1].Timestamp
		trade.ClosedAt = &closedAt
	}

	return trade
}

// FromExecution builds an open trade from one row of a platform that exports
// positions rather than fills.
func (b *Builder) FromExecution(e domain.Execution) domain.Trade {
	return domain.Trade{
		Symbol:              e.Symbol,
		TradeType:           domain.TradeTypeFor(e.Side),
		Quantity:            e.Quantity,
		EntryPrice:          e.Price,
		Fees:                e.Fees,
		AverageEntryPrice:   e.Price,
		TotalFees:           e.Fees,
		CurrentPositionSize: e.Quantity,
		OpenedAt:            e.Timestamp,
		Account:             e.Account,
		SourceRow:           e.Row,
		Entries: []domain.Entry{{
			ID:        b.ids.NewID(),
			Price:     e.Price,
			Quantity:  e.Quantity,
			Timestamp: e.Timestamp,
			Fees:      e.Fees,
		}},
		Exits: []domain.Exit{},
	}
}
