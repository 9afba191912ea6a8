package domain

import (
	"time"
)

// Side is the normalized side of a single fill
type Side string

const (
	SideBuy  Side = "B"
	SideSell Side = "S"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// TradeType is the direction of a round trip
type TradeType string

const (
	TradeTypeLong  TradeType = "LONG"
	TradeTypeShort TradeType = "SHORT"
)

// EntrySide returns the side that opens a position of this type.
func (t TradeType) EntrySide() Side {
	if t == TradeTypeShort {
		return SideSell
	}
	return SideBuy
}

// TradeTypeFor returns the trade type opened by a fill on side s.
func TradeTypeFor(s Side) TradeType {
	if s == SideBuy {
		return TradeTypeLong
	}
	return TradeTypeShort
}

// Execution is one normalized buy or sell fill extracted from an export row
type Execution struct {
	Symbol    string    `json:"symbol" validate:"required"`
	Side      Side      `json:"side" validate:"required,oneof=B S"`
	Price     float64   `json:"price"`
	Quantity  int64     `json:"quantity" validate:"required,min=1"`
	Timestamp time.Time `json:"timestamp"`
	Fees      float64   `json:"fees" validate:"min=0"`
	Account   string    `json:"account,omitempty"`
	OrderType string    `json:"order_type,omitempty"`
	// Row is the 1-based source line the fill came from.
	Row     int `json:"row"`
	RawData Row `json:"raw_data"`
}

// GroupedPosition is one round trip for a single symbol
type GroupedPosition struct {
	Symbol         string      `json:"symbol"`
	Buys           []Execution `json:"buys"`
	Sells          []Execution `json:"sells"`
	FirstExecution Execution   `json:"first_execution"`
	TradeType      TradeType   `json:"trade_type"`
}

// Fills returns the position's fills on side s.
func (p GroupedPosition) Fills(s Side) []Execution {
	if s == SideSell {
		return p.Sells
	}
	return p.Buys
}

// BoughtQuantity sums the buy fills.
func (p GroupedPosition) BoughtQuantity() int64 {
	return sumQuantity(p.Buys)
}

// SoldQuantity sums the sell fills.
func (p GroupedPosition) SoldQuantity() int64 {
	return sumQuantity(p.Sells)
}

// IsFlat reports whether bought and sold quantities match.
func (p GroupedPosition) IsFlat() bool {
	return p.BoughtQuantity() == p.SoldQuantity()
}

func sumQuantity(execs []Execution) int64 {
	var total int64
	for _, e := range execs {
		total += e.Quantity
	}
	return total
}

// Entry is a fill that opened or added to a position
type Entry struct {
	ID        string    `json:"id"`
	Price     float64   `json:"price"`
	Quantity  int64     `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
	Fees      float64   `json:"fees"`
}

// Exit is a fill that reduced or closed a position
type Exit struct {
	ID        string    `json:"id"`
	Price     float64   `json:"price"`
	Quantity  int64     `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
	Fees      float64   `json:"fees"`
	PnL       float64   `json:"pnl"`
}

// Trade is the canonical partial trade handed to the persistence layer.
// Identifiers and ownership are assigned downstream.
type Trade struct {
	Symbol    string    `json:"symbol" validate:"required"`
	TradeType TradeType `json:"trade_type" validate:"required,oneof=LONG SHORT"`
	// Legacy flat fields
	Quantity   int64    `json:"quantity" validate:"min=1"`
	EntryPrice float64  `json:"entry_price"`
	ExitPrice  *float64 `json:"exit_price"`
	Fees       float64  `json:"fees"`
	PnL        *float64 `json:"pnl"`
	// Position lifecycle fields
	Entries             []Entry    `json:"entries"`
	Exits               []Exit     `json:"exits"`
	CurrentPositionSize int64      `json:"current_position_size"`
	AverageEntryPrice   float64    `json:"average_entry_price"`
	TotalFees           float64    `json:"total_fees"`
	RealizedPnL         float64    `json:"realized_pnl"`
	UnrealizedPnL       *float64   `json:"unrealized_pnl"`
	OpenedAt            time.Time  `json:"opened_at"`
	ClosedAt            *time.Time `json:"closed_at"`
	Account             string     `json:"account,omitempty"`
	SourceRow           int        `json:"source_row,omitempty"`
}

// IsClosed reports whether the trade has been fully exited.
func (t Trade) IsClosed() bool {
	return t.ClosedAt != nil
}
