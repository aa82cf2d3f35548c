package models

import "time"

// Trade direction values.
const (
	TradeTypeBuy  = "buy"
	TradeTypeSell = "sell"
)

// Trade lifecycle states. A closed trade is immutable apart from the
// reconciliation write that closes it.
const (
	TradeStatusOpen   = "open"
	TradeStatusClosed = "closed"
)

// Trade is a source trade published on a signal account. Wire field
// names are snake_case to match the public API contract.
type Trade struct {
	ID              string     `json:"id"`
	SignalAccountID string     `json:"signal_account_id"`
	Symbol          string     `json:"symbol"`
	Type            string     `json:"type"` // "buy" or "sell"
	OpenPrice       float64    `json:"open_price"`
	CurrentPrice    *float64   `json:"current_price,omitempty"`
	StopLoss        *float64   `json:"stop_loss,omitempty"`
	TakeProfit      *float64   `json:"take_profit,omitempty"`
	LotSize         float64    `json:"lot_size"`
	Status          string     `json:"status"`
	Profit          *float64   `json:"profit,omitempty"`
	OpenTime        time.Time  `json:"open_time"`
	CloseTime       *time.Time `json:"close_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
