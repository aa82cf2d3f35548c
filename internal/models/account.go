package models

import "time"

// SignalAccount is a provider's published trading account that
// subscribers can copy from.
type SignalAccount struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description,omitempty"`
	Broker        *string   `json:"broker,omitempty"`
	AccountNumber *string   `json:"account_number,omitempty"`
	MonthlyFee    *float64  `json:"monthly_fee,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TradeAccount is a subscriber's own brokerage account that receives
// copied trades.
type TradeAccount struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Broker        *string   `json:"broker,omitempty"`
	AccountNumber *string   `json:"account_number,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
