package models

import "time"

// CopiedTrade is the per-subscriber replica of a source trade. Its lot
// size is the source lot size scaled by the subscription multiplier, and
// its profit is apportioned from the source profit by lot-size ratio at
// close time.
type CopiedTrade struct {
	ID             string     `json:"id"`
	TradeID        string     `json:"trade_id"`
	SubscriptionID string     `json:"subscription_id"`
	TradeAccountID string     `json:"trade_account_id"`
	LotSize        float64    `json:"lot_size"`
	Status         string     `json:"status"`
	Profit         *float64   `json:"profit,omitempty"`
	OpenTime       time.Time  `json:"open_time"`
	CloseTime      *time.Time `json:"close_time,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
