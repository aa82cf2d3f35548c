package models

import "time"

// Subscription lifecycle states. Only "active" subscriptions receive
// copied trades unless trial copying is explicitly enabled.
const (
	SubscriptionStatusTrial     = "trial"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

// Subscription links one subscriber to one signal account. At most one
// subscription exists per (subscriber, signal account) pair.
type Subscription struct {
	ID                 string     `json:"id"`
	SubscriberID       string     `json:"subscriber_id"`
	SignalAccountID    string     `json:"signal_account_id"`
	Status             string     `json:"status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	// LotSizeMultiplier scales copied lot sizes; nil means 1.0.
	LotSizeMultiplier *float64 `json:"lot_size_multiplier,omitempty"`
	// ReverseCopy and OnlySLTPTrades are copy preferences captured at
	// subscription time. They are persisted and returned to clients but
	// the fan-out engine does not act on them yet.
	ReverseCopy    bool      `json:"reverse_copy"`
	OnlySLTPTrades bool      `json:"only_sl_tp_trades"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Multiplier returns the effective lot-size multiplier.
func (s *Subscription) Multiplier() float64 {
	if s.LotSizeMultiplier == nil || *s.LotSizeMultiplier <= 0 {
		return 1.0
	}
	return *s.LotSizeMultiplier
}

// SubscriptionTradeAccount joins a subscription to one of the
// subscriber's trade accounts. Each link is independently activatable.
type SubscriptionTradeAccount struct {
	ID             string    `json:"id"`
	SubscriptionID string    `json:"subscription_id"`
	TradeAccountID string    `json:"trade_account_id"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SubscriptionLink is one fan-out target: an eligible subscription
// paired with one of its active trade accounts.
type SubscriptionLink struct {
	SubscriptionID    string   `json:"subscription_id"`
	TradeAccountID    string   `json:"trade_account_id"`
	LotSizeMultiplier *float64 `json:"lot_size_multiplier,omitempty"`
}

// Multiplier returns the effective lot-size multiplier for the link.
func (l *SubscriptionLink) Multiplier() float64 {
	if l.LotSizeMultiplier == nil || *l.LotSizeMultiplier <= 0 {
		return 1.0
	}
	return *l.LotSizeMultiplier
}
