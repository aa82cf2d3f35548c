package models

import "time"

// Aggregation periods for performance snapshots. The aggregator
// currently recomputes all_time only.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
	PeriodAllTime = "all_time"
)

// PerformanceStats is a wholesale-recomputed snapshot of a signal
// account's trade history, upserted by (signal_account_id, period).
//
// ReturnPercentage is the absolute profit sum, not a true percentage:
// the data model carries no initial-investment baseline to divide by.
// Drawdown is always 0 until equity-curve history exists.
type PerformanceStats struct {
	ID               string    `json:"id"`
	SignalAccountID  string    `json:"signal_account_id"`
	Period           string    `json:"period"`
	ReturnPercentage float64   `json:"return_percentage"`
	WinRate          float64   `json:"win_rate"`
	Drawdown         float64   `json:"drawdown"`
	TotalTrades      int       `json:"total_trades"`
	WinningTrades    int       `json:"winning_trades"`
	LosingTrades     int       `json:"losing_trades"`
	CalculatedAt     time.Time `json:"calculated_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
