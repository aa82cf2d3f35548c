package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/mirrortrade/backend/internal/models"
)

// Store is the ledger surface the aggregator reads from and writes to.
type Store interface {
	ActiveSignalAccountIDs(ctx context.Context) ([]string, error)
	TradesBySignalAccount(ctx context.Context, signalAccountID string) ([]models.Trade, error)
	// UpsertStats overwrites the snapshot keyed by (signal_account_id, period).
	UpsertStats(ctx context.Context, s *models.PerformanceStats) error
}

// Result reports the outcome of one account's aggregation.
type Result struct {
	SignalAccountID string `json:"signal_account_id"`
	StatsUpdated    bool   `json:"stats_updated"`
	Error           string `json:"error,omitempty"`
}

// Aggregator recomputes the all_time performance snapshot for every
// active signal account from its full trade history. Recomputation is
// wholesale and order-independent, so re-running with unchanged trades
// writes identical snapshots.
type Aggregator struct {
	store Store
}

func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// Run aggregates every active signal account. A failure on one account
// is recorded in its result entry and does not abort the batch; accounts
// with zero trades are skipped entirely (no snapshot written, no result
// entry).
func (a *Aggregator) Run(ctx context.Context) ([]Result, error) {
	ids, err := a.store.ActiveSignalAccountIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active signal accounts: %w", err)
	}

	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		updated, err := a.aggregateAccount(ctx, id)
		if err != nil {
			fmt.Printf("[STATS] Account %s aggregation failed: %v\n", id, err)
			results = append(results, Result{SignalAccountID: id, Error: err.Error()})
			continue
		}
		if !updated {
			continue
		}
		results = append(results, Result{SignalAccountID: id, StatsUpdated: true})
	}
	return results, nil
}

func (a *Aggregator) aggregateAccount(ctx context.Context, signalAccountID string) (bool, error) {
	trades, err := a.store.TradesBySignalAccount(ctx, signalAccountID)
	if err != nil {
		return false, fmt.Errorf("fetch trades: %w", err)
	}
	if len(trades) == 0 {
		return false, nil
	}

	snapshot := ComputeAllTime(signalAccountID, trades)
	if err := a.store.UpsertStats(ctx, snapshot); err != nil {
		return false, fmt.Errorf("upsert stats: %w", err)
	}
	return true, nil
}

// ComputeAllTime derives the all_time snapshot from a trade history.
// Open trades count toward total_trades; win/loss classification applies
// only to trades with a recorded profit. ReturnPercentage is the
// absolute profit sum (no investment baseline exists to divide by) and
// Drawdown stays 0 until equity-curve history is recorded.
func ComputeAllTime(signalAccountID string, trades []models.Trade) *models.PerformanceStats {
	total := len(trades)
	winning := 0
	losing := 0
	totalProfit := 0.0

	for _, t := range trades {
		if t.Profit == nil {
			continue
		}
		totalProfit += *t.Profit
		switch {
		case *t.Profit > 0:
			winning++
		case *t.Profit < 0:
			losing++
		}
	}

	winRate := 0.0
	if total > 0 {
		winRate = float64(winning) / float64(total) * 100
	}

	return &models.PerformanceStats{
		SignalAccountID:  signalAccountID,
		Period:           models.PeriodAllTime,
		ReturnPercentage: totalProfit,
		WinRate:          winRate,
		Drawdown:         0,
		TotalTrades:      total,
		WinningTrades:    winning,
		LosingTrades:     losing,
		CalculatedAt:     time.Now().UTC(),
	}
}
