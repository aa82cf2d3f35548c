package copier

import (
	"context"
	"fmt"
	"time"

	"github.com/mirrortrade/backend/internal/models"
)

// CloseTrade closes a source trade with the caller-supplied close price
// and realized profit, then closes every copied trade derived from it
// with profit apportioned by lot-size ratio:
//
//	copied.profit = profit * (copied.lot_size / source.lot_size)
//
// The source profit figure is trusted as given, not recomputed from the
// close price. All updates run in one transaction.
func (e *Engine) CloseTrade(ctx context.Context, tradeID string, closePrice, profit float64) (*models.Trade, []models.CopiedTrade, error) {
	if tradeID == "" {
		return nil, nil, fmt.Errorf("%w: trade id is required", ErrInvalidInput)
	}
	if closePrice <= 0 {
		return nil, nil, fmt.Errorf("%w: close price must be positive, got %v", ErrInvalidInput, closePrice)
	}

	var (
		trade  *models.Trade
		closed []models.CopiedTrade
	)
	err := e.store.InTx(ctx, func(l Ledger) error {
		t, err := l.TradeForUpdate(ctx, tradeID)
		if err != nil {
			return fmt.Errorf("fetch trade %s: %w", tradeID, err)
		}

		// Guard the lot-size ratio below: a zero divisor would poison
		// every copied trade with NaN or Inf profit.
		if t.LotSize == 0 {
			return fmt.Errorf("%w: trade %s has zero lot size", ErrInvalidInput, tradeID)
		}

		closedAt := time.Now().UTC()

		updated, err := l.CloseTrade(ctx, t.ID, closePrice, profit, closedAt)
		if err != nil {
			return fmt.Errorf("close trade %s: %w", tradeID, err)
		}

		copies, err := l.CopiedTradesByTrade(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("fetch copied trades for %s: %w", tradeID, err)
		}

		for _, c := range copies {
			copiedProfit := profit * (c.LotSize / updated.LotSize)
			cc, err := l.CloseCopiedTrade(ctx, c.ID, copiedProfit, closedAt)
			if err != nil {
				return fmt.Errorf("close copied trade %s: %w", c.ID, err)
			}
			closed = append(closed, *cc)
		}

		trade = updated
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return trade, closed, nil
}
