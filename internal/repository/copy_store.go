package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mirrortrade/backend/internal/copier"
	"github.com/mirrortrade/backend/internal/models"
)

// CopyStore adapts the pgx pool to the copier engine's transactional
// ledger contract. Every fan-out or reconciliation run executes inside a
// single transaction, so a mid-loop failure leaves no partial writes.
type CopyStore struct {
	pool *pgxpool.Pool
}

func NewCopyStore(pool *pgxpool.Pool) *CopyStore {
	return &CopyStore{pool: pool}
}

func (s *CopyStore) InTx(ctx context.Context, fn func(copier.Ledger) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&txLedger{tx: tx})
	})
}

// txLedger is the transaction-scoped ledger handed to the engine.
type txLedger struct {
	tx pgx.Tx
}

// TradeForUpdate row-locks the source trade, serializing concurrent
// fan-out and reconciliation for the same trade id.
func (l *txLedger) TradeForUpdate(ctx context.Context, id string) (*models.Trade, error) {
	row := l.tx.QueryRow(ctx, `SELECT * FROM trades WHERE id = $1 FOR UPDATE`, id)
	t, err := scanTrade(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("trade %s: %w", id, copier.ErrNotFound)
	}
	return t, err
}

func (l *txLedger) ActiveSubscriptionLinks(ctx context.Context, signalAccountID string, statuses []string) ([]models.SubscriptionLink, error) {
	rows, err := l.tx.Query(ctx,
		`SELECT s.id, sta.trade_account_id, s.lot_size_multiplier
		 FROM subscriptions s
		 JOIN subscription_trade_accounts sta ON sta.subscription_id = s.id
		 WHERE s.signal_account_id = $1
		   AND s.status = ANY($2)
		   AND sta.is_active = TRUE
		 ORDER BY s.created_at ASC, sta.created_at ASC`,
		signalAccountID, statuses,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SubscriptionLink
	for rows.Next() {
		var link models.SubscriptionLink
		if err := rows.Scan(&link.SubscriptionID, &link.TradeAccountID, &link.LotSizeMultiplier); err != nil {
			return nil, err
		}
		out = append(out, link)
	}
	return out, rows.Err()
}

// InsertCopiedTrade relies on the (trade_id, subscription_id,
// trade_account_id) uniqueness constraint: a conflicting insert is a
// no-op and reports inserted=false, which is what makes fan-out retries
// safe.
func (l *txLedger) InsertCopiedTrade(ctx context.Context, c *models.CopiedTrade) (*models.CopiedTrade, bool, error) {
	row := l.tx.QueryRow(ctx,
		`INSERT INTO copied_trades
		 (id, trade_id, subscription_id, trade_account_id, lot_size, status, profit, open_time)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (trade_id, subscription_id, trade_account_id) DO NOTHING
		 RETURNING *`,
		uuid.NewString(), c.TradeID, c.SubscriptionID, c.TradeAccountID,
		c.LotSize, c.Status, c.Profit, c.OpenTime,
	)
	created, err := scanCopiedTrade(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (l *txLedger) CloseTrade(ctx context.Context, id string, closePrice, profit float64, closedAt time.Time) (*models.Trade, error) {
	row := l.tx.QueryRow(ctx,
		`UPDATE trades
		 SET status = $2, current_price = $3, profit = $4, close_time = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING *`,
		id, models.TradeStatusClosed, closePrice, profit, closedAt,
	)
	t, err := scanTrade(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("trade %s: %w", id, copier.ErrNotFound)
	}
	return t, err
}

func (l *txLedger) CopiedTradesByTrade(ctx context.Context, tradeID string) ([]models.CopiedTrade, error) {
	rows, err := l.tx.Query(ctx,
		`SELECT * FROM copied_trades WHERE trade_id = $1 ORDER BY created_at ASC`,
		tradeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCopiedTrades(rows)
}

func (l *txLedger) CloseCopiedTrade(ctx context.Context, id string, profit float64, closedAt time.Time) (*models.CopiedTrade, error) {
	row := l.tx.QueryRow(ctx,
		`UPDATE copied_trades
		 SET status = $2, profit = $3, close_time = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING *`,
		id, models.TradeStatusClosed, profit, closedAt,
	)
	c, err := scanCopiedTrade(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("copied trade %s: %w", id, copier.ErrNotFound)
	}
	return c, err
}
