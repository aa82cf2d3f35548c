package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mirrortrade/backend/internal/models"
)

type CopiedTradeRepo struct {
	pool *pgxpool.Pool
}

func NewCopiedTradeRepo(pool *pgxpool.Pool) *CopiedTradeRepo {
	return &CopiedTradeRepo{pool: pool}
}

func (r *CopiedTradeRepo) ListBySubscription(ctx context.Context, subscriptionID string, limit int) ([]models.CopiedTrade, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM copied_trades WHERE subscription_id = $1
		 ORDER BY open_time DESC LIMIT $2`,
		subscriptionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCopiedTrades(rows)
}

func (r *CopiedTradeRepo) ListByTradeAccount(ctx context.Context, tradeAccountID string, limit int) ([]models.CopiedTrade, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM copied_trades WHERE trade_account_id = $1
		 ORDER BY open_time DESC LIMIT $2`,
		tradeAccountID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCopiedTrades(rows)
}

// --- scan helpers ---

func scanCopiedTrade(row scannable) (*models.CopiedTrade, error) {
	var c models.CopiedTrade
	err := row.Scan(
		&c.ID, &c.TradeID, &c.SubscriptionID, &c.TradeAccountID, &c.LotSize,
		&c.Status, &c.Profit, &c.OpenTime, &c.CloseTime, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCopiedTrades(rows rowsIter) ([]models.CopiedTrade, error) {
	var out []models.CopiedTrade
	for rows.Next() {
		var c models.CopiedTrade
		if err := rows.Scan(
			&c.ID, &c.TradeID, &c.SubscriptionID, &c.TradeAccountID, &c.LotSize,
			&c.Status, &c.Profit, &c.OpenTime, &c.CloseTime, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
