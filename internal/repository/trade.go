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

type TradeRepo struct {
	pool *pgxpool.Pool
}

func NewTradeRepo(pool *pgxpool.Pool) *TradeRepo {
	return &TradeRepo{pool: pool}
}

func (r *TradeRepo) Create(ctx context.Context, t *models.Trade) (*models.Trade, error) {
	openTime := t.OpenTime
	if openTime.IsZero() {
		openTime = time.Now().UTC()
	}
	status := t.Status
	if status == "" {
		status = models.TradeStatusOpen
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO trades
		 (id, signal_account_id, symbol, type, open_price, current_price,
		  stop_loss, take_profit, lot_size, status, profit, open_time)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 RETURNING *`,
		uuid.NewString(), t.SignalAccountID, t.Symbol, t.Type, t.OpenPrice, t.CurrentPrice,
		t.StopLoss, t.TakeProfit, t.LotSize, status, t.Profit, openTime,
	)
	return scanTrade(row)
}

func (r *TradeRepo) GetByID(ctx context.Context, id string) (*models.Trade, error) {
	row := r.pool.QueryRow(ctx, `SELECT * FROM trades WHERE id = $1`, id)
	t, err := scanTrade(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("trade %s: %w", id, copier.ErrNotFound)
	}
	return t, err
}

func (r *TradeRepo) ListBySignalAccount(ctx context.Context, signalAccountID string, limit int) ([]models.Trade, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM trades WHERE signal_account_id = $1
		 ORDER BY open_time DESC LIMIT $2`,
		signalAccountID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrades(rows)
}

// --- scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTrade(row scannable) (*models.Trade, error) {
	var t models.Trade
	err := row.Scan(
		&t.ID, &t.SignalAccountID, &t.Symbol, &t.Type, &t.OpenPrice, &t.CurrentPrice,
		&t.StopLoss, &t.TakeProfit, &t.LotSize, &t.Status, &t.Profit,
		&t.OpenTime, &t.CloseTime, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTrades(rows rowsIter) ([]models.Trade, error) {
	var out []models.Trade
	for rows.Next() {
		var t models.Trade
		if err := rows.Scan(
			&t.ID, &t.SignalAccountID, &t.Symbol, &t.Type, &t.OpenPrice, &t.CurrentPrice,
			&t.StopLoss, &t.TakeProfit, &t.LotSize, &t.Status, &t.Profit,
			&t.OpenTime, &t.CloseTime, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
