package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mirrortrade/backend/internal/models"
)

type TradeAccountRepo struct {
	pool *pgxpool.Pool
}

func NewTradeAccountRepo(pool *pgxpool.Pool) *TradeAccountRepo {
	return &TradeAccountRepo{pool: pool}
}

func (r *TradeAccountRepo) Create(ctx context.Context, a *models.TradeAccount) (*models.TradeAccount, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO trade_accounts (id, user_id, name, broker, account_number, is_active)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING *`,
		uuid.NewString(), a.UserID, a.Name, a.Broker, a.AccountNumber, true,
	)
	return scanTradeAccount(row)
}

func (r *TradeAccountRepo) ListByUser(ctx context.Context, userID string) ([]models.TradeAccount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM trade_accounts WHERE user_id = $1 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TradeAccount
	for rows.Next() {
		var a models.TradeAccount
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Name, &a.Broker, &a.AccountNumber,
			&a.IsActive, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanTradeAccount(row scannable) (*models.TradeAccount, error) {
	var a models.TradeAccount
	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Broker, &a.AccountNumber,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
