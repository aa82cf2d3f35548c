package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mirrortrade/backend/internal/models"
)

type SignalAccountRepo struct {
	pool *pgxpool.Pool
}

func NewSignalAccountRepo(pool *pgxpool.Pool) *SignalAccountRepo {
	return &SignalAccountRepo{pool: pool}
}

func (r *SignalAccountRepo) Create(ctx context.Context, a *models.SignalAccount) (*models.SignalAccount, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO signal_accounts
		 (id, user_id, name, description, broker, account_number, monthly_fee, is_active)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING *`,
		uuid.NewString(), a.UserID, a.Name, a.Description, a.Broker,
		a.AccountNumber, a.MonthlyFee, true,
	)
	return scanSignalAccount(row)
}

func (r *SignalAccountRepo) ListByUser(ctx context.Context, userID string) ([]models.SignalAccount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM signal_accounts WHERE user_id = $1 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSignalAccounts(rows)
}

// ListActive returns the public marketplace listing.
func (r *SignalAccountRepo) ListActive(ctx context.Context) ([]models.SignalAccount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM signal_accounts WHERE is_active = TRUE ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSignalAccounts(rows)
}

// --- scan helpers ---

func scanSignalAccount(row scannable) (*models.SignalAccount, error) {
	var a models.SignalAccount
	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Description, &a.Broker,
		&a.AccountNumber, &a.MonthlyFee, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectSignalAccounts(rows rowsIter) ([]models.SignalAccount, error) {
	var out []models.SignalAccount
	for rows.Next() {
		var a models.SignalAccount
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Name, &a.Description, &a.Broker,
			&a.AccountNumber, &a.MonthlyFee, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
