package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mirrortrade/backend/internal/copier"
	"github.com/mirrortrade/backend/internal/models"
)

type SubscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepo(pool *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{pool: pool}
}

// Create inserts a subscription and its trade-account links in one
// transaction. The (subscriber, signal account) uniqueness constraint
// rejects a second subscription for the same pair.
func (r *SubscriptionRepo) Create(ctx context.Context, s *models.Subscription, tradeAccountIDs []string) (*models.Subscription, error) {
	status := s.Status
	if status == "" {
		status = models.SubscriptionStatusTrial
	}

	var created *models.Subscription
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO subscriptions
			 (id, subscriber_id, signal_account_id, status, trial_ends_at,
			  subscription_ends_at, lot_size_multiplier, reverse_copy, only_sl_tp_trades)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			 RETURNING *`,
			uuid.NewString(), s.SubscriberID, s.SignalAccountID, status,
			s.TrialEndsAt, s.SubscriptionEndsAt, s.LotSizeMultiplier,
			s.ReverseCopy, s.OnlySLTPTrades,
		)
		sub, err := scanSubscription(row)
		if err != nil {
			return err
		}

		for _, taID := range tradeAccountIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO subscription_trade_accounts
				 (id, subscription_id, trade_account_id, is_active)
				 VALUES ($1,$2,$3,TRUE)`,
				uuid.NewString(), sub.ID, taID,
			); err != nil {
				return fmt.Errorf("link trade account %s: %w", taID, err)
			}
		}

		created = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *SubscriptionRepo) ListBySubscriber(ctx context.Context, subscriberID string) ([]models.Subscription, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM subscriptions WHERE subscriber_id = $1 ORDER BY created_at ASC`,
		subscriberID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Subscription
	for rows.Next() {
		var s models.Subscription
		if err := rows.Scan(
			&s.ID, &s.SubscriberID, &s.SignalAccountID, &s.Status, &s.TrialEndsAt,
			&s.SubscriptionEndsAt, &s.LotSizeMultiplier, &s.ReverseCopy,
			&s.OnlySLTPTrades, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SubscriptionRepo) UpdateStatus(ctx context.Context, id, status string) (*models.Subscription, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE subscriptions SET status = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING *`,
		id, status,
	)
	s, err := scanSubscription(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("subscription %s: %w", id, copier.ErrNotFound)
	}
	return s, err
}

// Links returns the trade-account joins for a subscription.
func (r *SubscriptionRepo) Links(ctx context.Context, subscriptionID string) ([]models.SubscriptionTradeAccount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM subscription_trade_accounts
		 WHERE subscription_id = $1 ORDER BY created_at ASC`,
		subscriptionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SubscriptionTradeAccount
	for rows.Next() {
		var l models.SubscriptionTradeAccount
		if err := rows.Scan(
			&l.ID, &l.SubscriptionID, &l.TradeAccountID, &l.IsActive,
			&l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SetLinkActive toggles a single trade-account link.
func (r *SubscriptionRepo) SetLinkActive(ctx context.Context, linkID string, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subscription_trade_accounts SET is_active = $2, updated_at = NOW()
		 WHERE id = $1`,
		linkID, active,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subscription link %s: %w", linkID, copier.ErrNotFound)
	}
	return nil
}

func scanSubscription(row scannable) (*models.Subscription, error) {
	var s models.Subscription
	err := row.Scan(
		&s.ID, &s.SubscriberID, &s.SignalAccountID, &s.Status, &s.TrialEndsAt,
		&s.SubscriptionEndsAt, &s.LotSizeMultiplier, &s.ReverseCopy,
		&s.OnlySLTPTrades, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
