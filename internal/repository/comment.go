package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mirrortrade/backend/internal/models"
)

type CommentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) *CommentRepo {
	return &CommentRepo{pool: pool}
}

func (r *CommentRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO comments (id, user_id, signal_account_id, content)
		 VALUES ($1,$2,$3,$4)
		 RETURNING *`,
		uuid.NewString(), c.UserID, c.SignalAccountID, c.Content,
	)
	var out models.Comment
	err := row.Scan(&out.ID, &out.UserID, &out.SignalAccountID, &out.Content, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CommentRepo) ListBySignalAccount(ctx context.Context, signalAccountID string, limit int) ([]models.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT * FROM comments WHERE signal_account_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		signalAccountID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.SignalAccountID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
