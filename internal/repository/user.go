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

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, full_name, avatar_url, role)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING *`,
		uuid.NewString(), u.Email, u.FullName, u.AvatarURL, u.Role,
	)
	return scanUser(row)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT * FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, copier.ErrNotFound)
	}
	return u, err
}

func scanUser(row scannable) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.FullName, &u.AvatarURL, &u.Role,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
