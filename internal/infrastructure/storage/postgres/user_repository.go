package postgres

import (
	"context"
	"errors"
	"fmt"

	"clubmembers/internal/domain/user"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"
)

func NewUserRepository(pool *pgxpool.Pool, log *slog.Logger) *UserRepository {
	return &UserRepository{
		pool: pool,
		log:  log.With("component", "user_repository"),
	}
}

type UserRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (uid, email, password_hash, created_at) VALUES ($1::uuid, $2, $3, NOW())`,
		u.UID, u.Email, u.Password)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrExists
		}
		r.log.Error("failed to create user", "email", u.Email, "error", err)
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := r.pool.QueryRow(ctx,
		`SELECT uid::text, email, password_hash, created_at FROM users WHERE email = $1`, email).
		Scan(&u.UID, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, fmt.Errorf("find user: %w", err)
	}

	return u, nil
}
