package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"heybuddy/internal/domain/user"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewUserRepository(pool *pgxpool.Pool, log *slog.Logger) *UserRepository {
	return &UserRepository{
		pool: pool,
		log:  log,
	}
}

func (r *UserRepository) Create(ctx context.Context, login, passwordHash string) (int64, error) {
	var userID int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (login, password_hash) VALUES ($1, $2) RETURNING id`,
		login, passwordHash).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, user.ErrLoginTaken
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return userID, nil
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (user.User, error) {
	var u user.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, login, password_hash, created_at FROM users WHERE login = $1`, login).
		Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return u, user.ErrNotFound
		}
		return u, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}
