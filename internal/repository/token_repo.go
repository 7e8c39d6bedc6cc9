package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"go-web-gallery/internal/database"
	"go-web-gallery/internal/model"
)

type TokenRepository struct {
	db *database.DB
}

func NewTokenRepository(db *database.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Replace removes any existing refresh tokens for username and inserts the
// new one in a single transaction. Two concurrent logins therefore settle on
// exactly one surviving token instead of racing delete against insert.
func (r *TokenRepository) Replace(ctx context.Context, username string, tokenValue string, expiresAt time.Time) error {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin refresh token replace: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE username = $1`, username); err != nil {
		return fmt.Errorf("delete old refresh tokens: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO refresh_tokens (token, username, expires_at) VALUES ($1, $2, $3)`,
		tokenValue, username, expiresAt); err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit refresh token replace: %w", err)
	}
	return nil
}

func (r *TokenRepository) Lookup(ctx context.Context, tokenValue string) (model.RefreshToken, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return model.RefreshToken{}, err
	}
	defer conn.Release()

	var rt model.RefreshToken
	err = conn.QueryRow(ctx,
		`SELECT token, username, expires_at FROM refresh_tokens WHERE token = $1`, tokenValue).
		Scan(&rt.Token, &rt.Username, &rt.ExpiresAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.RefreshToken{}, model.ErrTokenNotFound
	}
	if err != nil {
		return model.RefreshToken{}, fmt.Errorf("lookup refresh token: %w", err)
	}
	return rt, nil
}

// Delete is idempotent: removing an unknown token is a no-op success.
func (r *TokenRepository) Delete(ctx context.Context, tokenValue string) error {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, tokenValue); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (r *TokenRepository) DeleteForUser(ctx context.Context, username string) error {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `DELETE FROM refresh_tokens WHERE username = $1`, username); err != nil {
		return fmt.Errorf("delete refresh tokens for user: %w", err)
	}
	return nil
}
