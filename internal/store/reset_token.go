package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/travelx/internal/model"
)

type ResetTokenStore struct {
	db *sql.DB
}

func NewResetTokenStore(db *sql.DB) *ResetTokenStore {
	return &ResetTokenStore{db: db}
}

func scanResetToken(scanner interface{ Scan(...any) error }) (*model.ResetToken, error) {
	var t model.ResetToken
	err := scanner.Scan(&t.Token, &t.Email, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const resetTokenCols = `token, email, expires_at, created_at`

func (s *ResetTokenStore) Create(ctx context.Context, t *model.ResetToken) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reset_tokens (token, email, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		t.Token, t.Email, t.ExpiresAt.UTC(), t.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

// Get returns the token regardless of expiry, or nil if it does not exist.
func (s *ResetTokenStore) Get(ctx context.Context, token string) (*model.ResetToken, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+resetTokenCols+` FROM reset_tokens WHERE token = ?`, token)
	t, err := scanResetToken(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reset token: %w", err)
	}
	return t, nil
}

// Delete removes the token and reports whether it was still present.
func (s *ResetTokenStore) Delete(ctx context.Context, token string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reset_tokens WHERE token = ?`, token)
	if err != nil {
		return false, fmt.Errorf("delete reset token: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *ResetTokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reset_tokens WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired reset tokens: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
