package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dukerupert/travelx/internal/model"
)

// ErrEmailTaken is returned by Create when another user already has the email.
var ErrEmailTaken = errors.New("email already registered")

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordDigest, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `id, name, email, password_digest, created_at`

func (s *UserStore) Create(ctx context.Context, u *model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_digest, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordDigest, u.CreatedAt.UTC(),
	)
	if err != nil {
		if isEmailViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// UpdatePassword replaces the stored digest. It reports false when no user has the id.
func (s *UserStore) UpdatePassword(ctx context.Context, id, digest string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_digest = ? WHERE id = ?`,
		digest, id,
	)
	if err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// isEmailViolation matches sqlite's unique constraint message for the email
// column. A primary key clash on users.id is reported as a plain error.
func isEmailViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed: users.email")
}
