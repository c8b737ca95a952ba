package model

import "time"

// ResetToken authorizes a single password reset for the account with Email.
type ResetToken struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the token can no longer be used at now.
func (t *ResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
