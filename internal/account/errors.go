package account

import "errors"

// Error kinds. Every failure returned by Service wraps one of these, except
// unexpected store or encoding failures which callers treat as internal.
var (
	ErrValidation   = errors.New("account: validation failed")
	ErrConflict     = errors.New("account: conflict")
	ErrAuth         = errors.New("account: not authenticated")
	ErrInvalidToken = errors.New("account: invalid reset token")
	ErrExpiredToken = errors.New("account: expired reset token")
	ErrNotFound     = errors.New("account: not found")
)

// Error carries a client-safe message alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Message returns the client-safe message of err, or "" if err did not come
// from this package.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
