package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/travelx/internal/account"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// statusFor maps an account error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, account.ErrValidation),
		errors.Is(err, account.ErrConflict),
		errors.Is(err, account.ErrInvalidToken),
		errors.Is(err, account.ErrExpiredToken):
		return http.StatusBadRequest
	case errors.Is(err, account.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, account.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the error's client message. Unexpected errors are
// logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string, err error) {
	status := statusFor(err)
	msg := account.Message(err)
	if status == http.StatusInternalServerError || msg == "" {
		logger.ErrorContext(r.Context(), op, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeMessage(w, status, msg)
}
