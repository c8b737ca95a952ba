package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dukerupert/travelx/internal/account"
	"github.com/dukerupert/travelx/internal/auth"
)

// Authenticator verifies a session token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

// RequireSession validates the session cookie and stores the caller's
// Identity in the request context. Failures are answered with 401 JSON.
func RequireSession(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
				token = cookie.Value
			}

			id, err := a.Authenticate(r.Context(), token)
			if err != nil {
				msg := account.Message(err)
				if msg == "" {
					msg = "Not authenticated"
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": msg})
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}
