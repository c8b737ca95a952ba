package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/travelx/internal/account"
	"github.com/dukerupert/travelx/internal/auth"
)

type AuthHandler struct {
	accounts      *account.Service
	secureCookies bool
	logger        *slog.Logger
}

// NewAuthHandler builds the /auth handlers. secureCookies marks the session
// cookie Secure, which browsers only send over HTTPS.
func NewAuthHandler(accounts *account.Service, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, secureCookies: secureCookies, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, "login", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(h.accounts.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    sess.User,
	})
}

// Me returns the caller's profile. It runs behind middleware.RequireSession.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.accounts.User(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, "me", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type forgotPasswordResponse struct {
	Message   string `json:"message"`
	ResetLink string `json:"resetLink,omitempty"`
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.accounts.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, h.logger, "forgot password", err)
		return
	}
	writeJSON(w, http.StatusOK, forgotPasswordResponse{Message: res.Message, ResetLink: res.ResetLink})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.accounts.ResetPassword(r.Context(), req.Token, req.Password)
	if err != nil {
		writeError(w, r, h.logger, "reset password", err)
		return
	}
	writeMessage(w, http.StatusOK, msg)
}

// Logout clears the session cookie. Tokens are stateless, so a copied token
// stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	writeMessage(w, http.StatusOK, "Logged out successfully")
}
