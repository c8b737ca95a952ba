package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/dukerupert/travelx/internal/auth"
	"github.com/dukerupert/travelx/internal/metrics"
	"github.com/dukerupert/travelx/internal/model"
	"github.com/dukerupert/travelx/internal/store"
)

const (
	defaultSessionTTL = 7 * 24 * time.Hour
	defaultResetTTL   = 24 * time.Hour

	minPasswordLength = 6

	// ResetRequestedMessage is returned for every well-formed reset request
	// so responses do not reveal whether an account exists.
	ResetRequestedMessage = "If an account with that email exists, we've sent a reset link."
	ResetCompletedMessage = "Password reset successfully"

	resetPath = "/auth/reset-password?token="
)

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, digest string) (bool, error)
}

type ResetTokenStore interface {
	Create(ctx context.Context, t *model.ResetToken) error
	Get(ctx context.Context, token string) (*model.ResetToken, error)
	Delete(ctx context.Context, token string) (bool, error)
}

// Notifier delivers reset links out of band.
type Notifier interface {
	Configured() bool
	SendPasswordReset(toEmail, link string) error
}

// Service owns user credentials and password-reset tokens. One instance is
// built at startup and shared by all handlers.
type Service struct {
	users    UserStore
	tokens   ResetTokenStore
	encoder  auth.CredentialEncoder
	codec    auth.TokenCodec
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger

	baseURL         string
	exposeResetLink bool
	sessionTTL      time.Duration
	resetTTL        time.Duration

	now      func() time.Time
	newToken func() (string, error)
}

type Option func(*Service)

// WithEncoder overrides the default base64 credential encoder.
func WithEncoder(e auth.CredentialEncoder) Option {
	return func(s *Service) {
		if e != nil {
			s.encoder = e
		}
	}
}

// WithTokenCodec overrides the default base64 session token codec.
func WithTokenCodec(c auth.TokenCodec) Option {
	return func(s *Service) {
		if c != nil {
			s.codec = c
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBaseURL sets the origin used for absolute reset links in emails and logs.
func WithBaseURL(u string) Option {
	return func(s *Service) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithExposedResetLink puts the relative reset link in the forgot-password
// response body. Only meant for demos without email delivery.
func WithExposedResetLink(expose bool) Option {
	return func(s *Service) { s.exposeResetLink = expose }
}

// WithClock overrides the time source.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

func NewService(users UserStore, tokens ResetTokenStore, opts ...Option) *Service {
	s := &Service{
		users:      users,
		tokens:     tokens,
		encoder:    auth.Base64Encoder{},
		codec:      auth.Base64Codec{},
		logger:     slog.Default(),
		baseURL:    "http://localhost:3000",
		sessionTTL: defaultSessionTTL,
		resetTTL:   defaultResetTTL,
		now:        time.Now,
		newToken:   newResetToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionTTL is the lifetime of issued session tokens.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Register creates a user. The email must not be in use.
func (s *Service) Register(ctx context.Context, name, email, password string) (model.PublicUser, error) {
	if name == "" || email == "" || password == "" {
		s.metrics.AuthEvent("register", "invalid")
		return model.PublicUser{}, newError(ErrValidation, "All fields are required")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("register lookup: %w", err)
	}
	if existing != nil {
		s.metrics.AuthEvent("register", "conflict")
		return model.PublicUser{}, newError(ErrConflict, "User already exists with this email")
	}

	digest, err := s.encoder.Encode(password)
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("encode password: %w", err)
	}

	now := s.now()
	u := &model.User{
		ID:             newUserID(now),
		Name:           name,
		Email:          email,
		PasswordDigest: digest,
		CreatedAt:      now.UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			s.metrics.AuthEvent("register", "conflict")
			return model.PublicUser{}, newError(ErrConflict, "User already exists with this email")
		}
		return model.PublicUser{}, fmt.Errorf("create user: %w", err)
	}

	s.metrics.AuthEvent("register", "ok")
	s.logger.Info("user registered", "user_id", u.ID)
	return u.Public(true), nil
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      model.PublicUser
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords fail identically.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if email == "" || password == "" {
		s.metrics.AuthEvent("login", "invalid")
		return Session{}, newError(ErrValidation, "Email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return Session{}, fmt.Errorf("login lookup: %w", err)
	}
	if u == nil || !s.encoder.Matches(u.PasswordDigest, password) {
		s.metrics.AuthEvent("login", "denied")
		return Session{}, newError(ErrAuth, "Invalid credentials")
	}

	expiresAt := s.now().Add(s.sessionTTL)
	token, err := s.codec.Encode(auth.Claims{UserID: u.ID, Email: u.Email, ExpiresAt: expiresAt})
	if err != nil {
		return Session{}, fmt.Errorf("encode session token: %w", err)
	}

	s.metrics.AuthEvent("login", "ok")
	return Session{Token: token, ExpiresAt: expiresAt, User: u.Public(false)}, nil
}

// Authenticate decodes a session token without consulting the user store.
func (s *Service) Authenticate(_ context.Context, token string) (auth.Identity, error) {
	if token == "" {
		return auth.Identity{}, newError(ErrAuth, "Not authenticated")
	}
	claims, err := s.codec.Decode(token)
	if err != nil || claims.Expired(s.now()) {
		return auth.Identity{}, newError(ErrAuth, "Invalid token")
	}
	return auth.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// User resolves an authenticated identity to its current record.
func (s *Service) User(ctx context.Context, id auth.Identity) (model.PublicUser, error) {
	u, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return model.PublicUser{}, newError(ErrNotFound, "User not found")
	}
	return u.Public(false), nil
}

// CurrentUser is Authenticate followed by User.
func (s *Service) CurrentUser(ctx context.Context, token string) (model.PublicUser, error) {
	id, err := s.Authenticate(ctx, token)
	if err != nil {
		return model.PublicUser{}, err
	}
	return s.User(ctx, id)
}

// ResetRequest is the outcome of RequestPasswordReset. ResetLink is only set
// when the account exists and link exposure is enabled.
type ResetRequest struct {
	Message   string
	ResetLink string
}

// RequestPasswordReset issues a reset token when the email belongs to a user.
// The message is the same either way.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (ResetRequest, error) {
	if email == "" || !strings.Contains(email, "@") {
		s.metrics.AuthEvent("forgot_password", "invalid")
		return ResetRequest{}, newError(ErrValidation, "Invalid email address")
	}

	resp := ResetRequest{Message: ResetRequestedMessage}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return ResetRequest{}, fmt.Errorf("forgot password lookup: %w", err)
	}
	if u == nil {
		s.metrics.AuthEvent("forgot_password", "unknown")
		return resp, nil
	}

	token, err := s.newToken()
	if err != nil {
		return ResetRequest{}, err
	}
	now := s.now()
	if err := s.tokens.Create(ctx, &model.ResetToken{
		Token:     token,
		Email:     u.Email,
		ExpiresAt: now.Add(s.resetTTL),
		CreatedAt: now,
	}); err != nil {
		return ResetRequest{}, fmt.Errorf("store reset token: %w", err)
	}

	link := resetPath + token
	s.deliverResetLink(u.Email, s.baseURL+link)

	if s.exposeResetLink {
		resp.ResetLink = link
	}
	s.metrics.AuthEvent("forgot_password", "issued")
	return resp, nil
}

func (s *Service) deliverResetLink(email, link string) {
	if s.notifier != nil && s.notifier.Configured() {
		if err := s.notifier.SendPasswordReset(email, link); err != nil {
			s.logger.Error("send password reset", "error", err)
		}
		return
	}
	s.logger.Info("password reset link generated", "email", email, "link", link)
}

// ResetPassword consumes a reset token and replaces the user's password.
// Tokens are single use; expired tokens are deleted when detected.
func (s *Service) ResetPassword(ctx context.Context, token, password string) (string, error) {
	if token == "" || password == "" {
		s.metrics.AuthEvent("reset_password", "invalid")
		return "", newError(ErrValidation, "Missing token or password")
	}
	if passwordLength(password) < minPasswordLength {
		s.metrics.AuthEvent("reset_password", "invalid")
		return "", newError(ErrValidation, "Password must be at least 6 characters long")
	}

	rt, err := s.tokens.Get(ctx, token)
	if err != nil {
		return "", fmt.Errorf("get reset token: %w", err)
	}
	if rt == nil {
		s.metrics.AuthEvent("reset_password", "invalid_token")
		return "", newError(ErrInvalidToken, "Invalid or expired reset token")
	}

	if rt.Expired(s.now()) {
		if _, err := s.tokens.Delete(ctx, token); err != nil {
			return "", fmt.Errorf("delete expired reset token: %w", err)
		}
		s.metrics.AuthEvent("reset_password", "expired")
		return "", newError(ErrExpiredToken, "Reset token has expired")
	}

	u, err := s.users.GetByEmail(ctx, rt.Email)
	if err != nil {
		return "", fmt.Errorf("reset password lookup: %w", err)
	}
	if u == nil {
		s.metrics.AuthEvent("reset_password", "not_found")
		return "", newError(ErrNotFound, "User not found")
	}

	digest, err := s.encoder.Encode(password)
	if err != nil {
		return "", fmt.Errorf("encode password: %w", err)
	}

	// Claim the token before writing so two concurrent requests cannot both use it.
	claimed, err := s.tokens.Delete(ctx, token)
	if err != nil {
		return "", fmt.Errorf("consume reset token: %w", err)
	}
	if !claimed {
		s.metrics.AuthEvent("reset_password", "invalid_token")
		return "", newError(ErrInvalidToken, "Invalid or expired reset token")
	}

	updated, err := s.users.UpdatePassword(ctx, u.ID, digest)
	if err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}
	if !updated {
		s.metrics.AuthEvent("reset_password", "not_found")
		return "", newError(ErrNotFound, "User not found")
	}

	s.metrics.AuthEvent("reset_password", "ok")
	s.logger.Info("password reset", "user_id", u.ID)
	return ResetCompletedMessage, nil
}

// passwordLength counts UTF-16 code units so the minimum matches what
// browser-side validation reports.
func passwordLength(p string) int {
	return len(utf16.Encode([]rune(p)))
}
