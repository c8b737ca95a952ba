package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/travelx/internal/account"
	"github.com/dukerupert/travelx/internal/catalog"
	"github.com/dukerupert/travelx/internal/handler"
	"github.com/dukerupert/travelx/internal/metrics"
	"github.com/dukerupert/travelx/internal/middleware"
)

// Auth POSTs allowed per client IP per minute.
const authRateLimit = 10

// Config is the HTTP-facing part of the process configuration.
type Config struct {
	// SecureCookies marks the session cookie Secure. Set in production.
	SecureCookies bool
	// CatalogDelay is added to every catalog response.
	CatalogDelay time.Duration
	// TrustProxy keys rate limits on forwarding headers instead of the
	// connection address. Only set behind a proxy that controls them.
	TrustProxy bool
}

type Server struct {
	accounts    *account.Service
	authH       *handler.AuthHandler
	catalogH    *handler.CatalogHandler
	contactH    *handler.ContactHandler
	checkoutH   *handler.CheckoutHandler
	rateLimiter *middleware.RateLimiter
	clientIP    func(*http.Request) string
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

func New(cfg Config, accounts *account.Service, cat *catalog.Catalog, mailer handler.ContactMailer, m *metrics.Metrics, logger *slog.Logger) *Server {
	return &Server{
		accounts:    accounts,
		authH:       handler.NewAuthHandler(accounts, cfg.SecureCookies, logger.With("component", "auth")),
		catalogH:    handler.NewCatalogHandler(cat, cfg.CatalogDelay, logger.With("component", "catalog")),
		contactH:    handler.NewContactHandler(mailer, m, logger.With("component", "contact")),
		checkoutH:   handler.NewCheckoutHandler(logger.With("component", "checkout")),
		rateLimiter: middleware.NewRateLimiter(authRateLimit, time.Minute),
		clientIP:    middleware.ClientIP(cfg.TrustProxy),
		metrics:     m,
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", s.rateLimitedHandler(s.authH.Register))
	mux.HandleFunc("POST /auth/login", s.rateLimitedHandler(s.authH.Login))
	mux.HandleFunc("POST /auth/forgot-password", s.rateLimitedHandler(s.authH.ForgotPassword))
	mux.HandleFunc("POST /auth/reset-password", s.rateLimitedHandler(s.authH.ResetPassword))
	mux.HandleFunc("POST /auth/logout", s.authH.Logout)
	mux.Handle("GET /auth/me", middleware.RequireSession(s.accounts)(http.HandlerFunc(s.authH.Me)))

	mux.HandleFunc("GET /api/destinations", s.catalogH.ListDestinations)
	mux.HandleFunc("GET /api/destinations/{id}", s.catalogH.GetDestination)
	mux.HandleFunc("GET /api/packages", s.catalogH.ListPackages)
	mux.HandleFunc("GET /api/packages/{id}", s.catalogH.GetPackage)

	mux.HandleFunc("POST /api/contact", s.contactH.Submit)
	mux.HandleFunc("POST /api/create-payment-intent", s.checkoutH.CreatePaymentIntent)

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("GET /metrics", s.metrics.Handler())

	var h http.Handler = s.metrics.Instrument(mux)
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	return middleware.RequestID(h)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, s.clientIP)(h)
	return rl.ServeHTTP
}
