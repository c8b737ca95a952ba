package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dukerupert/travelx/internal/account"
	"github.com/dukerupert/travelx/internal/auth"
	"github.com/dukerupert/travelx/internal/catalog"
	"github.com/dukerupert/travelx/internal/database"
	"github.com/dukerupert/travelx/internal/email"
	"github.com/dukerupert/travelx/internal/logging"
	"github.com/dukerupert/travelx/internal/metrics"
	"github.com/dukerupert/travelx/internal/server"
	"github.com/dukerupert/travelx/internal/store"
)

type resetTokenStore interface {
	account.ResetTokenStore
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	var (
		users  account.UserStore
		tokens resetTokenStore
	)
	if cfg.DBPath == "" {
		users = store.NewMemoryUserStore()
		tokens = store.NewMemoryResetTokenStore()
		logger.Info("using in-memory store; accounts are lost on restart")
	} else {
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		users = store.NewUserStore(db)
		tokens = store.NewResetTokenStore(db)
	}

	encoder, err := auth.EncoderByName(cfg.PasswordEncoder)
	if err != nil {
		slog.Error("invalid password encoder", "error", err)
		os.Exit(1)
	}

	var codec auth.TokenCodec = auth.Base64Codec{}
	if cfg.TokenSecret != "" {
		jwtCodec, err := auth.NewJWTCodec(cfg.TokenSecret)
		if err != nil {
			slog.Error("invalid token secret", "error", err)
			os.Exit(1)
		}
		codec = jwtCodec
	} else if cfg.production() {
		logger.Warn("TRAVELX_TOKEN_SECRET is not set; session tokens are unsigned")
	}

	emailClient := email.NewClient(cfg.PostmarkToken, cfg.FromEmail, cfg.ContactEmail)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	accounts := account.NewService(users, tokens,
		account.WithEncoder(encoder),
		account.WithTokenCodec(codec),
		account.WithNotifier(emailClient),
		account.WithBaseURL(cfg.BaseURL),
		account.WithExposedResetLink(cfg.ExposeResetLink),
		account.WithMetrics(m),
		account.WithLogger(logger.With("component", "account")),
	)

	cat, err := catalog.Load()
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	srv := server.New(server.Config{
		SecureCookies: cfg.production(),
		CatalogDelay:  cfg.CatalogDelay,
		TrustProxy:    cfg.TrustProxy,
	}, accounts, cat, emailClient, m, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10*time.Second + cfg.CatalogDelay,
		IdleTimeout:       120 * time.Second,
	}

	// Background cleanup goroutines
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go runEvery(cleanupCtx, time.Minute, srv.RateLimiter().Cleanup)
	if cfg.SweepInterval > 0 {
		slog.Info("reset token sweep enabled", "interval", cfg.SweepInterval)
		go runEvery(cleanupCtx, cfg.SweepInterval, func() {
			if n, err := tokens.DeleteExpired(cleanupCtx, time.Now()); err != nil {
				slog.Error("cleanup expired reset tokens", "error", err)
			} else if n > 0 {
				slog.Info("cleaned up expired reset tokens", "count", n)
			}
		})
	}

	go func() {
		slog.Info("travelx api starting", "addr", ":"+cfg.Port, "base_url", cfg.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cleanupCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
