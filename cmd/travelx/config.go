package main

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type config struct {
	Port            string
	BaseURL         string
	Env             string
	LogLevel        string
	LogFormat       string
	DBPath          string
	PasswordEncoder string
	TokenSecret     string
	ExposeResetLink bool
	CatalogDelay    time.Duration
	PostmarkToken   string
	FromEmail       string
	ContactEmail    string
	// SweepInterval enables periodic deletion of expired reset tokens.
	// Zero leaves expiry to the reset request itself.
	SweepInterval time.Duration
	// TrustProxy takes the client address from forwarding headers.
	TrustProxy bool
}

func (c config) production() bool {
	return c.Env == "production"
}

// loadConfig reads TRAVELX_* environment variables.
func loadConfig() (config, error) {
	cfg := config{
		Port:            os.Getenv("TRAVELX_PORT"),
		BaseURL:         os.Getenv("TRAVELX_BASE_URL"),
		Env:             os.Getenv("TRAVELX_ENV"),
		LogLevel:        os.Getenv("TRAVELX_LOG_LEVEL"),
		LogFormat:       os.Getenv("TRAVELX_LOG_FORMAT"),
		DBPath:          os.Getenv("TRAVELX_DB_PATH"),
		PasswordEncoder: os.Getenv("TRAVELX_PASSWORD_ENCODER"),
		TokenSecret:     os.Getenv("TRAVELX_TOKEN_SECRET"),
		PostmarkToken:   os.Getenv("TRAVELX_POSTMARK_TOKEN"),
		FromEmail:       os.Getenv("TRAVELX_FROM_EMAIL"),
		ContactEmail:    os.Getenv("TRAVELX_CONTACT_EMAIL"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%s", cfg.Port)
	}

	if v := os.Getenv("TRAVELX_EXPOSE_RESET_LINK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return config{}, fmt.Errorf("TRAVELX_EXPOSE_RESET_LINK: %w", err)
		}
		cfg.ExposeResetLink = b
	}
	if v := os.Getenv("TRAVELX_TRUST_PROXY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return config{}, fmt.Errorf("TRAVELX_TRUST_PROXY: %w", err)
		}
		cfg.TrustProxy = b
	}
	if v := os.Getenv("TRAVELX_CATALOG_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return config{}, fmt.Errorf("TRAVELX_CATALOG_DELAY: %w", err)
		}
		cfg.CatalogDelay = d
	}
	if v := os.Getenv("TRAVELX_SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return config{}, fmt.Errorf("TRAVELX_SWEEP_INTERVAL: %w", err)
		}
		if d < 0 {
			return config{}, fmt.Errorf("TRAVELX_SWEEP_INTERVAL must not be negative, got %s", v)
		}
		cfg.SweepInterval = d
	}
	return cfg, nil
}
