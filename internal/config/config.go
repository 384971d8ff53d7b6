package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dukerupert/rsvp/internal/blob"
	"github.com/dukerupert/rsvp/internal/middleware"
)

const minSecretLen = 32

// Config holds all configuration for the service.
type Config struct {
	Environment string
	Port        string
	DBPath      string
	BaseURL     string
	LogLevel    string

	SessionSecret []byte

	AdminEmail        string
	AdminPasswordHash string

	S3 blob.Config

	PostmarkToken string
	FromEmail     string

	QRAPIURL string

	// TrustedProxies are the peers allowed to report the client address
	// through forwarding headers.
	TrustedProxies *middleware.TrustedProxies
}

// Load reads configuration from the environment. Outside production a .env
// file is loaded first when present.
func Load() (*Config, error) {
	env := os.Getenv("RSVP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn(".env file could not be loaded", "error", err)
		}
	}

	cfg := &Config{
		Environment:       env,
		Port:              envOr("RSVP_PORT", "8080"),
		DBPath:            envOr("RSVP_DB_PATH", "rsvp.db"),
		LogLevel:          envOr("RSVP_LOG_LEVEL", "info"),
		AdminEmail:        strings.TrimSpace(os.Getenv("RSVP_ADMIN_EMAIL")),
		AdminPasswordHash: os.Getenv("RSVP_ADMIN_PASSWORD_HASH"),
		S3: blob.Config{
			Endpoint:  os.Getenv("RSVP_S3_ENDPOINT"),
			Bucket:    os.Getenv("RSVP_S3_BUCKET"),
			Region:    os.Getenv("RSVP_S3_REGION"),
			AccessKey: os.Getenv("RSVP_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("RSVP_S3_SECRET_KEY"),
			PublicURL: os.Getenv("RSVP_S3_PUBLIC_URL"),
		},
		PostmarkToken: os.Getenv("RSVP_POSTMARK_TOKEN"),
		FromEmail:     envOr("RSVP_FROM_EMAIL", "noreply@localhost"),
		QRAPIURL:      os.Getenv("RSVP_QR_API_URL"),
	}
	cfg.BaseURL = strings.TrimRight(envOr("RSVP_BASE_URL", "http://localhost:"+cfg.Port), "/")

	proxies, err := middleware.ParseTrustedProxies(os.Getenv("RSVP_TRUSTED_PROXIES"))
	if err != nil {
		return nil, fmt.Errorf("RSVP_TRUSTED_PROXIES: %w", err)
	}
	cfg.TrustedProxies = proxies

	secret := os.Getenv("RSVP_SESSION_SECRET")
	switch {
	case secret != "" && len(secret) < minSecretLen:
		return nil, fmt.Errorf("RSVP_SESSION_SECRET must be at least %d bytes", minSecretLen)
	case secret != "":
		cfg.SessionSecret = []byte(secret)
	case cfg.IsProduction():
		return nil, errors.New("RSVP_SESSION_SECRET is required in production")
	default:
		// Sessions will not survive a restart.
		cfg.SessionSecret = make([]byte, minSecretLen)
		if _, err := rand.Read(cfg.SessionSecret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
