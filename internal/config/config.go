package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// minEncryptionSecretLength is the AES-256 key size: the cipher uses the
// first 32 bytes of the secret as the key.
const minEncryptionSecretLength = 32

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// ServiceAPIKey authenticates internal callers (the OAuth-completion
	// frontend and the automation backend) on the token endpoints.
	ServiceAPIKey string `env:"SERVICE_API_KEY"`

	// TokenEncryptionSecret protects refresh tokens at rest. Empty disables
	// encryption (development only).
	TokenEncryptionSecret string `env:"TOKEN_ENCRYPTION_SECRET"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := []struct {
		name  string
		value string
	}{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"GOOGLE_CLIENT_ID", cfg.GoogleClientID},
		{"GOOGLE_CLIENT_SECRET", cfg.GoogleClientSecret},
		{"SERVICE_API_KEY", cfg.ServiceAPIKey},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}

	if cfg.TokenEncryptionSecret != "" && len(cfg.TokenEncryptionSecret) < minEncryptionSecretLength {
		return fmt.Errorf("TOKEN_ENCRYPTION_SECRET must be at least %d bytes, got %d",
			minEncryptionSecretLength, len(cfg.TokenEncryptionSecret))
	}
	if cfg.TokenEncryptionSecret == "" && cfg.AppEnv != "development" {
		return fmt.Errorf("TOKEN_ENCRYPTION_SECRET is required outside development")
	}

	return nil
}
