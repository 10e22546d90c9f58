package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("GOOGLE_CLIENT_ID", "test-client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "test-client-secret")
	t.Setenv("SERVICE_API_KEY", "test-service-key")
	t.Setenv("TOKEN_ENCRYPTION_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoad_AllRequiredVarsSet(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
	assert.Equal(t, "test-client-id", cfg.GoogleClientID)
	assert.Equal(t, "test-client-secret", cfg.GoogleClientSecret)
	assert.Equal(t, "test-service-key", cfg.ServiceAPIKey)
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		skipEnv string
		wantErr string
	}{
		{"missing DATABASE_URL", "DATABASE_URL", "DATABASE_URL is required"},
		{"missing GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_ID is required"},
		{"missing GOOGLE_CLIENT_SECRET", "GOOGLE_CLIENT_SECRET", "GOOGLE_CLIENT_SECRET is required"},
		{"missing SERVICE_API_KEY", "SERVICE_API_KEY", "SERVICE_API_KEY is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.skipEnv, "")

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_EncryptionSecretTooShort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_ENCRYPTION_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_ENCRYPTION_SECRET must be at least 32 bytes")
}

func TestLoad_EncryptionSecretRequiredInProduction(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("TOKEN_ENCRYPTION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_ENCRYPTION_SECRET is required")
}

func TestLoad_EncryptionSecretOptionalInDevelopment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_ENCRYPTION_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.TokenEncryptionSecret)
}
