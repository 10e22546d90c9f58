package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/riohdigital/digirioh-buddy-portal/internal/app"
	"github.com/riohdigital/digirioh-buddy-portal/internal/config"
)

const testServiceKey = "test-service-key"

// --- Mock implementations ---

type mockTokenService struct {
	captureTokensFn    func(ctx context.Context, req app.CaptureRequest) error
	exchangeCodeFn     func(ctx context.Context, userID uuid.UUID, code, redirectURI string) error
	freshAccessTokenFn func(ctx context.Context, userID uuid.UUID) (*app.AccessToken, error)
}

func (m *mockTokenService) CaptureTokens(ctx context.Context, req app.CaptureRequest) error {
	if m.captureTokensFn != nil {
		return m.captureTokensFn(ctx, req)
	}
	return errors.New("not implemented")
}

func (m *mockTokenService) ExchangeCode(ctx context.Context, userID uuid.UUID, code, redirectURI string) error {
	if m.exchangeCodeFn != nil {
		return m.exchangeCodeFn(ctx, userID, code, redirectURI)
	}
	return errors.New("not implemented")
}

func (m *mockTokenService) FreshAccessToken(ctx context.Context, userID uuid.UUID) (*app.AccessToken, error) {
	if m.freshAccessTokenFn != nil {
		return m.freshAccessTokenFn(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

// --- Test helpers ---

func newTestServer(tokens tokenService, healthChecks ...HealthCheck) *Server {
	cfg := &config.Config{
		AppEnv:        "development",
		Port:          "8080",
		ServiceAPIKey: testServiceKey,
	}
	return NewServer(cfg, tokens, healthChecks)
}

// doJSON issues an authenticated JSON request against the full middleware
// stack and returns the recorder.
func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testServiceKey)
	rec := httptest.NewRecorder()

	s.echo.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// mustHaveCode asserts the status and that the error body's "error" field
// carries the machine-readable code callers branch on.
func mustHaveCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	require.Equal(t, status, rec.Code, "body: %s", rec.Body.String())
	body := decodeBody(t, rec)
	require.Equal(t, code, body["error"])
}
