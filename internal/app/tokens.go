package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/riohdigital/digirioh-buddy-portal/internal/crypto"
	"github.com/riohdigital/digirioh-buddy-portal/internal/domain"
	"github.com/riohdigital/digirioh-buddy-portal/internal/google"
	"github.com/riohdigital/digirioh-buddy-portal/internal/metrics"
)

const (
	// defaultExpiresIn mirrors Google's usual 1-hour access-token TTL, less
	// one second of margin, used when the provider omits expires_in.
	defaultExpiresIn = 3599

	// expiryMargin: a cached access token this close to expiring is treated
	// as stale and refreshed.
	expiryMargin = 60 * time.Second
)

// TokenProvider is the slice of the Google client the service needs.
type TokenProvider interface {
	Refresh(ctx context.Context, refreshToken string) (*google.Token, error)
	ExchangeCode(ctx context.Context, code, redirectURI string) (*google.Token, error)
}

// TokenService holds custody of per-user Google tokens: it captures them
// after OAuth completion and serves fresh access tokens on demand.
type TokenService struct {
	credentials  domain.CredentialRepository
	provider     TokenProvider
	cipher       crypto.Service
	clock        clockwork.Clock
	refreshGroup singleflight.Group
}

func NewTokenService(credentials domain.CredentialRepository, provider TokenProvider, cipher crypto.Service, clock clockwork.Clock) *TokenService {
	return &TokenService{
		credentials: credentials,
		provider:    provider,
		cipher:      cipher,
		clock:       clock,
	}
}

// CaptureRequest carries tokens handed over right after a successful OAuth
// authorization. RefreshToken is empty on repeat consent-less logins.
type CaptureRequest struct {
	UserID       uuid.UUID
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the provider-declared TTL in seconds; <= 0 falls back to
	// the default.
	ExpiresIn int
}

// AccessToken is a currently-valid access token and its expiry.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// CaptureTokens persists provider-issued tokens. A capture that supplies a
// refresh token either stores it encrypted or fails outright; a capture
// without one never erases a previously stored refresh token.
func (s *TokenService) CaptureTokens(ctx context.Context, req CaptureRequest) error {
	result, err := s.captureTokens(ctx, req)
	metrics.TokenCapturesTotal.WithLabelValues(result).Inc()
	return err
}

func (s *TokenService) captureTokens(ctx context.Context, req CaptureRequest) (string, error) {
	if req.AccessToken == "" {
		return "invalid_input", fmt.Errorf("%w: access token is empty", domain.ErrInvalidInput)
	}

	var encrypted *string
	if req.RefreshToken != "" {
		envelope, err := s.cipher.Encrypt(req.RefreshToken)
		if err != nil {
			return "encryption_failed", fmt.Errorf("%w: %w", domain.ErrEncryptionFailed, err)
		}
		encrypted = &envelope
	}

	expiresAt := s.expiry(req.ExpiresIn)

	if err := s.credentials.UpdateTokens(ctx, req.UserID, req.AccessToken, expiresAt, encrypted); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "not_found", err
		}
		return "store_failed", fmt.Errorf("failed to store tokens: %w", err)
	}

	slog.Info("Captured Google tokens",
		"user_id", req.UserID.String(),
		"refresh_token_stored", encrypted != nil,
		"expires_at", expiresAt)
	return "ok", nil
}

// ExchangeCode exchanges an authorization code with Google and captures the
// resulting tokens for the user in one step.
func (s *TokenService) ExchangeCode(ctx context.Context, userID uuid.UUID, code, redirectURI string) error {
	if code == "" {
		return fmt.Errorf("%w: authorization code is empty", domain.ErrInvalidInput)
	}

	token, err := s.provider.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		var tokenErr *google.TokenError
		if errors.As(err, &tokenErr) && tokenErr.StatusCode >= 400 && tokenErr.StatusCode < 500 {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}

	return s.CaptureTokens(ctx, CaptureRequest{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    token.ExpiresIn,
	})
}

// FreshAccessToken returns a currently-valid access token for the user,
// refreshing via Google when the cached one is stale or absent. The refresh
// token never leaves this service. Concurrent calls for the same user are
// collapsed into a single provider round trip.
func (s *TokenService) FreshAccessToken(ctx context.Context, userID uuid.UUID) (*AccessToken, error) {
	v, err, _ := s.refreshGroup.Do(userID.String(), func() (any, error) {
		// The shared call serves every coalesced caller; the winner
		// disconnecting must not cancel it for the rest.
		result, token, err := s.freshAccessToken(context.WithoutCancel(ctx), userID)
		metrics.TokenRefreshesTotal.WithLabelValues(result).Inc()
		return token, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*AccessToken), nil
}

func (s *TokenService) freshAccessToken(ctx context.Context, userID uuid.UUID) (string, *AccessToken, error) {
	cred, err := s.credentials.GetCredential(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "not_found", nil, err
		}
		return "failed", nil, fmt.Errorf("failed to load credential: %w", err)
	}

	// A still-valid cached token is as good as a fresh one.
	if cred.AccessToken != "" && cred.AccessTokenExpiresAt.After(s.clock.Now().Add(expiryMargin)) {
		return "cached", &AccessToken{Token: cred.AccessToken, ExpiresAt: cred.AccessTokenExpiresAt}, nil
	}

	if cred.EncryptedRefreshToken == nil || *cred.EncryptedRefreshToken == "" {
		return "no_refresh_token", nil, domain.ErrNoRefreshToken
	}

	refreshToken, err := s.cipher.Decrypt(*cred.EncryptedRefreshToken)
	if err != nil {
		return "corrupt", nil, fmt.Errorf("%w: %v", domain.ErrCorruptCredential, err)
	}

	token, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		var tokenErr *google.TokenError
		if errors.As(err, &tokenErr) && tokenErr.Revoked() {
			// Leaving the dead grant in place would repeat this round trip on
			// every call.
			if clearErr := s.credentials.ClearRefreshToken(ctx, userID); clearErr != nil {
				slog.Error("Failed to clear revoked refresh token", "user_id", userID.String(), "error", clearErr)
			}
			slog.Warn("Google revoked stored refresh token", "user_id", userID.String())
			return "revoked", nil, domain.ErrRefreshTokenRevoked
		}
		return "provider_unavailable", nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}

	var encrypted *string
	if token.RefreshToken != "" {
		// Rare: Google rotated the grant. Store the new one; otherwise the
		// existing stored token is preserved by the partial update.
		envelope, encErr := s.cipher.Encrypt(token.RefreshToken)
		if encErr != nil {
			return "encryption_failed", nil, fmt.Errorf("%w: %w", domain.ErrEncryptionFailed, encErr)
		}
		encrypted = &envelope
	}

	expiresAt := s.expiry(token.ExpiresIn)
	if err := s.credentials.UpdateTokens(ctx, userID, token.AccessToken, expiresAt, encrypted); err != nil {
		return "store_failed", nil, fmt.Errorf("failed to store refreshed tokens: %w", err)
	}

	slog.Info("Refreshed Google access token",
		"user_id", userID.String(),
		"rotated_refresh_token", encrypted != nil,
		"expires_at", expiresAt)
	return "refreshed", &AccessToken{Token: token.AccessToken, ExpiresAt: expiresAt}, nil
}

func (s *TokenService) expiry(expiresIn int) time.Time {
	if expiresIn <= 0 {
		expiresIn = defaultExpiresIn
	}
	return s.clock.Now().Add(time.Duration(expiresIn) * time.Second)
}
