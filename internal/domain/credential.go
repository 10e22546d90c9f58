package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Credential is the per-user Google token state. The refresh token is stored
// only as an opaque ciphertext envelope; the plaintext exists solely inside
// the crypto boundary during capture and refresh.
type Credential struct {
	UserID               uuid.UUID
	AccessToken          string
	AccessTokenExpiresAt time.Time
	// EncryptedRefreshToken is nil when no durable grant is on file.
	EncryptedRefreshToken *string
	UpdatedAt             time.Time
}

// CredentialRepository persists per-user credential state. Rows are created
// by the identity system; every method reports ErrUserNotFound when no row
// matches, never inserting implicitly.
type CredentialRepository interface {
	GetCredential(ctx context.Context, userID uuid.UUID) (*Credential, error)

	// UpdateTokens writes the access token and expiry together. A nil
	// encryptedRefreshToken leaves the stored refresh token untouched, so an
	// access-token-only write can never erase a durable grant.
	UpdateTokens(ctx context.Context, userID uuid.UUID, accessToken string, expiresAt time.Time, encryptedRefreshToken *string) error

	// ClearRefreshToken drops the stored envelope. Called only when the
	// provider reports the grant as permanently invalid.
	ClearRefreshToken(ctx context.Context, userID uuid.UUID) error
}
