package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/riohdigital/digirioh-buddy-portal/internal/domain"
)

// CredentialRepo implements domain.CredentialRepository on the profiles table.
type CredentialRepo struct {
	pool *pgxpool.Pool
}

var _ domain.CredentialRepository = (*CredentialRepo)(nil)

func NewCredentialRepo(pool *pgxpool.Pool) *CredentialRepo {
	return &CredentialRepo{pool: pool}
}

func (r *CredentialRepo) GetCredential(ctx context.Context, userID uuid.UUID) (*domain.Credential, error) {
	var (
		cred      domain.Credential
		token     *string
		expiresAt *time.Time
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, google_access_token, google_token_expires_at, google_refresh_token, updated_at
		FROM profiles
		WHERE id = $1
	`, userID).Scan(&cred.UserID, &token, &expiresAt, &cred.EncryptedRefreshToken, &cred.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	if token != nil {
		cred.AccessToken = *token
	}
	if expiresAt != nil {
		cred.AccessTokenExpiresAt = *expiresAt
	}
	return &cred, nil
}

// UpdateTokens writes the access token and its expiry. A nil
// encryptedRefreshToken leaves the stored google_refresh_token column
// untouched; COALESCE keeps the write atomic without a read-modify-write
// round trip.
func (r *CredentialRepo) UpdateTokens(ctx context.Context, userID uuid.UUID, accessToken string, expiresAt time.Time, encryptedRefreshToken *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET google_access_token = $2,
		    google_token_expires_at = $3,
		    google_refresh_token = COALESCE($4, google_refresh_token),
		    updated_at = NOW()
		WHERE id = $1
	`, userID, accessToken, expiresAt, encryptedRefreshToken)
	if err != nil {
		return fmt.Errorf("failed to update tokens: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *CredentialRepo) ClearRefreshToken(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET google_refresh_token = NULL, updated_at = NOW()
		WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
