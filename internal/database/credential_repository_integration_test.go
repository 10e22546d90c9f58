package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riohdigital/digirioh-buddy-portal/internal/domain"
)

func TestGetCredential_FreshProfile(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCredentialRepo(pool)
	ctx := context.Background()

	userID := CreateTestProfile(t, pool, "fresh@example.com")

	cred, err := repo.GetCredential(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, cred.UserID)
	assert.Empty(t, cred.AccessToken)
	assert.True(t, cred.AccessTokenExpiresAt.IsZero())
	assert.Nil(t, cred.EncryptedRefreshToken)
}

func TestGetCredential_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCredentialRepo(pool)
	ctx := context.Background()

	cred, err := repo.GetCredential(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Nil(t, cred)
}

func TestUpdateTokens_FullWrite(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCredentialRepo(pool)
	ctx := context.Background()

	userID := CreateTestProfile(t, pool, "full@example.com")
	expiresAt := time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)
	envelope := "bm9uY2U=.Y2lwaGVydGV4dA=="

	err := repo.UpdateTokens(ctx, userID, "access-token", expiresAt, &envelope)
	require.NoError(t, err)

	cred, err := repo.GetCredential(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "access-token", cred.AccessToken)
	assert.WithinDuration(t, expiresAt, cred.AccessTokenExpiresAt, time.Microsecond)
	require.NotNil(t, cred.EncryptedRefreshToken)
	assert.Equal(t, envelope, *cred.EncryptedRefreshToken)
}

func TestUpdateTokens_NilPreservesRefreshToken(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCredentialRepo(pool)
	ctx := context.Background()

	userID := CreateTestProfile(t, pool, "partial@example.com")
	expiresAt := time.Now().UTC().Add(time.Hour)
	envelope := "bm9uY2U=.Y2lwaGVydGV4dA=="

	require.NoError(t, repo.UpdateTokens(ctx, userID, "first-token", expiresAt, &envelope))

	// Access-token-only write: the stored envelope must survive untouched.
	require.NoError(t, repo.UpdateTokens(ctx, userID, "second-token", expiresAt.Add(time.Hour), nil))

	cred, err := repo.GetCredential(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "second-token", cred.AccessToken)
	require.NotNil(t, cred.EncryptedRefreshToken)
	assert.Equal(t, envelope, *cred.EncryptedRefreshToken)
}

func TestUpdateTokens_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCredentialRepo(pool)
	ctx := context.Background()

	err := repo.UpdateTokens(ctx, uuid.New(), "token", time.Now(), nil)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestClearRefreshToken(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCredentialRepo(pool)
	ctx := context.Background()

	userID := CreateTestProfile(t, pool, "clear@example.com")
	envelope := "bm9uY2U=.Y2lwaGVydGV4dA=="
	require.NoError(t, repo.UpdateTokens(ctx, userID, "token", time.Now().Add(time.Hour), &envelope))

	require.NoError(t, repo.ClearRefreshToken(ctx, userID))

	cred, err := repo.GetCredential(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, cred.EncryptedRefreshToken)
	// Access token is left in place; only the grant is removed.
	assert.Equal(t, "token", cred.AccessToken)
}

func TestClearRefreshToken_NotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewCredentialRepo(pool)
	ctx := context.Background()

	err := repo.ClearRefreshToken(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
