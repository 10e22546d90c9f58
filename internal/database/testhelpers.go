package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestProfile inserts a bare profile row and returns its ID. The token
// columns start out NULL, matching a user who has never linked Google.
func CreateTestProfile(t *testing.T, pool *pgxpool.Pool, email string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(), `
		INSERT INTO profiles (email, full_name)
		VALUES ($1, $2)
		RETURNING id
	`, email, "Test User").Scan(&id)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	return id
}
