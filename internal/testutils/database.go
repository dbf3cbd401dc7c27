package testutils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dungeon-master/internal/database"
)

// CreateTestDB opens a migrated in-memory SQLite database
func CreateTestDB(t *testing.T) (*database.DB, func()) {
	ctx := context.Background()

	db, err := database.Open(ctx, &database.Config{
		Driver: database.DriverSQLite,
		DSN:    ":memory:",
	})
	require.NoError(t, err, "failed to open sqlite")
	require.NoError(t, db.Migrate(ctx), "failed to migrate sqlite")

	return db, func() { _ = db.Close() }
}
