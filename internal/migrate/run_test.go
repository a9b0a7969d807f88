package migrate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/runconsole/internal/migrate"
	"github.com/target/runconsole/internal/testutil"
)

func TestRun_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	// SetupTestDB already migrated once.
	require.NoError(t, migrate.Run(ctx, db))

	statuses, err := migrate.List(ctx, db)
	require.NoError(t, err)
	require.NotEmpty(t, statuses)
	for _, s := range statuses {
		assert.True(t, s.Applied, "migration %s not applied", s.Version)
	}
	assert.Equal(t, "0001_user_preferences", statuses[0].Version)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT count(*) FROM saved_queries`).Scan(&n))
	assert.Zero(t, n)
}
