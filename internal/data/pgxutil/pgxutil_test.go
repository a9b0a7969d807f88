package pgxutil

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/runconsole/internal/testutil"
)

func TestWithPgxConn(t *testing.T) {
	db := testutil.SetupTestDB(t)

	var got int
	err := WithPgxConn(context.Background(), db, func(conn *pgx.Conn) error {
		return conn.QueryRow(context.Background(), "SELECT 41 + 1").Scan(&got)
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestWithPgxConn_CanceledContext(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := WithPgxConn(ctx, db, func(*pgx.Conn) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}
