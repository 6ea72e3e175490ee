package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/database"
)

func TestNewConnection_RequiresURL(t *testing.T) {
	_, err := NewConnection(context.Background(), database.Config{})
	assert.Error(t, err)
}

func TestConnection_Integration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{URL: url, MaxConns: 2})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, database.DriverPostgres, conn.Driver())

	tx, err := conn.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `CREATE TEMP TABLE conn_test (id SERIAL PRIMARY KEY, name TEXT) ON COMMIT DROP`)
	require.NoError(t, err)

	var id int64
	require.NoError(t, tx.QueryRow(ctx, `INSERT INTO conn_test (name) VALUES ($1) RETURNING id`, "Alice").Scan(&id))
	assert.Equal(t, int64(1), id)

	result, err := tx.Exec(ctx, `UPDATE conn_test SET name = $1 WHERE id = $2`, "Bob", id)
	require.NoError(t, err)
	affected, _ := result.RowsAffected()
	assert.Equal(t, int64(1), affected)

	_, err = result.LastInsertId()
	assert.Error(t, err)

	require.NoError(t, tx.Rollback(ctx))
}
