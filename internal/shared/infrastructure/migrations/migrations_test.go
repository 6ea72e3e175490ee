package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/migrations"
)

func TestFiles(t *testing.T) {
	for _, driver := range []database.Driver{database.DriverSQLite, database.DriverPostgres} {
		files, err := migrations.Files(driver)
		require.NoError(t, err)
		assert.Equal(t, []string{"0001_invoices.up.sql", "0002_outbox.up.sql"}, files, driver.String())
	}
}

func TestRun_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: filepath.Join(t.TempDir(), "m.db")})
	require.NoError(t, err)
	defer conn.Close()

	ran, err := migrations.Run(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_invoices", "0002_outbox"}, ran)

	ran, err = migrations.Run(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, ran, "second run applies nothing")

	_, err = conn.Exec(ctx, `INSERT INTO invoices (subscription_id, customer_id, amount, due_date, status, created_at)
		VALUES (1, 2, 10, '2025-01-01', 'BOGUS', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "status check constraint rejects unknown values")
}
