package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/database"
)

func openTestConnection(t *testing.T) database.Connection {
	t.Helper()
	conn, err := NewConnection(context.Background(), database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "nested", "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(context.Background(), `CREATE TABLE test (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL)`)
	require.NoError(t, err)
	return conn
}

func TestNewConnection(t *testing.T) {
	conn := openTestConnection(t)

	assert.NoError(t, conn.Ping(context.Background()))
	assert.Equal(t, database.DriverSQLite, conn.Driver())
}

func TestNewConnection_RejectsShellCharacters(t *testing.T) {
	_, err := NewConnection(context.Background(), database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "$(whoami).db"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SQLite path")
}

func TestNewConnection_ViaFactory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "factory.db")

	conn, err := database.NewConnection(ctx, database.Config{URL: "sqlite://" + path})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, database.DriverSQLite, conn.Driver())
	assert.FileExists(t, path)
}

func TestConnection_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)

	result, err := conn.Exec(ctx, `INSERT INTO test (name) VALUES (?)`, "Alice")
	require.NoError(t, err)

	id, err := result.LastInsertId()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	affected, err := result.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	_, err = conn.Exec(ctx, `INSERT INTO test (name) VALUES (?)`, "Bob")
	require.NoError(t, err)

	var name string
	require.NoError(t, conn.QueryRow(ctx, `SELECT name FROM test WHERE id = ?`, 2).Scan(&name))
	assert.Equal(t, "Bob", name)

	rows, err := conn.Query(ctx, `SELECT name FROM test ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Alice", "Bob"}, names)
}

func TestConnection_NoRows(t *testing.T) {
	conn := openTestConnection(t)

	var name string
	err := conn.QueryRow(context.Background(), `SELECT name FROM test WHERE id = ?`, 99).Scan(&name)
	assert.True(t, database.IsNoRows(err))
}

func TestUnitOfWork_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	_, err = database.ExecutorFromContext(txCtx, conn).Exec(txCtx, `INSERT INTO test (name) VALUES (?)`, "Alice")
	require.NoError(t, err)

	nestedCtx, err := uow.Begin(txCtx)
	require.NoError(t, err)
	require.NoError(t, uow.Commit(nestedCtx), "nested commit is a no-op")

	require.NoError(t, uow.Commit(txCtx))

	txCtx, err = uow.Begin(ctx)
	require.NoError(t, err)
	_, err = database.ExecutorFromContext(txCtx, conn).Exec(txCtx, `INSERT INTO test (name) VALUES (?)`, "Bob")
	require.NoError(t, err)
	require.NoError(t, uow.Rollback(txCtx))

	var count int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM test`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUnitOfWork_NoTransaction(t *testing.T) {
	uow := database.NewUnitOfWork(openTestConnection(t))

	assert.Error(t, uow.Commit(context.Background()))
	assert.Error(t, uow.Rollback(context.Background()))
}
