package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/application/commands"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/fakturering/internal/shared/application"
	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fakturering/pkg/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

func TestNewContainer_Persistent(t *testing.T) {
	cfg := &config.Config{
		AppEnv:     "test",
		Variant:    config.VariantPersistent,
		SQLitePath: filepath.Join(t.TempDir(), "invoices.db"),
	}
	ctx := context.Background()

	c, err := NewContainer(ctx, cfg, testLogger())
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, database.DriverSQLite, c.DBDriver)
	assert.Equal(t, "sqlite", c.StoreName())
	assert.NotNil(t, c.OutboxRepo)
	assert.IsType(t, &persistence.SQLiteInvoiceRepository{}, c.InvoiceRepo)
	assert.Nil(t, c.TokenIssuer)
	assert.True(t, c.Health.Check(ctx).Healthy())

	inv, err := c.CreateInvoiceHandler.Handle(ctx, commands.CreateInvoiceCommand{
		SubscriptionID: ptr(int64(1)),
		CustomerID:     ptr(int64(2)),
		Amount:         ptr(150.0),
		DueDate:        ptr("2025-01-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "1", inv.ID.String())

	pending, err := c.OutboxRepo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	report, err := c.GetReportHandler.Handle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.UnpaidCount)
}

func TestNewContainer_PersistentReopensExistingFile(t *testing.T) {
	cfg := &config.Config{
		Variant:    config.VariantPersistent,
		SQLitePath: filepath.Join(t.TempDir(), "invoices.db"),
	}
	ctx := context.Background()

	first, err := NewContainer(ctx, cfg, testLogger())
	require.NoError(t, err)
	_, err = first.CreateInvoiceHandler.Handle(ctx, commands.CreateInvoiceCommand{
		SubscriptionID: ptr(int64(1)),
		CustomerID:     ptr(int64(2)),
		Amount:         ptr(10.0),
		DueDate:        ptr("2025-01-01"),
	})
	require.NoError(t, err)
	first.Close()

	second, err := NewContainer(ctx, cfg, testLogger())
	require.NoError(t, err)
	defer second.Close()

	report, err := second.GetReportHandler.Handle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalCount)
}

func TestNewContainer_Memory(t *testing.T) {
	cfg := &config.Config{
		Variant:   config.VariantMemory,
		JWTSecret: "secret",
		JWTIssuer: "fakturering",
	}

	c, err := NewContainer(context.Background(), cfg, testLogger())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.DBConn)
	assert.Nil(t, c.OutboxRepo)
	assert.Equal(t, "memory", c.StoreName())
	assert.IsType(t, &persistence.MemoryInvoiceRepository{}, c.InvoiceRepo)
	assert.Equal(t, sharedApplication.NoopUnitOfWork{}, c.UnitOfWork)
	require.NotNil(t, c.TokenIssuer)

	_, err = c.StartOutboxProcessor(context.Background())
	assert.Error(t, err, "memory store has no outbox")
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	_, err := NewContainer(context.Background(), &config.Config{Variant: config.VariantMemory}, testLogger())
	assert.ErrorIs(t, err, config.ErrJWTSecretMissing)

	_, err = NewContainer(context.Background(), &config.Config{Variant: "cloud"}, testLogger())
	assert.ErrorIs(t, err, config.ErrUnknownVariant)

	_, err = NewContainer(context.Background(), &config.Config{
		Variant:     config.VariantPersistent,
		DatabaseURL: "mysql://localhost/invoices",
	}, testLogger())
	assert.Error(t, err)
}

func TestContainer_StartOutboxProcessorWithoutBroker(t *testing.T) {
	cfg := &config.Config{
		Variant:    config.VariantPersistent,
		SQLitePath: filepath.Join(t.TempDir(), "invoices.db"),
	}
	ctx := context.Background()

	c, err := NewContainer(ctx, cfg, testLogger())
	require.NoError(t, err)

	p, err := c.StartOutboxProcessor(ctx)
	require.NoError(t, err)
	assert.True(t, p.IsRunning())

	c.Close()
	assert.False(t, p.IsRunning())
}
