package mcp

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/fakturering/adapter/cli"
	internalApp "github.com/felixgeelhaar/fakturering/internal/app"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
	"github.com/felixgeelhaar/fakturering/pkg/config"
)

func ptr[T any](v T) *T { return &v }

func newTestServer() *mcp.Server {
	return mcp.NewServer(mcp.ServerInfo{
		Name:    "test",
		Version: "1.0.0",
		Capabilities: mcp.Capabilities{
			Tools: true,
		},
	})
}

func memoryApp(t *testing.T) *cli.App {
	t.Helper()
	cfg := &config.Config{
		AppEnv:    "test",
		Variant:   config.VariantMemory,
		JWTSecret: "test-secret",
		CLIUser:   "assistant",
	}
	container, err := internalApp.NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(container.Close)
	return cli.NewAppFromContainer(container)
}

func TestRegisterTools_ListTools(t *testing.T) {
	srv := newTestServer()
	require.NoError(t, RegisterTools(srv, ToolDependencies{App: &cli.App{}}))

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)

	names := make(map[any]bool)
	for _, tool := range tools {
		names[tool["name"]] = true
	}
	for _, name := range []string{
		"service.health",
		"invoice.statuses",
		"invoice.create",
		"invoice.get",
		"invoice.update_status",
		"invoice.report",
	} {
		assert.True(t, names[name], "%s should be registered", name)
	}
}

func TestRegisterTools_RequiresApp(t *testing.T) {
	assert.Error(t, RegisterTools(nil, ToolDependencies{App: &cli.App{}}))
	assert.Error(t, RegisterTools(newTestServer(), ToolDependencies{}))
}

func TestInvoiceTools(t *testing.T) {
	tools := invoiceTools{app: memoryApp(t)}
	ctx := context.Background()

	created, err := tools.create(ctx, invoiceCreateInput{
		SubscriptionID: ptr(int64(3)),
		CustomerID:     ptr(int64(9)),
		Amount:         ptr(80.0),
		DueDate:        ptr("2024-05-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "assistant", created.CreatedBy)
	assert.Equal(t, "NOT_PAID", created.Status)

	got, err := tools.get(ctx, invoiceIDInput{InvoiceID: created.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	updated, err := tools.updateStatus(ctx, invoiceStatusInput{InvoiceID: created.ID.String(), Status: "PAID"})
	require.NoError(t, err)
	assert.Equal(t, "PAID", updated.Status)
	assert.Equal(t, "Betalt", updated.StatusLabel)

	report, err := tools.report(ctx, struct{}{})
	require.NoError(t, err)
	assert.InDelta(t, 80.0, report.TotalPaid, 0.0001)
	assert.Equal(t, 1, report.TotalCount)
}

func TestInvoiceTools_Errors(t *testing.T) {
	tools := invoiceTools{app: memoryApp(t)}
	ctx := context.Background()

	_, err := tools.create(ctx, invoiceCreateInput{SubscriptionID: ptr(int64(3))})
	assert.ErrorIs(t, err, invoice.ErrMissingField)

	_, err = tools.get(ctx, invoiceIDInput{})
	assert.Error(t, err)

	_, err = tools.get(ctx, invoiceIDInput{InvoiceID: "missing"})
	assert.ErrorIs(t, err, invoice.ErrInvoiceNotFound)

	_, err = tools.updateStatus(ctx, invoiceStatusInput{InvoiceID: "missing", Status: "REFUNDED"})
	assert.ErrorIs(t, err, invoice.ErrInvalidStatus)

	unwired := invoiceTools{app: &cli.App{}}
	_, err = unwired.report(ctx, struct{}{})
	assert.Error(t, err)
}

func TestStatuses(t *testing.T) {
	list := statuses()
	require.Len(t, list, 3)
	assert.Equal(t, statusInfo{Code: "NOT_PAID", Label: "Ikke betalt"}, list[0])
}
