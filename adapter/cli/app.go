package cli

import (
	"encoding/json"
	"errors"
	"io"

	internalApp "github.com/felixgeelhaar/fakturering/internal/app"
	"github.com/felixgeelhaar/fakturering/internal/identity/token"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/application/commands"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/application/queries"
)

// ErrNotInitialized is returned by commands that need the invoice store
// when the container could not be built.
var ErrNotInitialized = errors.New("application not initialized - invoice store required")

// App holds the CLI application dependencies.
type App struct {
	// Invoice Command Handlers
	CreateInvoiceHandler       *commands.CreateInvoiceHandler
	UpdateInvoiceStatusHandler *commands.UpdateInvoiceStatusHandler

	// Invoice Query Handlers
	GetInvoiceHandler *queries.GetInvoiceHandler
	GetReportHandler  *queries.GetReportHandler

	// TokenIssuer is nil unless JWT_SECRET is configured.
	TokenIssuer *token.Issuer

	// Container backs the long-running commands.
	Container *internalApp.Container

	// Current user (configured per environment)
	CurrentUser string

	// RecordCreator stores CurrentUser as created_by. Only the memory
	// variant tracks who created an invoice.
	RecordCreator bool
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	createInvoiceHandler *commands.CreateInvoiceHandler,
	updateInvoiceStatusHandler *commands.UpdateInvoiceStatusHandler,
	getInvoiceHandler *queries.GetInvoiceHandler,
	getReportHandler *queries.GetReportHandler,
) *App {
	return &App{
		CreateInvoiceHandler:       createInvoiceHandler,
		UpdateInvoiceStatusHandler: updateInvoiceStatusHandler,
		GetInvoiceHandler:          getInvoiceHandler,
		GetReportHandler:           getReportHandler,
	}
}

// NewAppFromContainer creates a CLI application backed by container.
func NewAppFromContainer(container *internalApp.Container) *App {
	a := NewApp(
		container.CreateInvoiceHandler,
		container.UpdateInvoiceStatusHandler,
		container.GetInvoiceHandler,
		container.GetReportHandler,
	)
	a.Container = container
	a.TokenIssuer = container.TokenIssuer
	if container.Config != nil {
		a.CurrentUser = container.Config.CLIUser
		a.RecordCreator = container.Config.IsMemory()
	}
	return a
}

// CreatedBy returns the identity to record on new invoices.
func (a *App) CreatedBy() string {
	if !a.RecordCreator {
		return ""
	}
	return a.CurrentUser
}

// SetCurrentUser updates the identity recorded on created invoices.
func (a *App) SetCurrentUser(user string) {
	a.CurrentUser = user
}

// SetTokenIssuer updates the token issuer.
func (a *App) SetTokenIssuer(issuer *token.Issuer) {
	a.TokenIssuer = issuer
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
