package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/fakturering/adapter/cli"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/application/commands"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/application/queries"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
)

type invoiceCreateInput struct {
	SubscriptionID *int64   `json:"subscription_id" jsonschema:"required"`
	CustomerID     *int64   `json:"customer_id" jsonschema:"required"`
	Amount         *float64 `json:"amount" jsonschema:"required"`
	DueDate        *string  `json:"due_date" jsonschema:"required"`
}

type invoiceIDInput struct {
	InvoiceID string `json:"invoice_id" jsonschema:"required"`
}

type invoiceStatusInput struct {
	InvoiceID string `json:"invoice_id" jsonschema:"required"`
	Status    string `json:"status" jsonschema:"required"`
}

// invoiceTools adapts the invoice handlers to tool inputs.
type invoiceTools struct {
	app *cli.App
}

func registerInvoiceTools(srv *mcp.Server, deps ToolDependencies) error {
	tools := invoiceTools{app: deps.App}

	srv.Tool("invoice.create").
		Description("Create an unpaid invoice for a subscription").
		Handler(tools.create)

	srv.Tool("invoice.get").
		Description("Get an invoice by id").
		Handler(tools.get)

	srv.Tool("invoice.update_status").
		Description("Set an invoice status to NOT_PAID, PAID or OVERDUE").
		Handler(tools.updateStatus)

	srv.Tool("invoice.report").
		Description("Total paid amount and counts of unpaid and overdue invoices").
		Handler(tools.report)

	return nil
}

func (t invoiceTools) create(ctx context.Context, input invoiceCreateInput) (*queries.InvoiceDTO, error) {
	if t.app == nil || t.app.CreateInvoiceHandler == nil {
		return nil, errors.New("invoice creation requires an invoice store")
	}

	inv, err := t.app.CreateInvoiceHandler.Handle(ctx, commands.CreateInvoiceCommand{
		SubscriptionID: input.SubscriptionID,
		CustomerID:     input.CustomerID,
		Amount:         input.Amount,
		DueDate:        input.DueDate,
		CreatedBy:      t.app.CreatedBy(),
	})
	if err != nil {
		return nil, err
	}
	return queries.NewInvoiceDTO(inv), nil
}

func (t invoiceTools) get(ctx context.Context, input invoiceIDInput) (*queries.InvoiceDTO, error) {
	if t.app == nil || t.app.GetInvoiceHandler == nil {
		return nil, errors.New("invoice lookup requires an invoice store")
	}
	if input.InvoiceID == "" {
		return nil, errors.New("invoice_id is required")
	}
	return t.app.GetInvoiceHandler.Handle(ctx, queries.GetInvoiceQuery{
		InvoiceID: invoice.ID(input.InvoiceID),
	})
}

func (t invoiceTools) updateStatus(ctx context.Context, input invoiceStatusInput) (*queries.InvoiceDTO, error) {
	if t.app == nil || t.app.UpdateInvoiceStatusHandler == nil {
		return nil, errors.New("status update requires an invoice store")
	}
	if input.InvoiceID == "" {
		return nil, errors.New("invoice_id is required")
	}

	inv, err := t.app.UpdateInvoiceStatusHandler.Handle(ctx, commands.UpdateInvoiceStatusCommand{
		InvoiceID: invoice.ID(input.InvoiceID),
		Status:    input.Status,
		UserID:    t.app.CurrentUser,
	})
	if err != nil {
		return nil, err
	}
	return queries.NewInvoiceDTO(inv), nil
}

func (t invoiceTools) report(ctx context.Context, input struct{}) (*queries.ReportDTO, error) {
	if t.app == nil || t.app.GetReportHandler == nil {
		return nil, errors.New("report requires an invoice store")
	}
	return t.app.GetReportHandler.Handle(ctx)
}
