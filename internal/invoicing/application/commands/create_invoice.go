package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
	sharedApplication "github.com/felixgeelhaar/fakturering/internal/shared/application"
	"github.com/felixgeelhaar/fakturering/internal/shared/domain"
	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/outbox"
)

// CreateInvoiceCommand carries the caller's input. Nil fields were absent
// from the request.
type CreateInvoiceCommand struct {
	SubscriptionID *int64
	CustomerID     *int64
	Amount         *float64
	DueDate        *string

	// CreatedBy is the authenticated caller, empty when auth is off.
	CreatedBy     string
	CorrelationID uuid.UUID
}

// Validate returns a *invoice.MissingFieldError for the first absent field.
func (c CreateInvoiceCommand) Validate() error {
	switch {
	case c.SubscriptionID == nil:
		return &invoice.MissingFieldError{Field: "subscription_id"}
	case c.CustomerID == nil:
		return &invoice.MissingFieldError{Field: "customer_id"}
	case c.Amount == nil:
		return &invoice.MissingFieldError{Field: "amount"}
	case c.DueDate == nil:
		return &invoice.MissingFieldError{Field: "due_date"}
	}
	return nil
}

type CreateInvoiceHandler struct {
	repo       invoice.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCreateInvoiceHandler wires the handler. outboxRepo may be nil for
// stores that do not publish events.
func NewCreateInvoiceHandler(repo invoice.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateInvoiceHandler {
	if uow == nil {
		uow = sharedApplication.NoopUnitOfWork{}
	}
	return &CreateInvoiceHandler{repo: repo, outboxRepo: outboxRepo, uow: uow}
}

// Handle stores a new NOT_PAID invoice and returns it with its id.
func (h *CreateInvoiceHandler) Handle(ctx context.Context, cmd CreateInvoiceCommand) (*invoice.Invoice, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	inv := invoice.New(*cmd.SubscriptionID, *cmd.CustomerID, *cmd.Amount, *cmd.DueDate, cmd.CreatedBy)

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.repo.Create(txCtx, inv); err != nil {
			return err
		}

		metadata := sharedApplication.NewEventMetadata(cmd.CreatedBy, cmd.CorrelationID)
		return recordEvents(txCtx, h.outboxRepo, metadata, invoice.NewCreated(inv))
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// recordEvents writes events to the outbox inside the caller's unit of work.
func recordEvents(ctx context.Context, repo outbox.Repository, metadata domain.EventMetadata, events ...domain.DomainEvent) error {
	if repo == nil || len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, metadata)

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	return repo.SaveBatch(ctx, msgs)
}
