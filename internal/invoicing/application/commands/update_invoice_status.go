package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
	sharedApplication "github.com/felixgeelhaar/fakturering/internal/shared/application"
	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/outbox"
)

type UpdateInvoiceStatusCommand struct {
	InvoiceID invoice.ID
	// Status is the raw value from the request, validated by the handler.
	Status        string
	UserID        string
	CorrelationID uuid.UUID
}

type UpdateInvoiceStatusHandler struct {
	repo       invoice.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewUpdateInvoiceStatusHandler(repo invoice.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateInvoiceStatusHandler {
	if uow == nil {
		uow = sharedApplication.NoopUnitOfWork{}
	}
	return &UpdateInvoiceStatusHandler{repo: repo, outboxRepo: outboxRepo, uow: uow}
}

// Handle validates the status before any lookup, so an invalid value on an
// unknown id reports ErrInvalidStatus. Setting the current status again
// writes nothing and emits no event.
func (h *UpdateInvoiceStatusHandler) Handle(ctx context.Context, cmd UpdateInvoiceStatusCommand) (*invoice.Invoice, error) {
	status, err := invoice.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	var result *invoice.Invoice
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		current, err := h.repo.FindByID(txCtx, cmd.InvoiceID)
		if err != nil {
			return err
		}

		previous := current.Status
		changed, err := current.ChangeStatus(status)
		if err != nil {
			return err
		}
		if !changed {
			result = current
			return nil
		}

		updated, err := h.repo.UpdateStatus(txCtx, cmd.InvoiceID, status)
		if err != nil {
			return err
		}
		result = updated

		metadata := sharedApplication.NewEventMetadata(cmd.UserID, cmd.CorrelationID)
		return recordEvents(txCtx, h.outboxRepo, metadata,
			invoice.NewStatusChanged(updated.ID, previous, updated.Status, updated.Amount))
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
