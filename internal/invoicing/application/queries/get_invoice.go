package queries

import (
	"context"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
)

type GetInvoiceQuery struct {
	InvoiceID invoice.ID
}

// GetInvoiceHandler handles the GetInvoiceQuery.
type GetInvoiceHandler struct {
	repo invoice.Repository
}

func NewGetInvoiceHandler(repo invoice.Repository) *GetInvoiceHandler {
	return &GetInvoiceHandler{repo: repo}
}

// Handle returns invoice.ErrInvoiceNotFound for unknown ids.
func (h *GetInvoiceHandler) Handle(ctx context.Context, query GetInvoiceQuery) (*InvoiceDTO, error) {
	inv, err := h.repo.FindByID(ctx, query.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, invoice.ErrInvoiceNotFound
	}
	return NewInvoiceDTO(inv), nil
}
