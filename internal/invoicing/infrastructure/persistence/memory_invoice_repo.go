package persistence

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
)

// MemoryInvoiceRepository keeps invoices in a slice owned by the instance.
// Contents are lost when the process exits.
//
// Each method is atomic, but nothing spans calls: two callers that read an
// invoice and then update its status race, and the last write wins.
type MemoryInvoiceRepository struct {
	mu       sync.RWMutex
	invoices []*invoice.Invoice
}

func NewMemoryInvoiceRepository() *MemoryInvoiceRepository {
	return &MemoryInvoiceRepository{}
}

// Create assigns a random UUID and appends a copy of inv.
func (r *MemoryInvoiceRepository) Create(_ context.Context, inv *invoice.Invoice) error {
	inv.ID = invoice.ID(uuid.NewString())

	r.mu.Lock()
	r.invoices = append(r.invoices, inv.Clone())
	r.mu.Unlock()
	return nil
}

func (r *MemoryInvoiceRepository) FindByID(_ context.Context, id invoice.ID) (*invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if inv := r.find(id); inv != nil {
		return inv.Clone(), nil
	}
	return nil, invoice.ErrInvoiceNotFound
}

func (r *MemoryInvoiceRepository) UpdateStatus(_ context.Context, id invoice.ID, status invoice.Status) (*invoice.Invoice, error) {
	if !status.Valid() {
		return nil, invoice.ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	inv := r.find(id)
	if inv == nil {
		return nil, invoice.ErrInvoiceNotFound
	}
	inv.Status = status
	return inv.Clone(), nil
}

func (r *MemoryInvoiceRepository) List(_ context.Context) ([]*invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*invoice.Invoice, len(r.invoices))
	for i, inv := range r.invoices {
		out[i] = inv.Clone()
	}
	return out, nil
}

func (r *MemoryInvoiceRepository) find(id invoice.ID) *invoice.Invoice {
	for _, inv := range r.invoices {
		if inv.ID == id {
			return inv
		}
	}
	return nil
}
