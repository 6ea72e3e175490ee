package queries

import (
	"time"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
)

// InvoiceDTO is the wire shape of an invoice. SQL-issued ids encode as
// JSON numbers and UUIDs as strings.
type InvoiceDTO struct {
	ID             invoice.ID `json:"id"`
	SubscriptionID int64      `json:"subscription_id"`
	CustomerID     int64      `json:"customer_id"`
	Amount         float64    `json:"amount"`
	DueDate        string     `json:"due_date"`
	Status         string     `json:"status"`
	StatusLabel    string     `json:"status_label"`
	CreatedBy      string     `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewInvoiceDTO maps a domain invoice to its DTO.
func NewInvoiceDTO(inv *invoice.Invoice) *InvoiceDTO {
	return &InvoiceDTO{
		ID:             inv.ID,
		SubscriptionID: inv.SubscriptionID,
		CustomerID:     inv.CustomerID,
		Amount:         inv.Amount,
		DueDate:        inv.DueDate,
		Status:         inv.Status.String(),
		StatusLabel:    inv.Status.Label(),
		CreatedBy:      inv.CreatedBy,
		CreatedAt:      inv.CreatedAt,
	}
}

type ReportDTO struct {
	TotalPaid    float64 `json:"total_paid"`
	UnpaidCount  int     `json:"unpaid_count"`
	OverdueCount int     `json:"overdue_count"`
	TotalCount   int     `json:"total_count"`
}
