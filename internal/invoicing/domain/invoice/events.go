package invoice

import "github.com/felixgeelhaar/fakturering/internal/shared/domain"

const (
	AggregateType = "Invoice"

	RoutingKeyCreated       = "invoicing.invoice.created"
	RoutingKeyStatusChanged = "invoicing.invoice.status_changed"
)

// Created is emitted after an invoice is stored.
type Created struct {
	domain.BaseEvent
	InvoiceID      ID      `json:"invoice_id"`
	SubscriptionID int64   `json:"subscription_id"`
	CustomerID     int64   `json:"customer_id"`
	Amount         float64 `json:"amount"`
	DueDate        string  `json:"due_date"`
	Status         Status  `json:"status"`
	CreatedBy      string  `json:"created_by,omitempty"`
}

func NewCreated(inv *Invoice) *Created {
	return &Created{
		BaseEvent:      domain.NewBaseEvent(inv.ID.String(), AggregateType, RoutingKeyCreated),
		InvoiceID:      inv.ID,
		SubscriptionID: inv.SubscriptionID,
		CustomerID:     inv.CustomerID,
		Amount:         inv.Amount,
		DueDate:        inv.DueDate,
		Status:         inv.Status,
		CreatedBy:      inv.CreatedBy,
	}
}

// StatusChanged is emitted when an update actually changes the status.
type StatusChanged struct {
	domain.BaseEvent
	InvoiceID ID      `json:"invoice_id"`
	From      Status  `json:"from"`
	To        Status  `json:"to"`
	Amount    float64 `json:"amount"`
}

func NewStatusChanged(id ID, from, to Status, amount float64) *StatusChanged {
	return &StatusChanged{
		BaseEvent: domain.NewBaseEvent(id.String(), AggregateType, RoutingKeyStatusChanged),
		InvoiceID: id,
		From:      from,
		To:        to,
		Amount:    amount,
	}
}
