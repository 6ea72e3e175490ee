package queries

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
)

// mockInvoiceRepo is a mock implementation of invoice.Repository.
type mockInvoiceRepo struct {
	mock.Mock
}

func (m *mockInvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *mockInvoiceRepo) FindByID(ctx context.Context, id invoice.ID) (*invoice.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) UpdateStatus(ctx context.Context, id invoice.ID, status invoice.Status) (*invoice.Invoice, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) List(ctx context.Context) ([]*invoice.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*invoice.Invoice), args.Error(1)
}

// mockReportingRepo also implements invoice.Reporter.
type mockReportingRepo struct {
	mockInvoiceRepo
}

func (m *mockReportingRepo) Report(ctx context.Context) (invoice.Report, error) {
	args := m.Called(ctx)
	return args.Get(0).(invoice.Report), args.Error(1)
}

func newInvoice(id string, amount float64, status invoice.Status) *invoice.Invoice {
	inv := invoice.New(10, 20, amount, "2024-06-30", "bob")
	inv.ID = invoice.ID(id)
	inv.Status = status
	return inv
}

func TestGetInvoiceHandler_Handle(t *testing.T) {
	repo := new(mockInvoiceRepo)
	ctx := context.Background()
	inv := newInvoice("3", 50, invoice.StatusOverdue)
	repo.On("FindByID", ctx, invoice.ID("3")).Return(inv, nil)

	dto, err := NewGetInvoiceHandler(repo).Handle(ctx, GetInvoiceQuery{InvoiceID: "3"})

	require.NoError(t, err)
	assert.Equal(t, invoice.ID("3"), dto.ID)
	assert.Equal(t, int64(10), dto.SubscriptionID)
	assert.Equal(t, int64(20), dto.CustomerID)
	assert.Equal(t, 50.0, dto.Amount)
	assert.Equal(t, "2024-06-30", dto.DueDate)
	assert.Equal(t, "OVERDUE", dto.Status)
	assert.Equal(t, invoice.StatusOverdue.Label(), dto.StatusLabel)
	assert.Equal(t, "bob", dto.CreatedBy)
	assert.Equal(t, inv.CreatedAt, dto.CreatedAt)
}

func TestGetInvoiceHandler_NotFound(t *testing.T) {
	repo := new(mockInvoiceRepo)
	ctx := context.Background()
	repo.On("FindByID", ctx, invoice.ID("99")).Return(nil, invoice.ErrInvoiceNotFound)

	_, err := NewGetInvoiceHandler(repo).Handle(ctx, GetInvoiceQuery{InvoiceID: "99"})

	assert.ErrorIs(t, err, invoice.ErrInvoiceNotFound)
}

func TestInvoiceDTO_JSON(t *testing.T) {
	inv := newInvoice("12", 10, invoice.StatusNotPaid)
	inv.CreatedBy = ""
	inv.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	data, err := json.Marshal(NewInvoiceDTO(inv))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": 12,
		"subscription_id": 10,
		"customer_id": 20,
		"amount": 10,
		"due_date": "2024-06-30",
		"status": "NOT_PAID",
		"status_label": "`+invoice.StatusNotPaid.Label()+`",
		"created_at": "2024-01-02T03:04:05Z"
	}`, string(data))
}

func TestGetReportHandler_Summarizes(t *testing.T) {
	repo := new(mockInvoiceRepo)
	ctx := context.Background()
	repo.On("List", ctx).Return([]*invoice.Invoice{
		newInvoice("1", 100, invoice.StatusPaid),
		newInvoice("2", 50.5, invoice.StatusPaid),
		newInvoice("3", 20, invoice.StatusNotPaid),
		newInvoice("4", 30, invoice.StatusOverdue),
	}, nil)

	dto, err := NewGetReportHandler(repo).Handle(ctx)

	require.NoError(t, err)
	assert.Equal(t, &ReportDTO{TotalPaid: 150.5, UnpaidCount: 1, OverdueCount: 1, TotalCount: 4}, dto)
}

func TestGetReportHandler_Empty(t *testing.T) {
	repo := new(mockInvoiceRepo)
	ctx := context.Background()
	repo.On("List", ctx).Return([]*invoice.Invoice{}, nil)

	dto, err := NewGetReportHandler(repo).Handle(ctx)

	require.NoError(t, err)
	assert.Equal(t, &ReportDTO{}, dto)

	data, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_paid":0,"unpaid_count":0,"overdue_count":0,"total_count":0}`, string(data))
}

func TestGetReportHandler_UsesReporter(t *testing.T) {
	repo := new(mockReportingRepo)
	ctx := context.Background()
	repo.On("Report", ctx).Return(invoice.Report{TotalPaid: 7, UnpaidCount: 2, TotalCount: 3}, nil)

	dto, err := NewGetReportHandler(repo).Handle(ctx)

	require.NoError(t, err)
	assert.Equal(t, 7.0, dto.TotalPaid)
	assert.Equal(t, 3, dto.TotalCount)
	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestGetReportHandler_Error(t *testing.T) {
	repo := new(mockInvoiceRepo)
	ctx := context.Background()
	listErr := errors.New("connection reset")
	repo.On("List", ctx).Return(nil, listErr)

	_, err := NewGetReportHandler(repo).Handle(ctx)

	assert.ErrorIs(t, err, listErr)
}
