package invoice_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
)

func TestNew(t *testing.T) {
	before := time.Now()

	inv := invoice.New(1, 2, 150.0, "2025-01-01", "alice")

	assert.Empty(t, inv.ID)
	assert.Equal(t, int64(1), inv.SubscriptionID)
	assert.Equal(t, int64(2), inv.CustomerID)
	assert.Equal(t, 150.0, inv.Amount)
	assert.Equal(t, "2025-01-01", inv.DueDate)
	assert.Equal(t, invoice.StatusNotPaid, inv.Status)
	assert.Equal(t, "alice", inv.CreatedBy)
	assert.False(t, inv.CreatedAt.Before(before))
	assert.Equal(t, time.UTC, inv.CreatedAt.Location())
	assert.Zero(t, inv.CreatedAt.Nanosecond()%1000)
}

func TestNew_CreatedAtNeverPrecedesCall(t *testing.T) {
	for range 1000 {
		before := time.Now()
		inv := invoice.New(1, 2, 1, "2025-01-01", "")
		require.False(t, inv.CreatedAt.Before(before), "created %s before %s", inv.CreatedAt, before)
		require.Zero(t, inv.CreatedAt.Nanosecond()%1000)
	}
}

func TestInvoice_ChangeStatus(t *testing.T) {
	inv := invoice.New(1, 2, 10, "2025-01-01", "")

	changed, err := inv.ChangeStatus(invoice.StatusPaid)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, invoice.StatusPaid, inv.Status)

	changed, err = inv.ChangeStatus(invoice.StatusPaid)
	require.NoError(t, err)
	assert.False(t, changed, "same status is not a change")

	changed, err = inv.ChangeStatus(invoice.StatusNotPaid)
	require.NoError(t, err)
	assert.True(t, changed, "leaving PAID is allowed")

	_, err = inv.ChangeStatus(invoice.Status(9))
	assert.ErrorIs(t, err, invoice.ErrInvalidStatus)
	assert.Equal(t, invoice.StatusNotPaid, inv.Status)
}

func TestInvoice_Clone(t *testing.T) {
	inv := invoice.New(1, 2, 10, "2025-01-01", "")
	c := inv.Clone()
	c.Status = invoice.StatusOverdue

	assert.Equal(t, invoice.StatusNotPaid, inv.Status)
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    invoice.Status
		wantErr bool
	}{
		{input: "NOT_PAID", want: invoice.StatusNotPaid},
		{input: "PAID", want: invoice.StatusPaid},
		{input: "OVERDUE", want: invoice.StatusOverdue},
		{input: "Ikke betalt", want: invoice.StatusNotPaid},
		{input: "Betalt", want: invoice.StatusPaid},
		{input: "Forfalden", want: invoice.StatusOverdue},
		{input: "paid", wantErr: true},
		{input: " PAID", wantErr: true},
		{input: "not-a-real-status", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := invoice.ParseStatus(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, invoice.ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_Text(t *testing.T) {
	assert.Equal(t, "OVERDUE", invoice.StatusOverdue.String())
	assert.Equal(t, "Forfalden", invoice.StatusOverdue.Label())
	assert.Equal(t, "Status(7)", invoice.Status(7).String())

	data, err := json.Marshal(struct {
		Status invoice.Status `json:"status"`
	}{invoice.StatusPaid})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"PAID"}`, string(data))

	var decoded struct {
		Status invoice.Status `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"Betalt"}`), &decoded))
	assert.Equal(t, invoice.StatusPaid, decoded.Status)

	err = json.Unmarshal([]byte(`{"status":"bogus"}`), &decoded)
	assert.True(t, errors.Is(err, invoice.ErrInvalidStatus))

	_, err = invoice.Status(7).MarshalText()
	assert.ErrorIs(t, err, invoice.ErrInvalidStatus)
}

func TestID_JSON(t *testing.T) {
	data, err := json.Marshal(invoice.NewSequenceID(42))
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))

	data, err = json.Marshal(invoice.ID("0b8e6c1e-2f6a-4f43-9a53-3c0a6f1d9b11"))
	require.NoError(t, err)
	assert.Equal(t, `"0b8e6c1e-2f6a-4f43-9a53-3c0a6f1d9b11"`, string(data))

	var id invoice.ID
	require.NoError(t, json.Unmarshal([]byte(`7`), &id))
	assert.Equal(t, invoice.ID("7"), id)
	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &id))
	assert.Equal(t, invoice.ID("abc"), id)

	n, ok := invoice.ID("abc").Int64()
	assert.False(t, ok)
	assert.Zero(t, n)
}

func TestID_Int64(t *testing.T) {
	n, ok := invoice.ID("17").Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(17), n)

	n, ok = invoice.ID("-3").Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(-3), n)

	for _, raw := range []string{"01", "+1", "0001", "-0", " 1", "1 ", ""} {
		n, ok := invoice.ID(raw).Int64()
		assert.False(t, ok, raw)
		assert.Zero(t, n, raw)
	}

	data, err := json.Marshal(invoice.ID("01"))
	require.NoError(t, err)
	assert.Equal(t, `"01"`, string(data))
}

func TestMissingFieldError(t *testing.T) {
	err := error(&invoice.MissingFieldError{Field: "amount"})

	assert.ErrorIs(t, err, invoice.ErrMissingField)
	assert.Equal(t, "missing required field: amount", err.Error())

	var mf *invoice.MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "amount", mf.Field)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, invoice.Report{}, invoice.Summarize(nil))

	paid := invoice.New(1, 1, 100, "d", "")
	paid.Status = invoice.StatusPaid
	paid2 := invoice.New(1, 1, 25.5, "d", "")
	paid2.Status = invoice.StatusPaid
	overdue := invoice.New(1, 1, 70, "d", "")
	overdue.Status = invoice.StatusOverdue
	unpaid := invoice.New(1, 1, 30, "d", "")

	r := invoice.Summarize([]*invoice.Invoice{paid, paid2, overdue, unpaid})

	assert.Equal(t, invoice.Report{TotalPaid: 125.5, UnpaidCount: 1, OverdueCount: 1, TotalCount: 4}, r)
}

func TestEvents(t *testing.T) {
	inv := invoice.New(3, 4, 99, "2025-02-01", "bob")
	inv.ID = invoice.NewSequenceID(5)

	created := invoice.NewCreated(inv)
	assert.Equal(t, "5", created.AggregateID())
	assert.Equal(t, invoice.AggregateType, created.AggregateType())
	assert.Equal(t, invoice.RoutingKeyCreated, created.RoutingKey())

	payload, err := json.Marshal(created)
	require.NoError(t, err)
	assert.JSONEq(t, `{"invoice_id":5,"subscription_id":3,"customer_id":4,"amount":99,"due_date":"2025-02-01","status":"NOT_PAID","created_by":"bob"}`, string(payload))

	changed := invoice.NewStatusChanged(inv.ID, invoice.StatusNotPaid, invoice.StatusPaid, inv.Amount)
	assert.Equal(t, invoice.RoutingKeyStatusChanged, changed.RoutingKey())
	payload, err = json.Marshal(changed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"invoice_id":5,"from":"NOT_PAID","to":"PAID","amount":99}`, string(payload))
}
