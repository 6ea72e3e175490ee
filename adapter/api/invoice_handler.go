package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/application/commands"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/application/queries"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
	"github.com/felixgeelhaar/fakturering/pkg/observability"
)

const (
	msgGeneric     = "An error occurred"
	msgNotFound    = "Invoice not found"
	msgInvalidBody = "Request body must be a JSON object"
	maxBodyBytes   = 1 << 20
)

// InvoiceHandler serves the invoice operations.
type InvoiceHandler struct {
	create       *commands.CreateInvoiceHandler
	updateStatus *commands.UpdateInvoiceStatusHandler
	getInvoice   *queries.GetInvoiceHandler
	getReport    *queries.GetReportHandler
	strictCreate bool
	logger       *slog.Logger
}

// InvoiceHandlerConfig holds dependencies for the invoice handler.
type InvoiceHandlerConfig struct {
	Create       *commands.CreateInvoiceHandler
	UpdateStatus *commands.UpdateInvoiceStatusHandler
	GetInvoice   *queries.GetInvoiceHandler
	GetReport    *queries.GetReportHandler

	// StrictCreate reports malformed or incomplete create requests as 400
	// naming the problem. Otherwise every create failure is a generic 500.
	StrictCreate bool
	Logger       *slog.Logger
}

func NewInvoiceHandler(cfg InvoiceHandlerConfig) *InvoiceHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &InvoiceHandler{
		create:       cfg.Create,
		updateStatus: cfg.UpdateStatus,
		getInvoice:   cfg.GetInvoice,
		getReport:    cfg.GetReport,
		strictCreate: cfg.StrictCreate,
		logger:       cfg.Logger,
	}
}

// createInvoiceRequest accepts the English keys and their Danish aliases.
type createInvoiceRequest struct {
	SubscriptionID *int64   `json:"subscription_id"`
	CustomerID     *int64   `json:"customer_id"`
	Amount         *float64 `json:"amount"`
	DueDate        *string  `json:"due_date"`

	AbonnementsID *int64   `json:"abonnements_id"`
	KundeID       *int64   `json:"kunde_id"`
	Beloeb        *float64 `json:"beloeb"`
	Betalingsdato *string  `json:"betalingsdato"`
}

func (req createInvoiceRequest) command() commands.CreateInvoiceCommand {
	return commands.CreateInvoiceCommand{
		SubscriptionID: firstNonNil(req.SubscriptionID, req.AbonnementsID),
		CustomerID:     firstNonNil(req.CustomerID, req.KundeID),
		Amount:         firstNonNil(req.Amount, req.Beloeb),
		DueDate:        firstNonNil(req.DueDate, req.Betalingsdato),
	}
}

func firstNonNil[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// Create handles POST /create_invoice
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := decodeBody(w, r, &req); err != nil {
		if !h.strictCreate {
			h.logger.ErrorContext(r.Context(), "failed to decode invoice", "error", err)
			writeError(w, http.StatusInternalServerError, msgGeneric)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	cmd := req.command()
	cmd.CreatedBy = observability.UserIDFromContext(r.Context())
	cmd.CorrelationID = observability.CorrelationUUID(r.Context())

	inv, err := h.create.Handle(r.Context(), cmd)
	if err != nil {
		h.writeFailure(w, r, "create invoice", err)
		return
	}

	h.logger.InfoContext(r.Context(), "invoice created", "invoice_id", inv.ID.String())
	writeJSON(w, http.StatusCreated, queries.NewInvoiceDTO(inv))
}

// Get handles GET /get_invoice/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	dto, err := h.getInvoice.Handle(r.Context(), queries.GetInvoiceQuery{
		InvoiceID: invoice.ID(r.PathValue("id")),
	})
	if err != nil {
		h.writeFailure(w, r, "get invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// UpdateStatus handles PUT /update_status/{id}
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	inv, err := h.updateStatus.Handle(r.Context(), commands.UpdateInvoiceStatusCommand{
		InvoiceID:     invoice.ID(r.PathValue("id")),
		Status:        req.Status,
		UserID:        observability.UserIDFromContext(r.Context()),
		CorrelationID: observability.CorrelationUUID(r.Context()),
	})
	if err != nil {
		h.writeFailure(w, r, "update invoice status", err)
		return
	}
	writeJSON(w, http.StatusOK, queries.NewInvoiceDTO(inv))
}

// Report handles GET /report
func (h *InvoiceHandler) Report(w http.ResponseWriter, r *http.Request) {
	dto, err := h.getReport.Handle(r.Context())
	if err != nil {
		h.writeFailure(w, r, "build report", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// writeFailure maps an operation error to its response. Unexpected errors
// are logged and reported without detail.
func (h *InvoiceHandler) writeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	var missing *invoice.MissingFieldError
	switch {
	case errors.Is(err, invoice.ErrInvoiceNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, invoice.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, invalidStatusMessage())
	case errors.As(err, &missing) && h.strictCreate:
		writeError(w, http.StatusBadRequest, "Missing required field: "+missing.Field)
	default:
		h.logger.ErrorContext(r.Context(), "failed to "+op, "error", err)
		writeError(w, http.StatusInternalServerError, msgGeneric)
	}
}

func invalidStatusMessage() string {
	codes := make([]string, len(invoice.Statuses))
	for i, s := range invoice.Statuses {
		codes[i] = s.String()
	}
	return "Invalid status, expected one of " + strings.Join(codes, ", ")
}

var errTrailingData = errors.New("unexpected data after JSON body")

// decodeBody reads exactly one JSON value from the request body.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}
