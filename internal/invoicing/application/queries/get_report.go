package queries

import (
	"context"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
)

// GetReportHandler aggregates all invoices. Stores implementing
// invoice.Reporter aggregate in place; others are listed and summarized.
type GetReportHandler struct {
	repo invoice.Repository
}

func NewGetReportHandler(repo invoice.Repository) *GetReportHandler {
	return &GetReportHandler{repo: repo}
}

func (h *GetReportHandler) Handle(ctx context.Context) (*ReportDTO, error) {
	var report invoice.Report

	if reporter, ok := h.repo.(invoice.Reporter); ok {
		r, err := reporter.Report(ctx)
		if err != nil {
			return nil, err
		}
		report = r
	} else {
		invoices, err := h.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		report = invoice.Summarize(invoices)
	}

	return &ReportDTO{
		TotalPaid:    report.TotalPaid,
		UnpaidCount:  report.UnpaidCount,
		OverdueCount: report.OverdueCount,
		TotalCount:   report.TotalCount,
	}, nil
}
