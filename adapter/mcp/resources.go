package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterResources registers MCP resources that expose invoice data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Resource("fakturering://report").
		Name("Invoice report").
		Description("Total paid amount and counts of unpaid and overdue invoices").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if app == nil || app.GetReportHandler == nil {
				return nil, fmt.Errorf("report requires an invoice store")
			}
			report, err := app.GetReportHandler.Handle(ctx)
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, report)
		})

	srv.Resource("fakturering://statuses").
		Name("Invoice statuses").
		Description("Status codes accepted by invoice.update_status").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return jsonResource(uri, statuses())
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
