package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
)

type statusInfo struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("service.health").
		Description("Check that the invoice store is reachable").
		Handler(func(ctx context.Context, input struct{}) (map[string]any, error) {
			if app == nil || app.Container == nil {
				return nil, errors.New("app not initialized")
			}
			health := app.Container.Health.Check(ctx)
			return map[string]any{
				"status": health.Status,
				"store":  app.Container.StoreName(),
				"checks": health.Checks,
			}, nil
		})

	srv.Tool("invoice.statuses").
		Description("List the invoice status codes and their Danish labels").
		Handler(func(ctx context.Context, input struct{}) ([]statusInfo, error) {
			return statuses(), nil
		})

	return nil
}

func statuses() []statusInfo {
	out := make([]statusInfo, len(invoice.Statuses))
	for i, s := range invoice.Statuses {
		out[i] = statusInfo{Code: s.String(), Label: s.Label()}
	}
	return out
}
