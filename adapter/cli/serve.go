package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/fakturering/adapter/api"
	internalApp "github.com/felixgeelhaar/fakturering/internal/app"
)

var (
	serveAddr   string
	serveOutbox bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the invoice HTTP API",
	Long: `Start the invoice HTTP API and block until interrupted.

The memory variant requires a bearer token from "fakturering token" on every
invoice route.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Container == nil {
			return ErrNotInitialized
		}
		container := app.Container
		cfg := container.Config
		ctx := cmd.Context()

		if serveOutbox || cfg.OutboxProcessorEnabled {
			if _, err := container.StartOutboxProcessor(ctx); err != nil {
				container.Logger.Warn("outbox processor not started", "error", err)
			}
		}

		server := NewAPIServer(container, serveAddr)
		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

// NewAPIServer builds the HTTP API for container. A non-empty addr
// overrides HTTP_ADDR.
func NewAPIServer(container *internalApp.Container, addr string) *api.Server {
	cfg := container.Config
	handler := api.NewInvoiceHandler(api.InvoiceHandlerConfig{
		Create:       container.CreateInvoiceHandler,
		UpdateStatus: container.UpdateInvoiceStatusHandler,
		GetInvoice:   container.GetInvoiceHandler,
		GetReport:    container.GetReportHandler,
		StrictCreate: cfg.IsMemory(),
		Logger:       container.Logger,
	})

	serverCfg := api.DefaultServerConfig()
	if cfg.HTTPAddr != "" {
		serverCfg.Addr = cfg.HTTPAddr
	}
	if addr != "" {
		serverCfg.Addr = addr
	}
	if cfg.HTTPReadTimeout > 0 {
		serverCfg.ReadTimeout = cfg.HTTPReadTimeout
	}
	if cfg.HTTPWriteTimeout > 0 {
		serverCfg.WriteTimeout = cfg.HTTPWriteTimeout
	}
	if cfg.IsMemory() && container.TokenIssuer != nil {
		serverCfg.Verifier = container.TokenIssuer
	}

	return api.NewServer(serverCfg, handler, container.Health, container.Logger)
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&serveOutbox, "outbox", false, "relay outbox events to RabbitMQ in this process")
	rootCmd.AddCommand(serveCmd)
}
