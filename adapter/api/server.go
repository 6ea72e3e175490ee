// Package api serves the invoice operations over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fakturering/pkg/observability"
)

// ServiceName is reported by the index endpoint.
const ServiceName = "Fakturering-Service"

// Server is the HTTP API server.
type Server struct {
	mux     *http.ServeMux
	server  *http.Server
	logger  *slog.Logger
	invoice *InvoiceHandler
	health  *observability.HealthRegistry
	auth    func(http.Handler) http.Handler
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// Verifier protects the invoice routes when set.
	Verifier TokenVerifier
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:5001",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates the API server. health may be nil.
func NewServer(cfg ServerConfig, invoice *InvoiceHandler, health *observability.HealthRegistry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if health == nil {
		health = observability.NewHealthRegistry()
	}

	s := &Server{
		mux:     http.NewServeMux(),
		logger:  logger,
		invoice: invoice,
		health:  health,
		auth:    func(next http.Handler) http.Handler { return next },
	}
	if cfg.Verifier != nil {
		s.auth = RequireBearer(cfg.Verifier, logger)
	}

	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /readyz", s.handleReady)

	s.mux.Handle("POST /create_invoice", s.auth(http.HandlerFunc(s.invoice.Create)))
	s.mux.Handle("GET /get_invoice/{id}", s.auth(http.HandlerFunc(s.invoice.Get)))
	s.mux.Handle("PUT /update_status/{id}", s.auth(http.HandlerFunc(s.invoice.UpdateStatus)))
	s.mux.Handle("GET /report", s.auth(http.HandlerFunc(s.invoice.Report)))
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return observability.RequestLogger(s.logger)(s.mux)
}

type endpoint struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

var endpoints = []endpoint{
	{Path: "/create_invoice", Method: http.MethodPost, Description: "Opret ny faktura"},
	{Path: "/get_invoice/{id}", Method: http.MethodGet, Description: "Hent faktura baseret på FakturaID"},
	{Path: "/update_status/{id}", Method: http.MethodPut, Description: "Opdater fakturastatus"},
	{Path: "/report", Method: http.MethodGet, Description: "Få samlet fakturarapportering"},
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":             ServiceName,
		"available_endpoints": endpoints,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady reports 503 while a critical dependency is unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	health := s.health.Check(r.Context())
	status := http.StatusOK
	if !health.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting invoice API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down invoice API server")
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// writeError writes {"error": <status text>, "message": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":   http.StatusText(status),
		"message": message,
	})
}
