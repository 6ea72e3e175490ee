package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Deployment variants.
const (
	// VariantPersistent stores invoices in SQL with sequential ids and no auth.
	VariantPersistent = "persistent"
	// VariantMemory keeps invoices in process (or Redis) with UUID ids and
	// JWT-protected endpoints.
	VariantMemory = "memory"
)

var (
	ErrUnknownVariant   = errors.New("unknown invoice variant")
	ErrJWTSecretMissing = errors.New("JWT_SECRET is required for the memory variant")
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	Variant  string

	// Database
	DatabaseURL      string
	SQLitePath       string
	DatabaseMaxConns int

	// Redis backs the memory variant when set.
	RedisURL string

	// Auth
	JWTSecret string
	JWTTTL    time.Duration
	JWTIssuer string

	// HTTP
	HTTPAddr            string
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPShutdownTimeout time.Duration

	// RabbitMQ
	RabbitMQURL      string
	RabbitMQExchange string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Worker
	WorkerHealthAddr string

	// MCP
	MCPAddr      string
	MCPAuthToken string

	// CLIUser identifies CLI and MCP callers. The memory variant records
	// it as created_by.
	CLIUser string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Variant:  getEnv("INVOICE_VARIANT", VariantPersistent),

		DatabaseURL:      getEnv("DATABASE_URL", ""),
		SQLitePath:       getEnv("SQLITE_PATH", "database.db"),
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 10),

		RedisURL: getEnv("REDIS_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getDurationEnv("JWT_TTL", 24*time.Hour),
		JWTIssuer: getEnv("JWT_ISSUER", "fakturering"),

		HTTPAddr:            getEnv("HTTP_ADDR", "0.0.0.0:5001"),
		HTTPReadTimeout:     getDurationEnv("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout:    getDurationEnv("HTTP_WRITE_TIMEOUT", 10*time.Second),
		HTTPShutdownTimeout: getDurationEnv("HTTP_SHUTDOWN_TIMEOUT", 15*time.Second),

		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "fakturering.domain.events"),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", time.Second),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 7),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", false),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),

		CLIUser: getEnv("FAKTURERING_USER", "cli"),
	}

	return cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Variant {
	case VariantPersistent:
		return nil
	case VariantMemory:
		if c.JWTSecret == "" {
			return ErrJWTSecretMissing
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, c.Variant)
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// IsMemory reports whether the memory variant is configured.
func (c *Config) IsMemory() bool {
	return c.Variant == VariantMemory
}

// OutboxRetention is the age after which published outbox rows are purged.
func (c *Config) OutboxRetention() time.Duration {
	return time.Duration(c.OutboxRetentionDays) * 24 * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
