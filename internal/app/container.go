// Package app wires configuration, storage and handlers into a Container.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/fakturering/internal/identity/token"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/application/commands"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/application/queries"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/infrastructure/persistence"
	sharedApplication "github.com/felixgeelhaar/fakturering/internal/shared/application"
	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/fakturering/pkg/config"
	"github.com/felixgeelhaar/fakturering/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database, nil for the memory variant.
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis, set when the memory variant is shared through Redis.
	RedisClient *redis.Client

	InvoiceRepo invoice.Repository
	// OutboxRepo is nil when the store cannot join a transaction with it.
	OutboxRepo  outbox.Repository
	UnitOfWork  sharedApplication.UnitOfWork

	// TokenIssuer is nil unless JWT_SECRET is configured.
	TokenIssuer *token.Issuer
	Health      *observability.HealthRegistry

	// Invoice handlers
	CreateInvoiceHandler       *commands.CreateInvoiceHandler
	UpdateInvoiceStatusHandler *commands.UpdateInvoiceStatusHandler
	GetInvoiceHandler          *queries.GetInvoiceHandler
	GetReportHandler           *queries.GetReportHandler

	// OutboxProcessor is set by StartOutboxProcessor.
	OutboxProcessor *outbox.Processor
	EventPublisher  eventbus.Publisher
}

// NewContainer creates and wires all dependencies for the configured variant.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		Health: observability.NewHealthRegistry(),
	}

	var err error
	if cfg.IsMemory() {
		err = c.initMemoryStore(ctx)
	} else {
		err = c.initSQLStore(ctx)
	}
	if err != nil {
		c.Close()
		return nil, err
	}

	if cfg.JWTSecret != "" {
		c.TokenIssuer, err = token.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to create token issuer: %w", err)
		}
	}

	c.CreateInvoiceHandler = commands.NewCreateInvoiceHandler(c.InvoiceRepo, c.OutboxRepo, c.UnitOfWork)
	c.UpdateInvoiceStatusHandler = commands.NewUpdateInvoiceStatusHandler(c.InvoiceRepo, c.OutboxRepo, c.UnitOfWork)
	c.GetInvoiceHandler = queries.NewGetInvoiceHandler(c.InvoiceRepo)
	c.GetReportHandler = queries.NewGetReportHandler(c.InvoiceRepo)

	logger.Info("container ready",
		"variant", cfg.Variant,
		"store", c.StoreName(),
		"outbox", c.OutboxRepo != nil,
	)
	return c, nil
}

// OpenDatabase connects to the configured SQL backend. DATABASE_URL wins
// over SQLITE_PATH.
func OpenDatabase(ctx context.Context, cfg *config.Config) (database.Connection, error) {
	dbCfg := database.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
	}
	if cfg.DatabaseURL == "" {
		dbCfg.SQLitePath = cfg.SQLitePath
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}

func (c *Container) initSQLStore(ctx context.Context) error {
	conn, err := OpenDatabase(ctx, c.Config)
	if err != nil {
		return err
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Logger.Info("connected to database", "driver", c.DBDriver)

	applied, err := migrations.Run(ctx, conn)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		c.Logger.Info("applied migrations", "files", applied)
	}

	factory := NewRepositoryFactory(conn)
	if c.InvoiceRepo, err = factory.InvoiceRepository(); err != nil {
		return err
	}
	if c.OutboxRepo, err = factory.OutboxRepository(); err != nil {
		return err
	}
	c.UnitOfWork = factory.UnitOfWork()

	c.Health.Register("database", observability.PingChecker("database", observability.HealthStatusUnhealthy, conn.Ping))
	return nil
}

func (c *Container) initMemoryStore(ctx context.Context) error {
	c.UnitOfWork = sharedApplication.NoopUnitOfWork{}

	if c.Config.RedisURL == "" {
		c.InvoiceRepo = persistence.NewMemoryInvoiceRepository()
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	c.RedisClient = client
	c.Logger.Info("connected to Redis")

	c.InvoiceRepo = persistence.NewRedisInvoiceRepository(client, persistence.DefaultRedisKeyPrefix)
	c.Health.Register("redis", observability.PingChecker("redis", observability.HealthStatusUnhealthy,
		func(ctx context.Context) error { return client.Ping(ctx).Err() }))
	return nil
}

// StoreName names the backing store for logs.
func (c *Container) StoreName() string {
	switch {
	case c.DBConn != nil:
		return c.DBDriver.String()
	case c.RedisClient != nil:
		return "redis"
	default:
		return "memory"
	}
}

// NewEventPublisher connects to RabbitMQ behind a circuit breaker. Without
// RABBITMQ_URL, or when the broker is down in development, events are
// dropped by a noop publisher.
func (c *Container) NewEventPublisher() (eventbus.Publisher, error) {
	if c.Config.RabbitMQURL == "" {
		c.Logger.Warn("RABBITMQ_URL not set, using noop publisher")
		return eventbus.NewNoopPublisher(c.Logger), nil
	}

	rabbit, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Config.RabbitMQExchange, c.Logger)
	if err != nil {
		if c.Config.IsDevelopment() {
			c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
			return eventbus.NewNoopPublisher(c.Logger), nil
		}
		return nil, err
	}

	breaker := eventbus.NewBreakerPublisher(rabbit, eventbus.DefaultBreakerConfig(), c.Logger)
	c.Health.Register("rabbitmq", func(context.Context) observability.HealthCheckResult {
		if state := breaker.State(); state != "closed" {
			return observability.HealthCheckResult{
				Status:  observability.HealthStatusDegraded,
				Message: "publisher circuit " + state,
			}
		}
		return observability.HealthCheckResult{Status: observability.HealthStatusHealthy}
	})
	return breaker, nil
}

// ProcessorConfig maps the outbox settings. Unset values keep the defaults.
func (c *Container) ProcessorConfig() outbox.ProcessorConfig {
	pc := outbox.DefaultProcessorConfig()
	if c.Config.OutboxPollInterval > 0 {
		pc.PollInterval = c.Config.OutboxPollInterval
	}
	if c.Config.OutboxBatchSize > 0 {
		pc.BatchSize = c.Config.OutboxBatchSize
	}
	if c.Config.OutboxMaxRetries > 0 {
		pc.MaxRetries = c.Config.OutboxMaxRetries
	}
	if c.Config.OutboxRetentionDays > 0 {
		pc.RetentionPeriod = c.Config.OutboxRetention()
	}
	if c.Config.OutboxCleanupInterval > 0 {
		pc.CleanupInterval = c.Config.OutboxCleanupInterval
	}
	return pc
}

// StartOutboxProcessor relays outbox rows until ctx ends or Close is called.
func (c *Container) StartOutboxProcessor(ctx context.Context) (*outbox.Processor, error) {
	if c.OutboxRepo == nil {
		return nil, fmt.Errorf("the %s store has no outbox", c.StoreName())
	}

	publisher, err := c.NewEventPublisher()
	if err != nil {
		return nil, err
	}
	c.EventPublisher = publisher

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, publisher, c.ProcessorConfig(), c.Logger)
	c.OutboxProcessor.Start(ctx)
	return c.OutboxProcessor, nil
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}
}
