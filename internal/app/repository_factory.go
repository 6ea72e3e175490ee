package app

import (
	"fmt"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
	"github.com/felixgeelhaar/fakturering/internal/invoicing/infrastructure/persistence"
	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/outbox"
)

// RepositoryFactory creates SQL repositories for the connection's driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// InvoiceRepository creates an invoice repository for the configured driver.
func (f *RepositoryFactory) InvoiceRepository() (invoice.Repository, error) {
	switch f.driver {
	case database.DriverPostgres:
		return persistence.NewPostgresInvoiceRepository(f.conn), nil
	case database.DriverSQLite:
		return persistence.NewSQLiteInvoiceRepository(f.conn), nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}

// OutboxRepository creates the outbox repository sharing the connection.
func (f *RepositoryFactory) OutboxRepository() (outbox.Repository, error) {
	return outbox.NewRepository(f.conn)
}

// UnitOfWork returns a unit of work over the connection.
func (f *RepositoryFactory) UnitOfWork() *database.UnitOfWork {
	return database.NewUnitOfWork(f.conn)
}
