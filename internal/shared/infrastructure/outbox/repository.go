package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/database"
)

// Repository persists outbox messages. Save and SaveBatch join the
// transaction in ctx so events commit atomically with the state change.
type Repository interface {
	Save(ctx context.Context, msg *Message) error
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns pending messages whose retry time has passed,
	// oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)

	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeleteOld purges published messages older than the retention window.
	DeleteOld(ctx context.Context, olderThan time.Duration) (int64, error)
}

// NewRepository returns the outbox repository for conn's driver.
func NewRepository(conn database.Connection) (Repository, error) {
	switch conn.Driver() {
	case database.DriverSQLite:
		return NewSQLiteRepository(conn), nil
	case database.DriverPostgres:
		return NewPostgresRepository(conn), nil
	default:
		return nil, fmt.Errorf("outbox: unsupported driver %s", conn.Driver())
	}
}

// saveAll writes msgs in the caller's transaction, or in a new one.
func saveAll(ctx context.Context, conn database.Connection, msgs []*Message, save func(context.Context, *Message) error) error {
	if len(msgs) == 0 {
		return nil
	}

	uow := database.NewUnitOfWork(conn)
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		if err := save(txCtx, msg); err != nil {
			_ = uow.Rollback(txCtx)
			return err
		}
	}
	return uow.Commit(txCtx)
}
