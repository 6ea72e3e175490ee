package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/database"
)

// PostgresInvoiceRepository stores invoices in PostgreSQL with BIGSERIAL ids.
type PostgresInvoiceRepository struct {
	conn database.Connection
}

func NewPostgresInvoiceRepository(conn database.Connection) *PostgresInvoiceRepository {
	return &PostgresInvoiceRepository{conn: conn}
}

func (r *PostgresInvoiceRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

func (r *PostgresInvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	var id int64
	err := r.exec(ctx).QueryRow(ctx, `
		INSERT INTO invoices (subscription_id, customer_id, amount, due_date, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		inv.SubscriptionID,
		inv.CustomerID,
		inv.Amount,
		inv.DueDate,
		inv.Status.String(),
		inv.CreatedBy,
		inv.CreatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	inv.ID = invoice.NewSequenceID(id)
	return nil
}

func (r *PostgresInvoiceRepository) FindByID(ctx context.Context, id invoice.ID) (*invoice.Invoice, error) {
	n, ok := id.Int64()
	if !ok {
		return nil, invoice.ErrInvoiceNotFound
	}

	inv, err := scanPostgresInvoice(r.exec(ctx).QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, n))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, invoice.ErrInvoiceNotFound
		}
		return nil, err
	}
	return inv, nil
}

// UpdateStatus writes and reads back in one statement.
func (r *PostgresInvoiceRepository) UpdateStatus(ctx context.Context, id invoice.ID, status invoice.Status) (*invoice.Invoice, error) {
	if !status.Valid() {
		return nil, invoice.ErrInvalidStatus
	}
	n, ok := id.Int64()
	if !ok {
		return nil, invoice.ErrInvoiceNotFound
	}

	inv, err := scanPostgresInvoice(r.exec(ctx).QueryRow(ctx,
		`UPDATE invoices SET status = $1 WHERE id = $2 RETURNING `+invoiceColumns, status.String(), n))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, invoice.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("update invoice status: %w", err)
	}
	return inv, nil
}

func (r *PostgresInvoiceRepository) List(ctx context.Context) ([]*invoice.Invoice, error) {
	rows, err := r.exec(ctx).Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*invoice.Invoice
	for rows.Next() {
		inv, err := scanPostgresInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *PostgresInvoiceRepository) Report(ctx context.Context) (invoice.Report, error) {
	var (
		rep                    invoice.Report
		unpaid, overdue, total int64
	)
	err := r.exec(ctx).QueryRow(ctx, reportQuery).Scan(&rep.TotalPaid, &unpaid, &overdue, &total)
	if err != nil {
		return invoice.Report{}, err
	}
	rep.UnpaidCount = int(unpaid)
	rep.OverdueCount = int(overdue)
	rep.TotalCount = int(total)
	return rep, nil
}

func scanPostgresInvoice(row database.Row) (*invoice.Invoice, error) {
	var (
		id        int64
		status    string
		createdAt time.Time
		inv       invoice.Invoice
	)
	if err := row.Scan(
		&id,
		&inv.SubscriptionID,
		&inv.CustomerID,
		&inv.Amount,
		&inv.DueDate,
		&status,
		&inv.CreatedBy,
		&createdAt,
	); err != nil {
		return nil, err
	}

	var err error
	inv.ID = invoice.NewSequenceID(id)
	if inv.Status, err = invoice.ParseStatus(status); err != nil {
		return nil, err
	}
	inv.CreatedAt = createdAt.UTC()
	return &inv, nil
}
