package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fakturering/internal/invoicing/domain/invoice"
	"github.com/felixgeelhaar/fakturering/internal/shared/infrastructure/database"
)

const invoiceColumns = `id, subscription_id, customer_id, amount, due_date, status, created_by, created_at`

// reportQuery aggregates in one pass. SUM over zero rows is NULL, hence COALESCE.
const reportQuery = `
	SELECT
		COALESCE(SUM(CASE WHEN status = 'PAID' THEN amount END), 0),
		COALESCE(SUM(CASE WHEN status = 'NOT_PAID' THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = 'OVERDUE' THEN 1 ELSE 0 END), 0),
		COUNT(*)
	FROM invoices
`

// SQLiteInvoiceRepository stores invoices in SQLite with sequential ids.
type SQLiteInvoiceRepository struct {
	conn database.Connection
}

func NewSQLiteInvoiceRepository(conn database.Connection) *SQLiteInvoiceRepository {
	return &SQLiteInvoiceRepository{conn: conn}
}

func (r *SQLiteInvoiceRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Create inserts inv and sets inv.ID from the rowid.
func (r *SQLiteInvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	result, err := r.exec(ctx).Exec(ctx, `
		INSERT INTO invoices (subscription_id, customer_id, amount, due_date, status, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		inv.SubscriptionID,
		inv.CustomerID,
		inv.Amount,
		inv.DueDate,
		inv.Status.String(),
		inv.CreatedBy,
		inv.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	inv.ID = invoice.NewSequenceID(id)
	return nil
}

func (r *SQLiteInvoiceRepository) FindByID(ctx context.Context, id invoice.ID) (*invoice.Invoice, error) {
	n, ok := id.Int64()
	if !ok {
		return nil, invoice.ErrInvoiceNotFound
	}

	row := r.exec(ctx).QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, n)
	inv, err := scanSQLiteInvoice(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, invoice.ErrInvoiceNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *SQLiteInvoiceRepository) UpdateStatus(ctx context.Context, id invoice.ID, status invoice.Status) (*invoice.Invoice, error) {
	if !status.Valid() {
		return nil, invoice.ErrInvalidStatus
	}
	n, ok := id.Int64()
	if !ok {
		return nil, invoice.ErrInvoiceNotFound
	}

	result, err := r.exec(ctx).Exec(ctx, `UPDATE invoices SET status = ? WHERE id = ?`, status.String(), n)
	if err != nil {
		return nil, fmt.Errorf("update invoice status: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, err
	} else if affected == 0 {
		return nil, invoice.ErrInvoiceNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *SQLiteInvoiceRepository) List(ctx context.Context) ([]*invoice.Invoice, error) {
	rows, err := r.exec(ctx).Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*invoice.Invoice
	for rows.Next() {
		inv, err := scanSQLiteInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Report aggregates in SQL instead of loading every row.
func (r *SQLiteInvoiceRepository) Report(ctx context.Context) (invoice.Report, error) {
	var rep invoice.Report
	err := r.exec(ctx).QueryRow(ctx, reportQuery).Scan(
		&rep.TotalPaid,
		&rep.UnpaidCount,
		&rep.OverdueCount,
		&rep.TotalCount,
	)
	return rep, err
}

func scanSQLiteInvoice(row database.Row) (*invoice.Invoice, error) {
	var (
		id        int64
		status    string
		createdAt string
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
	if inv.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &inv, nil
}
