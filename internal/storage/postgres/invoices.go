package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
)

type invoiceRepository struct {
	storage *Storage
}

const invoiceColumns = `id, order_id, practice_id, number, amount, status, issued_at, due_at, document_key`

func scanInvoice(row pgx.Row, inv *model.Invoice) error {
	return row.Scan(&inv.ID, &inv.OrderID, &inv.PracticeID, &inv.Number, &inv.Amount, &inv.Status, &inv.IssuedAt, &inv.DueAt, &inv.DocumentKey)
}

// NextSequence atomically allocates the next number of the year.
func (r *invoiceRepository) NextSequence(ctx context.Context, year int) (int, error) {
	const query = `INSERT INTO invoice_sequences (year, last_value) VALUES ($1, 1)
                   ON CONFLICT (year) DO UPDATE SET last_value = invoice_sequences.last_value + 1
                   RETURNING last_value`
	var seq int
	if err := r.storage.pool.QueryRow(ctx, query, year).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next invoice sequence: %w", err)
	}
	return seq, nil
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	const query = `INSERT INTO invoices (order_id, practice_id, number, amount, status, issued_at, due_at, document_key)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING id`
	err := r.storage.pool.QueryRow(ctx, query,
		invoice.OrderID, invoice.PracticeID, invoice.Number, invoice.Amount,
		invoice.Status, invoice.IssuedAt, invoice.DueAt, invoice.DocumentKey,
	).Scan(&invoice.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) GetByOrder(ctx context.Context, orderID int64) (*model.Invoice, error) {
	const query = `SELECT ` + invoiceColumns + ` FROM invoices WHERE order_id=$1`
	var inv model.Invoice
	if err := scanInvoice(r.storage.pool.QueryRow(ctx, query, orderID), &inv); err != nil {
		return nil, mapNoRows(err)
	}
	return &inv, nil
}

func (r *invoiceRepository) MarkOverdue(ctx context.Context, now time.Time) ([]model.Invoice, error) {
	const query = `UPDATE invoices SET status=$1
                   WHERE status=$2 AND due_at < $3
                   RETURNING ` + invoiceColumns
	rows, err := r.storage.pool.Query(ctx, query, model.InvoiceStatusOverdue, model.InvoiceStatusIssued, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
