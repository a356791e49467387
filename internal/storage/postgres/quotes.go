package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
)

type quoteRepository struct {
	storage *Storage
}

const quoteColumns = `id, practice_id, title, quantity, unit_price, total, status, order_id, created_at`

func scanQuote(row pgx.Row, q *model.Quote) error {
	return row.Scan(&q.ID, &q.PracticeID, &q.Title, &q.Quantity, &q.UnitPrice, &q.Total, &q.Status, &q.OrderID, &q.CreatedAt)
}

func (r *quoteRepository) Create(ctx context.Context, quote *model.Quote) error {
	const query = `INSERT INTO quotes (practice_id, title, quantity, unit_price, total, status)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING id, created_at`
	err := r.storage.pool.QueryRow(ctx, query, quote.PracticeID, quote.Title, quote.Quantity, quote.UnitPrice, quote.Total, quote.Status).
		Scan(&quote.ID, &quote.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

func (r *quoteRepository) GetByID(ctx context.Context, id int64) (*model.Quote, error) {
	const query = `SELECT ` + quoteColumns + ` FROM quotes WHERE id=$1`
	var q model.Quote
	if err := scanQuote(r.storage.pool.QueryRow(ctx, query, id), &q); err != nil {
		return nil, mapNoRows(err)
	}
	return &q, nil
}

func (r *quoteRepository) List(ctx context.Context, practiceID *int64) ([]model.Quote, error) {
	const query = `SELECT ` + quoteColumns + ` FROM quotes
                   WHERE $1::BIGINT IS NULL OR practice_id=$1
                   ORDER BY created_at DESC, id DESC`
	rows, err := r.storage.pool.Query(ctx, query, practiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Quote
	for rows.Next() {
		var q model.Quote
		if err := scanQuote(rows, &q); err != nil {
			return nil, err
		}
		result = append(result, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *quoteRepository) Convert(ctx context.Context, quoteID int64) (*model.Order, error) {
	const lockQuote = `UPDATE quotes SET status=$1 WHERE id=$2 AND status=$3
                       RETURNING practice_id, title, quantity, total`
	const insert = `INSERT INTO orders (practice_id, title, quantity, cost, status)
                    VALUES ($1, $2, $3, $4, $5)
                    RETURNING id, revision_count, version, created_at, updated_at`
	const link = `UPDATE quotes SET order_id=$1 WHERE id=$2`

	var order model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, lockQuote, model.QuoteStatusConverted, quoteID, model.QuoteStatusOpen).
			Scan(&order.PracticeID, &order.Title, &order.Quantity, &order.Cost)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return quoteMissingOrConverted(ctx, tx, quoteID)
			}
			return err
		}

		order.Status = model.OrderStatusDraft
		if err := insertOrder(ctx, tx, insert, &order); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, link, order.ID, quoteID); err != nil {
			return fmt.Errorf("link quote: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func quoteMissingOrConverted(ctx context.Context, q querier, quoteID int64) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM quotes WHERE id=$1)`, quoteID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domainErrors.ErrNotFound
	}
	return domainErrors.ErrConflict
}
