package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
)

// claimLease hides a claimed event from other workers until it is marked or the lease ends.
const claimLease = time.Minute

type eventRepository struct {
	storage *Storage
}

const eventColumns = `id, order_id, practice_id, email_type, from_status, to_status, revision,
                      invoice_number, subject, message, attempts, last_error, created_at, sent_at`

func scanEvent(row pgx.Row, e *model.OrderEvent) error {
	return row.Scan(&e.ID, &e.OrderID, &e.PracticeID, &e.EmailType, &e.FromStatus, &e.ToStatus, &e.Revision,
		&e.InvoiceNumber, &e.Subject, &e.Message, &e.Attempts, &e.LastError, &e.CreatedAt, &e.SentAt)
}

func insertEvent(ctx context.Context, q querier, e *model.OrderEvent) error {
	const query = `INSERT INTO order_events (order_id, practice_id, email_type, from_status, to_status, revision, invoice_number, subject, message)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
                   RETURNING id, created_at`
	err := q.QueryRow(ctx, query, e.OrderID, e.PracticeID, e.EmailType, e.FromStatus, e.ToStatus, e.Revision, e.InvoiceNumber, e.Subject, e.Message).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) Enqueue(ctx context.Context, event *model.OrderEvent) error {
	return insertEvent(ctx, r.storage.pool, event)
}

func (r *eventRepository) ClaimBatch(ctx context.Context, limit, maxAttempts int) ([]model.OrderEvent, error) {
	const selectQuery = `SELECT ` + eventColumns + `
                         FROM order_events
                         WHERE sent_at IS NULL
                           AND attempts < $1
                           AND (claimed_until IS NULL OR claimed_until < NOW())
                         ORDER BY created_at, id
                         LIMIT $2
                         FOR UPDATE SKIP LOCKED`
	const claimQuery = `UPDATE order_events SET attempts=attempts+1, claimed_until=$1 WHERE id=$2`

	var events []model.OrderEvent
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, maxAttempts, limit)
		if err != nil {
			return err
		}
		for rows.Next() {
			var e model.OrderEvent
			if err := scanEvent(rows, &e); err != nil {
				rows.Close()
				return err
			}
			events = append(events, e)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		until := time.Now().Add(claimLease)
		for i := range events {
			if _, err := tx.Exec(ctx, claimQuery, until, events[i].ID); err != nil {
				return err
			}
			events[i].Attempts++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) MarkSent(ctx context.Context, id int64) error {
	const query = `UPDATE order_events SET sent_at=NOW(), last_error='', claimed_until=NULL WHERE id=$1`
	return r.exec(ctx, query, id)
}

// MarkFailed keeps the claim lease so the retry waits for it to lapse.
func (r *eventRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	const query = `UPDATE order_events SET last_error=$2 WHERE id=$1`
	return r.exec(ctx, query, id, reason)
}

func (r *eventRepository) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.storage.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
