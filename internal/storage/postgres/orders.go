package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
)

type orderRepository struct {
	storage *Storage
}

const orderColumns = `id, practice_id, title, quantity, cost, status, revision_count, version, created_at, updated_at`

const fileColumns = `id, order_id, file_type, revision, name, content_type, size, storage_key, notes, uploaded_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(&o.ID, &o.PracticeID, &o.Title, &o.Quantity, &o.Cost, &o.Status, &o.RevisionCount, &o.Version, &o.CreatedAt, &o.UpdatedAt)
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	const query = `INSERT INTO orders (practice_id, title, quantity, cost, status)
                   VALUES ($1, $2, $3, $4, $5)
                   RETURNING id, revision_count, version, created_at, updated_at`
	return insertOrder(ctx, r.storage.pool, query, order)
}

func insertOrder(ctx context.Context, q querier, query string, order *model.Order) error {
	err := q.QueryRow(ctx, query, order.PracticeID, order.Title, order.Quantity, order.Cost, order.Status).
		Scan(&order.ID, &order.RevisionCount, &order.Version, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var order model.Order
	if err := scanOrder(r.storage.pool.QueryRow(ctx, query, id), &order); err != nil {
		return nil, mapNoRows(err)
	}
	files, err := listFiles(ctx, r.storage.pool, id)
	if err != nil {
		return nil, err
	}
	order.Files = files
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	var (
		conds []string
		args  []any
	)
	if filter.PracticeID != nil {
		args = append(args, *filter.PracticeID)
		conds = append(conds, "practice_id=$"+strconv.Itoa(len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, "status=$"+strconv.Itoa(len(args)))
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + orderColumns + ` FROM orders`)
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}

	rows, err := r.storage.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ApplyChange(ctx context.Context, change model.StatusChange) (*model.Order, error) {
	const update = `UPDATE orders
                    SET status=$1, revision_count=$2, version=version+1, updated_at=NOW()
                    WHERE id=$3 AND version=$4
                    RETURNING ` + orderColumns

	var order model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, update, change.To, change.RevisionCount, change.OrderID, change.ExpectedVersion)
		if err := scanOrder(row, &order); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return missingOrConflict(ctx, tx, change.OrderID)
			}
			return fmt.Errorf("update order: %w", err)
		}

		if change.File != nil {
			change.File.OrderID = order.ID
			if err := insertFile(ctx, tx, change.File); err != nil {
				return err
			}
		}
		if change.Event != nil {
			change.Event.OrderID = order.ID
			if change.Event.PracticeID == 0 {
				change.Event.PracticeID = order.PracticeID
			}
			if err := insertEvent(ctx, tx, change.Event); err != nil {
				return err
			}
		}

		files, err := listFiles(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		order.Files = files
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.storage.logger.Debug("order status changed",
		"order_id", order.ID,
		"from", change.From,
		"to", order.Status,
		"version", order.Version,
	)
	return &order, nil
}

// missingOrConflict tells a deleted order apart from a lost version race.
func missingOrConflict(ctx context.Context, q querier, orderID int64) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, orderID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domainErrors.ErrNotFound
	}
	return domainErrors.ErrConflict
}

func (r *orderRepository) AppendFile(ctx context.Context, file *model.OrderFile) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const touch = `UPDATE orders SET updated_at=NOW() WHERE id=$1`
		tag, err := tx.Exec(ctx, touch, file.OrderID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}
		return insertFile(ctx, tx, file)
	})
}

func (r *orderRepository) GetFile(ctx context.Context, orderID, fileID int64) (*model.OrderFile, error) {
	const query = `SELECT ` + fileColumns + ` FROM order_files WHERE order_id=$1 AND id=$2`
	var f model.OrderFile
	if err := scanFile(r.storage.pool.QueryRow(ctx, query, orderID, fileID), &f); err != nil {
		return nil, mapNoRows(err)
	}
	return &f, nil
}

func scanFile(row pgx.Row, f *model.OrderFile) error {
	return row.Scan(&f.ID, &f.OrderID, &f.Type, &f.Revision, &f.Name, &f.ContentType, &f.Size, &f.StorageKey, &f.Notes, &f.UploadedAt)
}

func insertFile(ctx context.Context, q querier, file *model.OrderFile) error {
	const query = `INSERT INTO order_files (order_id, file_type, revision, name, content_type, size, storage_key, notes)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                   RETURNING id, uploaded_at`
	err := q.QueryRow(ctx, query, file.OrderID, file.Type, file.Revision, file.Name, file.ContentType, file.Size, file.StorageKey, file.Notes).
		Scan(&file.ID, &file.UploadedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func listFiles(ctx context.Context, q querier, orderID int64) ([]model.OrderFile, error) {
	const query = `SELECT ` + fileColumns + ` FROM order_files WHERE order_id=$1 ORDER BY uploaded_at, id`
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []model.OrderFile
	for rows.Next() {
		var f model.OrderFile
		if err := scanFile(rows, &f); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return files, nil
}
