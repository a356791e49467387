package usecase

import (
	"context"
	"fmt"
	"log/slog"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
	"github.com/polkiloo/letterdesk/internal/workflow"
)

// BulkItem is the outcome for one order of a bulk request.
type BulkItem struct {
	OrderID int64
	Status  model.OrderStatus
	Error   error
}

// BulkResult summarises a bulk request.
type BulkResult struct {
	Category     workflow.AlertCategory
	Target       model.OrderStatus
	Acknowledged bool
	Succeeded    int
	Failed       int
	Items        []BulkItem
}

// BulkUseCase applies dashboard quick actions to many orders.
type BulkUseCase struct {
	orders  *OrderUseCase
	metrics Metrics
	logger  *slog.Logger
}

// NewBulkUseCase constructs BulkUseCase.
func NewBulkUseCase(orders *OrderUseCase, metrics Metrics, logger *slog.Logger) *BulkUseCase {
	return &BulkUseCase{orders: orders, metrics: metrics, logger: logger}
}

// Apply runs the quick action of category on every order. Orders are handled one by one,
// a failure is recorded and the remaining orders are still processed. When ctx ends
// mid-run the orders handled so far are returned together with the context error.
func (u *BulkUseCase) Apply(ctx context.Context, actor model.Actor, category workflow.AlertCategory, ids []int64) (*BulkResult, error) {
	if !actor.IsAdmin() {
		return nil, domainErrors.ErrForbidden
	}
	target, ok := workflow.QuickAction(category)
	if !ok {
		return nil, invalidInput(fmt.Sprintf("unknown category %q", category))
	}
	if len(ids) == 0 {
		return nil, invalidInput("no orders selected")
	}

	result := &BulkResult{Category: category, Target: target, Acknowledged: target == ""}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if err := ctx.Err(); err != nil {
			u.metrics.ObserveBulk(string(category), result.Succeeded, result.Failed)
			u.logger.Warn("bulk action interrupted",
				slog.String("category", string(category)),
				slog.Int("handled", len(result.Items)),
				slog.Int("selected", len(ids)),
				slog.Any("error", err),
			)
			return result, err
		}

		item := BulkItem{OrderID: id}
		if target != "" {
			order, err := u.orders.Transition(ctx, actor, id, target)
			if err != nil {
				item.Error = err
				result.Failed++
				result.Items = append(result.Items, item)
				u.logger.Warn("bulk transition failed",
					slog.Int64("order_id", id),
					slog.String("category", string(category)),
					slog.Any("error", err),
				)
				continue
			}
			item.Status = order.Status
		}
		result.Succeeded++
		result.Items = append(result.Items, item)
	}

	u.metrics.ObserveBulk(string(category), result.Succeeded, result.Failed)
	return result, nil
}
