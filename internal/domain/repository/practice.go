package repository

import (
	"context"

	"github.com/polkiloo/letterdesk/internal/domain/model"
)

// PracticeRepository manages tenants.
type PracticeRepository interface {
	Create(ctx context.Context, name, email string) (*model.Practice, error)
	GetByID(ctx context.Context, id int64) (*model.Practice, error)
}
