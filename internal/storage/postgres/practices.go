package postgres

import (
	"context"

	"github.com/polkiloo/letterdesk/internal/domain/model"
)

type practiceRepository struct {
	storage *Storage
}

func (r *practiceRepository) Create(ctx context.Context, name, email string) (*model.Practice, error) {
	const query = `INSERT INTO practices (name, email) VALUES ($1, $2) RETURNING id, created_at`
	p := model.Practice{Name: name, Email: email}
	if err := r.storage.pool.QueryRow(ctx, query, name, email).Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *practiceRepository) GetByID(ctx context.Context, id int64) (*model.Practice, error) {
	const query = `SELECT id, name, email, created_at FROM practices WHERE id=$1`
	var p model.Practice
	if err := r.storage.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Email, &p.CreatedAt); err != nil {
		return nil, mapNoRows(err)
	}
	return &p, nil
}
