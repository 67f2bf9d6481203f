package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"chairtime/backend/internal/domain"
)

type ServiceCatalogRepo struct {
	db *bun.DB
}

func NewServiceCatalogRepo(db *bun.DB) *ServiceCatalogRepo {
	return &ServiceCatalogRepo{db: db}
}

func (r *ServiceCatalogRepo) GetServices(ctx context.Context, ids []uuid.UUID) ([]domain.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []domain.Service
	err := r.db.NewSelect().
		Model(&rows).
		Where("s.id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
