package store

import (
	"context"

	"github.com/google/uuid"

	"chairtime/backend/internal/domain"
)

// ServiceCatalog is the read-only view of the salon's service list. Ids with
// no catalog entry are simply absent from the result; callers decide whether
// that is an error.
type ServiceCatalog interface {
	GetServices(ctx context.Context, ids []uuid.UUID) ([]domain.Service, error)
}
