package scheduling

import (
	"context"

	"github.com/google/uuid"

	"chairtime/backend/internal/domain"
	"chairtime/backend/internal/store"
)

// snapshotLineItems freezes the current catalog price and duration of every
// requested service into line items, in request order. Any unresolvable id
// fails the whole snapshot so a partial line-item set is never persisted.
func snapshotLineItems(ctx context.Context, catalog store.ServiceCatalog, serviceIDs []uuid.UUID) ([]domain.LineItem, error) {
	services, err := catalog.GetServices(ctx, serviceIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]domain.Service, len(services))
	for _, svc := range services {
		byID[svc.ID] = svc
	}

	items := make([]domain.LineItem, 0, len(serviceIDs))
	for i, id := range serviceIDs {
		svc, ok := byID[id]
		if !ok {
			return nil, &UnknownServiceError{ServiceID: id}
		}
		items = append(items, domain.LineItem{
			ServiceID:       svc.ID,
			ServiceName:     svc.Name,
			Price:           svc.Price,
			DurationMinutes: svc.DurationMinutes,
			Position:        i,
		})
	}
	return items, nil
}
