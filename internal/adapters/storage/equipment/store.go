package equipment

import (
	"context"

	domain "clubhouse/internal/domain/equipment"
)

// Store persists equipment inventory state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Item, error)
	Save(ctx context.Context, value domain.Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, organizationID string) ([]domain.Item, error)
}
