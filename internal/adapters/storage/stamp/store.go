package stamp

import (
	"context"

	domain "clubhouse/internal/domain/stamp"
)

// Store persists stamp inventory state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Inventory, error)
	Save(ctx context.Context, value domain.Inventory) error
	List(ctx context.Context, organizationID string) ([]domain.Inventory, error)
	// ListUnarchivedBefore returns unarchived inventories for years strictly
	// before the given year, across all organizations.
	ListUnarchivedBefore(ctx context.Context, year int) ([]domain.Inventory, error)
}
