package period

import (
	"context"

	"clubhouse/internal/domain/membership"
)

// Store persists MembershipPeriod state.
type Store interface {
	GetByID(ctx context.Context, id string) (membership.Period, error)
	Save(ctx context.Context, value membership.Period) error
	ListByMemberID(ctx context.Context, memberID string) ([]membership.Period, error)
	ListOpenByMemberID(ctx context.Context, memberID string) ([]membership.Period, error)
}
