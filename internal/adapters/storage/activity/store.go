package activity

import (
	"context"

	domain "clubhouse/internal/domain/activity"
)

// Store persists Activity and Participation state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Activity, error)
	Save(ctx context.Context, value domain.Activity) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, organizationID string) ([]domain.Activity, error)

	SaveParticipation(ctx context.Context, value domain.Participation) error
	ListParticipations(ctx context.Context, activityID string) ([]domain.Participation, error)
	ListParticipationsByMember(ctx context.Context, memberID string) ([]domain.Participation, error)
}
