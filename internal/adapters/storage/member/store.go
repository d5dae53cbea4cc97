package member

import (
	"context"
	"time"

	domain "clubhouse/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	GetByEmail(ctx context.Context, email string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	Count(ctx context.Context, filter ListFilter) (int, error)

	// UpdateStatus writes only the status cache and registration flag.
	UpdateStatus(ctx context.Context, id, status string, registrationCompleted bool) error

	// SetInactiveAndClosePeriods sets the member inactive and closes the
	// given periods in one transaction, keeping the status cache and
	// period state consistent with each other.
	SetInactiveAndClosePeriods(ctx context.Context, id string, closures []PeriodClosure) error

	// AddActivityMinutes adds recognized minutes to the accumulated total.
	AddActivityMinutes(ctx context.Context, id string, minutes int) error
}

// PeriodClosure names one period to close and how.
type PeriodClosure struct {
	PeriodID string
	EndDate  time.Time
	Reason   string
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit          int
	Offset         int
	OrganizationID string
	Status         string
	Role           string
	Search         string
	Sort           string
	Dir            string
}
