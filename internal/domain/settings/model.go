package settings

import (
	"errors"
	"time"

	"clubhouse/internal/domain/membership"
)

// Documented defaults applied when an organization has no stored settings.
const (
	DefaultRenewalStartMonth      = time.November
	DefaultRenewalStartDay        = 1
	DefaultActivityHoursThreshold = membership.DefaultActivityHoursThreshold
)

// Domain errors
var (
	ErrInvalidRenewalMonth = errors.New("renewal start month must be October or November")
	ErrInvalidRenewalDay   = errors.New("renewal start day must be between 1 and 31")
	ErrInvalidThreshold    = errors.New("activity hours threshold must be positive")
)

// RenewalSettings holds an organization's renewal cutoff and the activity
// hours threshold.
type RenewalSettings struct {
	OrganizationID         string
	RenewalStartMonth      time.Month
	RenewalStartDay        int
	ActivityHoursThreshold int
	UpdatedAt              time.Time
}

// Default returns the documented default settings for an organization.
func Default(organizationID string) RenewalSettings {
	return RenewalSettings{
		OrganizationID:         organizationID,
		RenewalStartMonth:      DefaultRenewalStartMonth,
		RenewalStartDay:        DefaultRenewalStartDay,
		ActivityHoursThreshold: DefaultActivityHoursThreshold,
	}
}

// Validate checks if the RenewalSettings have valid data. The renewal
// month is restricted to October and November.
// PRE: RenewalSettings struct is populated
// POST: Returns nil if valid, error otherwise
func (s *RenewalSettings) Validate() error {
	if s.OrganizationID == "" {
		return errors.New("organization ID cannot be empty")
	}
	if s.RenewalStartMonth != time.October && s.RenewalStartMonth != time.November {
		return ErrInvalidRenewalMonth
	}
	if s.RenewalStartDay < 1 || s.RenewalStartDay > 31 {
		return ErrInvalidRenewalDay
	}
	if s.ActivityHoursThreshold <= 0 {
		return ErrInvalidThreshold
	}
	return nil
}

// Cutoff returns the renewal cutoff these settings configure.
// INVARIANT: RenewalSettings fields are not mutated
func (s RenewalSettings) Cutoff() membership.Cutoff {
	return membership.Cutoff{Month: s.RenewalStartMonth, Day: s.RenewalStartDay}
}
