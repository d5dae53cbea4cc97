package settings

import (
	"context"

	domain "clubhouse/internal/domain/settings"
)

// Store persists per-organization renewal settings.
type Store interface {
	// GetByOrganizationID returns the organization's settings, or the
	// documented defaults when none are stored.
	GetByOrganizationID(ctx context.Context, organizationID string) (domain.RenewalSettings, error)
	Save(ctx context.Context, value domain.RenewalSettings) error
}
