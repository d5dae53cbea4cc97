package organization

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName = errors.New("organization name cannot be empty")
)

// Organization is a tenant: one association running its own membership,
// activities, and equipment records.
type Organization struct {
	ID        string
	Name      string
	City      string
	Email     string
	Active    bool
	CreatedAt time.Time
}

// Validate checks if the Organization has valid data.
// PRE: Organization struct is populated
// POST: Returns nil if valid, error otherwise
func (o *Organization) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return ErrEmptyName
	}
	if o.Email != "" && !strings.Contains(o.Email, "@") {
		return errors.New("organization email must be valid")
	}
	return nil
}
