package member

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Stored status values. Status is a persisted cache of the detailed status
// derived from periods and the fee record; the reconciler owns writes to it.
const (
	StatusPending    = "pending"
	StatusRegistered = "registered"
	StatusInactive   = "inactive"
)

// Role constants
const (
	RoleMember        = "member"
	RoleAdministrator = "administrator"
	RoleSuperuser     = "superuser"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleMember, RoleAdministrator, RoleSuperuser}

// Domain errors
var (
	ErrInvalidStatus = errors.New("status must be 'pending', 'registered', or 'inactive'")
	ErrInvalidRole   = errors.New("role must be 'member', 'administrator', or 'superuser'")
)

// Member holds state for the concept.
type Member struct {
	ID                    string
	OrganizationID        string
	Name                  string
	Lastname              string
	Email                 string
	Role                  string
	Status                string
	RegistrationCompleted bool

	// ActivityMinutes accumulates recognized activity time across the
	// current and prior year.
	ActivityMinutes int

	// Fee payment record. Year and date must both be present for the
	// payment to count; a lone year or a lone date is treated as no
	// valid payment.
	FeePaymentYear *int
	FeePaymentDate *time.Time
	CardNumber     string

	CreatedAt time.Time
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Name must not be empty
func (m *Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("member name cannot be empty")
	}
	if len(m.Name) > MaxNameLength {
		return errors.New("member name cannot exceed 100 characters")
	}
	if !strings.Contains(m.Email, "@") {
		return errors.New("member email must be valid")
	}
	if m.Status != StatusPending && m.Status != StatusRegistered && m.Status != StatusInactive {
		return ErrInvalidStatus
	}
	if !isValidRole(m.Role) {
		return ErrInvalidRole
	}
	return nil
}

// HasCard returns true if a membership card has been issued.
// INVARIANT: Member fields are not mutated
func (m *Member) HasCard() bool {
	return m.CardNumber != ""
}

// HasValidFeeRecord returns true if both payment year and payment date are
// on record. A partial record does not count as a payment.
// INVARIANT: Member fields are not mutated
func (m *Member) HasValidFeeRecord() bool {
	return m.FeePaymentYear != nil && m.FeePaymentDate != nil
}

// IsOperator returns true for elevated roles. Operator accounts are never
// auto-terminated by the status reconciler.
// INVARIANT: Member fields are not mutated
func (m *Member) IsOperator() bool {
	return m.Role == RoleAdministrator || m.Role == RoleSuperuser
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
