package stamp

import (
	"errors"
	"time"
)

// Stamp type constants
const (
	TypeEmployed   = "employed"
	TypeStudent    = "student"
	TypePensioner  = "pensioner"
)

// ValidTypes contains all valid stamp type values.
var ValidTypes = []string{TypeEmployed, TypeStudent, TypePensioner}

// Domain errors
var (
	ErrInvalidType     = errors.New("stamp type must be 'employed', 'student', or 'pensioner'")
	ErrNegativeCount   = errors.New("stamp counts cannot be negative")
	ErrAlreadyArchived = errors.New("inventory year is already archived")
)

// Inventory tracks the membership stamps of one type for one year.
type Inventory struct {
	ID             string
	OrganizationID string
	Year           int
	StampType      string
	Initial        int
	Issued         int
	Returned       int
	Archived       bool
	ArchivedAt     *time.Time
}

// Validate checks if the Inventory has valid data.
// PRE: Inventory struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Inventory) Validate() error {
	if !isValidType(i.StampType) {
		return ErrInvalidType
	}
	if i.Initial < 0 || i.Issued < 0 || i.Returned < 0 {
		return ErrNegativeCount
	}
	if i.Year < 2000 {
		return errors.New("inventory year is out of range")
	}
	return nil
}

// Remaining returns the unissued stamp count.
// INVARIANT: Inventory fields are not mutated
func (i *Inventory) Remaining() int {
	return i.Initial - i.Issued + i.Returned
}

// Archive marks a past year's inventory as archived. The yearly archival
// job calls this exactly once per inventory.
// PRE: Inventory is not archived
// POST: Archived set, ArchivedAt recorded
func (i *Inventory) Archive(at time.Time) error {
	if i.Archived {
		return ErrAlreadyArchived
	}
	i.Archived = true
	i.ArchivedAt = &at
	return nil
}

func isValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}
