package equipment

import (
	"errors"
	"strings"
)

// Gear type constants
const (
	TypeTShirt      = "tshirt"
	TypeShellJacket = "shell_jacket"
	TypeHat         = "hat"
)

// ValidTypes contains all valid gear type values.
var ValidTypes = []string{TypeTShirt, TypeShellJacket, TypeHat}

// Domain errors
var (
	ErrInvalidType   = errors.New("gear type must be 'tshirt', 'shell_jacket', or 'hat'")
	ErrEmptySize     = errors.New("size cannot be empty")
	ErrNegativeStock = errors.New("stock counts cannot be negative")
	ErrOutOfStock    = errors.New("no remaining stock for this item")
)

// Item is one inventory line: a gear type in a specific size with stock
// and issued counts.
type Item struct {
	ID             string
	OrganizationID string
	GearType       string
	Size           string
	Initial        int
	Issued         int
}

// Validate checks if the Item has valid data.
// PRE: Item struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Item) Validate() error {
	if !isValidType(i.GearType) {
		return ErrInvalidType
	}
	if strings.TrimSpace(i.Size) == "" {
		return ErrEmptySize
	}
	if i.Initial < 0 || i.Issued < 0 {
		return ErrNegativeStock
	}
	return nil
}

// Remaining returns the unissued stock.
// INVARIANT: Item fields are not mutated
func (i *Item) Remaining() int {
	return i.Initial - i.Issued
}

// Issue records one unit handed out.
// PRE: Remaining() > 0
// POST: Issued incremented
func (i *Item) Issue() error {
	if i.Remaining() <= 0 {
		return ErrOutOfStock
	}
	i.Issued++
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
