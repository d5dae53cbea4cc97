package activity

import (
	"errors"
	"strings"
	"time"
)

// Activity status constants
const (
	StatusPlanned   = "planned"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Domain errors
var (
	ErrEmptyTitle      = errors.New("activity title cannot be empty")
	ErrInvalidStatus   = errors.New("status must be 'planned', 'completed', or 'cancelled'")
	ErrInvalidMinutes  = errors.New("recognized minutes cannot be negative")
	ErrEmptyMemberID   = errors.New("participation member ID cannot be empty")
	ErrEmptyActivityID = errors.New("participation activity ID cannot be empty")
)

// Activity is an organized event (trip, work action, training) whose
// participants earn recognized activity minutes.
type Activity struct {
	ID                string
	OrganizationID    string
	Title             string
	Description       string
	Date              time.Time
	Status            string
	RecognizedMinutes int // default minutes credited per participant
	CreatedBy         string
	CreatedAt         time.Time
}

// Validate checks if the Activity has valid data.
// PRE: Activity struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Activity) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}
	if a.Status != StatusPlanned && a.Status != StatusCompleted && a.Status != StatusCancelled {
		return ErrInvalidStatus
	}
	if a.RecognizedMinutes < 0 {
		return ErrInvalidMinutes
	}
	if a.Date.IsZero() {
		return errors.New("activity date cannot be zero")
	}
	return nil
}

// Participation records one member's recognized minutes for an activity.
type Participation struct {
	ID         string
	ActivityID string
	MemberID   string
	Minutes    int
	CreatedAt  time.Time
}

// Validate checks if the Participation has valid data.
// PRE: Participation struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Participation) Validate() error {
	if p.ActivityID == "" {
		return ErrEmptyActivityID
	}
	if p.MemberID == "" {
		return ErrEmptyMemberID
	}
	if p.Minutes < 0 {
		return ErrInvalidMinutes
	}
	return nil
}
