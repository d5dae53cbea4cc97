// Package membership holds the membership lifecycle rules: periods, the
// renewal cutoff policy, activity classification, and the detailed status
// resolver. Everything here is pure; persistence and write-back live in the
// orchestrators.
package membership

import (
	"errors"
	"time"
)

// End reason constants for closed periods.
const (
	EndReasonNonPayment = "non_payment"
	EndReasonWithdrawal = "withdrawal"
	EndReasonDeath      = "death"
	EndReasonExpulsion  = "expulsion"
)

// ValidEndReasons contains all valid end reason values.
var ValidEndReasons = []string{EndReasonNonPayment, EndReasonWithdrawal, EndReasonDeath, EndReasonExpulsion}

// Domain errors
var (
	ErrAlreadyClosed       = errors.New("period is already closed")
	ErrInvalidEndReason    = errors.New("end reason is not valid")
	ErrEndBeforeStart      = errors.New("end date must not be before start date")
	ErrMultipleOpenPeriods = errors.New("member has more than one open period")
)

// Period is a contiguous interval during which a member holds active
// membership. A nil EndDate means the period is currently open.
type Period struct {
	ID        string
	MemberID  string
	StartDate time.Time
	EndDate   *time.Time
	EndReason string
}

// IsOpen returns true if the period has no end date.
// INVARIANT: Period fields are not mutated
func (p *Period) IsOpen() bool {
	return p.EndDate == nil
}

// Close sets the end date and reason on an open period.
// PRE: Period is open; reason is a valid end reason
// POST: EndDate and EndReason are set
func (p *Period) Close(endDate time.Time, reason string) error {
	if !p.IsOpen() {
		return ErrAlreadyClosed
	}
	if !IsValidEndReason(reason) {
		return ErrInvalidEndReason
	}
	if endDate.Before(p.StartDate) {
		return ErrEndBeforeStart
	}
	p.EndDate = &endDate
	p.EndReason = reason
	return nil
}

// Validate checks if the Period has valid data.
// PRE: Period struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Period) Validate() error {
	if p.MemberID == "" {
		return errors.New("period member ID cannot be empty")
	}
	if p.StartDate.IsZero() {
		return errors.New("period start date cannot be zero")
	}
	if p.EndDate != nil {
		if p.EndDate.Before(p.StartDate) {
			return ErrEndBeforeStart
		}
		if !IsValidEndReason(p.EndReason) {
			return ErrInvalidEndReason
		}
	}
	return nil
}

// OpenPeriods returns the subset of periods with no end date.
func OpenPeriods(periods []Period) []Period {
	var open []Period
	for _, p := range periods {
		if p.IsOpen() {
			open = append(open, p)
		}
	}
	return open
}

// CheckInvariant verifies that at most one period is open. A violation is a
// data-integrity fault to be reported, not silently resolved.
func CheckInvariant(periods []Period) error {
	if len(OpenPeriods(periods)) > 1 {
		return ErrMultipleOpenPeriods
	}
	return nil
}

// IsNewMemberAtPayment reports whether the member's entire period history
// at payment time is exactly one period starting within the payment year,
// i.e. a first-ever payment rather than a renewal. A member who left and
// later rejoined has more than one period and counts as a renewer.
func IsNewMemberAtPayment(periods []Period, feePaymentYear int) bool {
	if len(periods) != 1 {
		return false
	}
	return periods[0].StartDate.Year() == feePaymentYear
}

// IsValidEndReason reports whether reason is one of the valid end reasons.
func IsValidEndReason(reason string) bool {
	for _, r := range ValidEndReasons {
		if r == reason {
			return true
		}
	}
	return false
}
