package membership

import (
	"time"

	"clubhouse/internal/domain/member"
)

// Status reason constants for the detailed status.
const (
	ReasonFormerMember = "former_member"
	ReasonNonPayment   = "non_payment"
)

// DetailedStatus is the derived classification of a member. It is never
// stored as its own entity; Member.Status caches the Status field.
type DetailedStatus struct {
	Status string
	Reason string
}

// FeeRecord carries the fee payment fields the resolver needs.
type FeeRecord struct {
	PaymentYear *int
	PaymentDate *time.Time
	CardNumber  string
}

// Valid returns true if both payment year and payment date are present.
// A partial record fails safe toward lapsed, never toward active.
func (f FeeRecord) Valid() bool {
	return f.PaymentYear != nil && f.PaymentDate != nil
}

// FeeRecordOf extracts the fee payment fields from a member.
func FeeRecordOf(m member.Member) FeeRecord {
	return FeeRecord{
		PaymentYear: m.FeePaymentYear,
		PaymentDate: m.FeePaymentDate,
		CardNumber:  m.CardNumber,
	}
}

// Lapsed reports whether the fee record no longer covers the current year.
// A member with no valid payment on record is unexpired only within their
// first calendar year (first-year grace); the boundary year itself
// (currentYear == expiryYear) is never lapsed.
func Lapsed(periods []Period, fee FeeRecord, cutoff Cutoff, createdAt, now time.Time) bool {
	if !fee.Valid() {
		return createdAt.Year() != now.Year()
	}
	isNew := IsNewMemberAtPayment(periods, *fee.PaymentYear)
	_, expiryYear := EffectiveYear(*fee.PaymentYear, *fee.PaymentDate, cutoff, isNew)
	return now.Year() > expiryYear
}

// Resolve derives the detailed membership status from the member's period
// history, fee record, and the organization's renewal cutoff. Precedence,
// first match wins:
//
//  1. no periods at all: pending
//  2. no open period but at least one closed: inactive (former member),
//     regardless of the fee record
//  3. open period with a lapsed fee: inactive (non-payment); persisting
//     it and closing the period is the reconciler's job
//  4. otherwise: registered
//
// Pure and total over well-formed period lists. Two simultaneously open
// periods is a precondition violation to be detected upstream via
// CheckInvariant, not resolved here.
func Resolve(periods []Period, fee FeeRecord, cutoff Cutoff, createdAt, now time.Time) DetailedStatus {
	if len(periods) == 0 {
		return DetailedStatus{Status: member.StatusPending}
	}
	if len(OpenPeriods(periods)) == 0 {
		return DetailedStatus{Status: member.StatusInactive, Reason: ReasonFormerMember}
	}
	if Lapsed(periods, fee, cutoff, createdAt, now) {
		return DetailedStatus{Status: member.StatusInactive, Reason: ReasonNonPayment}
	}
	return DetailedStatus{Status: member.StatusRegistered}
}
