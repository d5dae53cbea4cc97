package membership

import "time"

// Cutoff is the (month, day) within a payment year after which a renewal
// payment is attributed to the following membership year.
type Cutoff struct {
	Month time.Month
	Day   int
}

// DateIn returns the cutoff date within the given year.
// INVARIANT: Cutoff fields are not mutated
func (c Cutoff) DateIn(year int) time.Time {
	return time.Date(year, c.Month, c.Day, 0, 0, 0, 0, time.UTC)
}

// EffectiveYear computes the membership year a fee payment covers and the
// expiry year, the last calendar year through which that membership remains
// valid. A payment made after the cutoff date by a renewing (non-new)
// member covers the following year; a new member's first payment always
// covers the payment year.
// PRE: feePaymentYear and feePaymentDate are both on record
// POST: expiryYear == effectiveYear + 1
func EffectiveYear(feePaymentYear int, feePaymentDate time.Time, cutoff Cutoff, isNewMemberAtPayment bool) (effectiveYear, expiryYear int) {
	effectiveYear = feePaymentYear
	if !isNewMemberAtPayment && feePaymentDate.After(cutoff.DateIn(feePaymentYear)) {
		effectiveYear = feePaymentYear + 1
	}
	return effectiveYear, effectiveYear + 1
}
