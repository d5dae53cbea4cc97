package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clubhouse/internal/domain/audit"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/membership"
)

// MemberStoreForFee defines the store interface needed by RecordFeePayment.
type MemberStoreForFee interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	Save(ctx context.Context, m member.Member) error
}

// PeriodStoreForFee defines the period store interface needed by RecordFeePayment.
type PeriodStoreForFee interface {
	ListOpenByMemberID(ctx context.Context, memberID string) ([]membership.Period, error)
	Save(ctx context.Context, p membership.Period) error
}

// RecordFeePaymentInput carries input for the fee payment orchestrator.
type RecordFeePaymentInput struct {
	MemberID    string
	PaymentYear int
	PaymentDate time.Time
	CardNumber  string
	ActorID     string
}

// RecordFeePaymentDeps holds dependencies for RecordFeePayment.
type RecordFeePaymentDeps struct {
	MemberStore MemberStoreForFee
	PeriodStore PeriodStoreForFee
	AuditStore  AuditStoreForSync
	Now         func() time.Time
	GenerateID  func() string
}

var ErrInvalidPaymentYear = errors.New("payment year is out of range")

// ExecuteRecordFeePayment records a membership fee payment. Both the year
// and the date are written together so the record is never partial. A
// member without an open period gets a new one starting on the payment
// date; the payment does not by itself change the cached status, the
// status sync does that.
// PRE: Member exists; payment year is plausible
// POST: Fee fields set, card number updated if provided, open period ensured
func ExecuteRecordFeePayment(ctx context.Context, input RecordFeePaymentInput, deps RecordFeePaymentDeps) error {
	if input.MemberID == "" {
		return errors.New("member ID is required")
	}
	if input.PaymentYear < 2000 || input.PaymentYear > deps.Now().Year()+1 {
		return ErrInvalidPaymentYear
	}
	if input.PaymentDate.IsZero() {
		return errors.New("payment date is required")
	}

	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return err
	}

	year := input.PaymentYear
	date := input.PaymentDate
	m.FeePaymentYear = &year
	m.FeePaymentDate = &date
	if input.CardNumber != "" {
		m.CardNumber = input.CardNumber
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return err
	}

	open, err := deps.PeriodStore.ListOpenByMemberID(ctx, input.MemberID)
	if err != nil {
		return err
	}
	if len(open) == 0 {
		p := membership.Period{
			ID:        deps.GenerateID(),
			MemberID:  input.MemberID,
			StartDate: input.PaymentDate,
		}
		if err := deps.PeriodStore.Save(ctx, p); err != nil {
			return err
		}
		slog.Info("member_event", "event", "period_opened", "member_id", input.MemberID, "period_id", p.ID)
	}

	event := audit.NewEvent(deps.GenerateID(), deps.Now(), input.ActorID, audit.CategoryMembership, audit.ActionUpdate).
		WithResource("member", input.MemberID).
		WithDescription(fmt.Sprintf("fee payment recorded for %d", input.PaymentYear))
	if err := deps.AuditStore.Save(ctx, event); err != nil {
		slog.Error("audit_write_failed", "error", err)
	}

	slog.Info("member_event", "event", "fee_payment_recorded",
		"member_id", input.MemberID, "payment_year", input.PaymentYear)
	return nil
}
