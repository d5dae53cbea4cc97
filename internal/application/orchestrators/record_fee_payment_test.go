package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/membership"
)

// mockMemberStoreForFee implements MemberStoreForFee for testing.
type mockMemberStoreForFee struct {
	members map[string]member.Member
}

func (s *mockMemberStoreForFee) GetByID(_ context.Context, id string) (member.Member, error) {
	m, ok := s.members[id]
	if !ok {
		return member.Member{}, errors.New("not found")
	}
	return m, nil
}

func (s *mockMemberStoreForFee) Save(_ context.Context, m member.Member) error {
	s.members[m.ID] = m
	return nil
}

// mockPeriodStoreForFee implements PeriodStoreForFee for testing.
type mockPeriodStoreForFee struct {
	periods map[string][]membership.Period
}

func (s *mockPeriodStoreForFee) ListOpenByMemberID(_ context.Context, memberID string) ([]membership.Period, error) {
	return membership.OpenPeriods(s.periods[memberID]), nil
}

func (s *mockPeriodStoreForFee) Save(_ context.Context, p membership.Period) error {
	s.periods[p.MemberID] = append(s.periods[p.MemberID], p)
	return nil
}

func feeTestDeps(members *mockMemberStoreForFee, periods *mockPeriodStoreForFee) RecordFeePaymentDeps {
	return RecordFeePaymentDeps{
		MemberStore: members,
		PeriodStore: periods,
		AuditStore:  &mockAuditStoreForSync{},
		Now:         fixedSyncNow,
		GenerateID:  fixedSyncID,
	}
}

// TestExecuteRecordFeePayment_OpensPeriod tests that paying without an open
// period opens one starting on the payment date.
func TestExecuteRecordFeePayment_OpensPeriod(t *testing.T) {
	members := &mockMemberStoreForFee{members: map[string]member.Member{
		"m1": {ID: "m1", OrganizationID: "org1", Status: member.StatusPending, CreatedAt: fixedSyncTime},
	}}
	periods := &mockPeriodStoreForFee{periods: make(map[string][]membership.Period)}

	paymentDate := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	err := ExecuteRecordFeePayment(context.Background(), RecordFeePaymentInput{
		MemberID:    "m1",
		PaymentYear: 2026,
		PaymentDate: paymentDate,
		CardNumber:  "C-5001",
		ActorID:     "admin-001",
	}, feeTestDeps(members, periods))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := members.members["m1"]
	if m.FeePaymentYear == nil || *m.FeePaymentYear != 2026 {
		t.Errorf("expected payment year 2026, got %v", m.FeePaymentYear)
	}
	if m.FeePaymentDate == nil || !m.FeePaymentDate.Equal(paymentDate) {
		t.Errorf("expected payment date recorded, got %v", m.FeePaymentDate)
	}
	if m.CardNumber != "C-5001" {
		t.Errorf("expected card number set, got %q", m.CardNumber)
	}
	if m.Status != member.StatusPending {
		t.Errorf("expected status untouched by payment, got %s", m.Status)
	}
	open := membership.OpenPeriods(periods.periods["m1"])
	if len(open) != 1 || !open[0].StartDate.Equal(paymentDate) {
		t.Fatalf("expected one open period starting on payment date, got %v", periods.periods["m1"])
	}
}

// TestExecuteRecordFeePayment_KeepsExistingPeriod tests that a renewal does
// not open a second period.
func TestExecuteRecordFeePayment_KeepsExistingPeriod(t *testing.T) {
	members := &mockMemberStoreForFee{members: map[string]member.Member{
		"m1": {ID: "m1", OrganizationID: "org1", Status: member.StatusRegistered, CreatedAt: fixedSyncTime},
	}}
	periods := &mockPeriodStoreForFee{periods: map[string][]membership.Period{
		"m1": {openPeriodSince("p1", "m1", time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC))},
	}}

	err := ExecuteRecordFeePayment(context.Background(), RecordFeePaymentInput{
		MemberID:    "m1",
		PaymentYear: 2026,
		PaymentDate: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		ActorID:     "admin-001",
	}, feeTestDeps(members, periods))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(periods.periods["m1"]); got != 1 {
		t.Errorf("expected still one period, got %d", got)
	}
}

// TestExecuteRecordFeePayment_RejectsBadYear tests the payment year bounds.
func TestExecuteRecordFeePayment_RejectsBadYear(t *testing.T) {
	members := &mockMemberStoreForFee{members: map[string]member.Member{
		"m1": {ID: "m1", OrganizationID: "org1", Status: member.StatusPending, CreatedAt: fixedSyncTime},
	}}
	periods := &mockPeriodStoreForFee{periods: make(map[string][]membership.Period)}

	for _, year := range []int{1999, 2030} {
		err := ExecuteRecordFeePayment(context.Background(), RecordFeePaymentInput{
			MemberID:    "m1",
			PaymentYear: year,
			PaymentDate: fixedSyncTime,
		}, feeTestDeps(members, periods))
		if !errors.Is(err, ErrInvalidPaymentYear) {
			t.Errorf("year %d: expected ErrInvalidPaymentYear, got %v", year, err)
		}
	}
}
