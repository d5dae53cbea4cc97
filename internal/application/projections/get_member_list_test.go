package projections

import (
	"context"
	"testing"
	"time"

	memberstore "clubhouse/internal/adapters/storage/member"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/membership"
	"clubhouse/internal/domain/settings"
)

// mockMemberStoreForList implements MemberStoreForList for testing.
type mockMemberStoreForList struct {
	members []member.Member
}

func (s *mockMemberStoreForList) List(_ context.Context, _ memberstore.ListFilter) ([]member.Member, error) {
	return s.members, nil
}

func (s *mockMemberStoreForList) Count(_ context.Context, _ memberstore.ListFilter) (int, error) {
	return len(s.members), nil
}

// mockPeriodStoreForList implements PeriodStoreForList for testing.
type mockPeriodStoreForList struct {
	periods map[string][]membership.Period
}

func (s *mockPeriodStoreForList) ListByMemberID(_ context.Context, memberID string) ([]membership.Period, error) {
	return s.periods[memberID], nil
}

// mockSettingsStoreForList returns defaults for every organization.
type mockSettingsStoreForList struct{}

func (mockSettingsStoreForList) GetByOrganizationID(_ context.Context, organizationID string) (settings.RenewalSettings, error) {
	return settings.Default(organizationID), nil
}

var listTestNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func listTestDeps(members *mockMemberStoreForList, periods *mockPeriodStoreForList) GetMemberListDeps {
	return GetMemberListDeps{
		MemberStore:   members,
		PeriodStore:   periods,
		SettingsStore: mockSettingsStoreForList{},
		Now:           func() time.Time { return listTestNow },
	}
}

func listIntPtr(v int) *int { return &v }

func listTimePtr(t time.Time) *time.Time { return &t }

// TestQueryGetMemberList_DerivesStatus tests that the reported status comes
// from the period and fee state, not the cached column.
func TestQueryGetMemberList_DerivesStatus(t *testing.T) {
	paymentDate := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)
	members := &mockMemberStoreForList{members: []member.Member{
		{
			ID: "m1", OrganizationID: "org1", Name: "Liisa", Email: "liisa@example.com",
			Role: member.RoleMember, Status: member.StatusRegistered,
			FeePaymentYear: listIntPtr(2023), FeePaymentDate: listTimePtr(paymentDate),
			ActivityMinutes: 1500,
			CreatedAt:       time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		},
	}}
	periods := &mockPeriodStoreForList{periods: map[string][]membership.Period{
		"m1": {{ID: "p1", MemberID: "m1", StartDate: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)}},
	}}

	result, err := QueryGetMemberList(context.Background(), GetMemberListQuery{}, listTestDeps(members, periods))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Members) != 1 {
		t.Fatalf("expected one member, got %d", len(result.Members))
	}
	entry := result.Members[0]
	// Payment for 2023 lapsed after 2024; the cache still says registered.
	if entry.Status != member.StatusInactive {
		t.Errorf("expected derived status inactive, got %s", entry.Status)
	}
	if entry.StatusReason != membership.ReasonNonPayment {
		t.Errorf("expected reason non_payment, got %s", entry.StatusReason)
	}
	if !entry.StatusStale {
		t.Error("expected StatusStale when cache disagrees with derived status")
	}
}

// TestQueryGetMemberList_InactiveHoursZeroed tests that inactive members
// report zero activity hours and a passive classification.
func TestQueryGetMemberList_InactiveHoursZeroed(t *testing.T) {
	members := &mockMemberStoreForList{members: []member.Member{
		{
			ID: "m1", OrganizationID: "org1", Name: "Entinen", Email: "entinen@example.com",
			Role: member.RoleMember, Status: member.StatusInactive,
			ActivityMinutes: 3000,
			CreatedAt:       time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		},
	}}
	periods := &mockPeriodStoreForList{periods: map[string][]membership.Period{
		"m1": {{
			ID: "p1", MemberID: "m1",
			StartDate: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
			EndDate:   listTimePtr(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)),
			EndReason: membership.EndReasonWithdrawal,
		}},
	}}

	result, err := QueryGetMemberList(context.Background(), GetMemberListQuery{}, listTestDeps(members, periods))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry := result.Members[0]
	if entry.Status != member.StatusInactive || entry.StatusReason != membership.ReasonFormerMember {
		t.Errorf("expected inactive former member, got %s/%s", entry.Status, entry.StatusReason)
	}
	if entry.ActivityHours != 0 {
		t.Errorf("expected zeroed hours for inactive member, got %d", entry.ActivityHours)
	}
	if entry.ActivityClass != membership.ClassPassive {
		t.Errorf("expected passive class, got %s", entry.ActivityClass)
	}
	if entry.StatusStale {
		t.Error("expected no stale flag when cache matches derived status")
	}
}

// TestQueryGetMemberList_ActiveClassification tests the activity threshold.
func TestQueryGetMemberList_ActiveClassification(t *testing.T) {
	members := &mockMemberStoreForList{members: []member.Member{
		{
			ID: "m1", OrganizationID: "org1", Name: "Ahkera", Email: "ahkera@example.com",
			Role: member.RoleMember, Status: member.StatusRegistered,
			FeePaymentYear:  listIntPtr(2026),
			FeePaymentDate:  listTimePtr(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)),
			ActivityMinutes: 1200,
			CreatedAt:       time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		},
	}}
	periods := &mockPeriodStoreForList{periods: map[string][]membership.Period{
		"m1": {{ID: "p1", MemberID: "m1", StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)}},
	}}

	result, err := QueryGetMemberList(context.Background(), GetMemberListQuery{}, listTestDeps(members, periods))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entry := result.Members[0]
	if entry.Status != member.StatusRegistered {
		t.Errorf("expected registered, got %s", entry.Status)
	}
	// 1200 minutes is exactly the default 20 hour threshold.
	if entry.ActivityClass != membership.ClassActive {
		t.Errorf("expected active class at the threshold, got %s", entry.ActivityClass)
	}
	if entry.ActivityHours != 20 {
		t.Errorf("expected 20 hours, got %d", entry.ActivityHours)
	}
}
