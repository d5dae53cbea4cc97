package projections

import (
	"context"
	"time"

	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/membership"
)

// MemberStoreForProfile defines the member store interface for the profile query.
type MemberStoreForProfile interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// PeriodEntry is one membership period in the profile.
type PeriodEntry struct {
	ID        string     `json:"id"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	EndReason string     `json:"endReason,omitempty"`
}

// GetMemberProfileResult carries the profile query result.
type GetMemberProfileResult struct {
	Member        member.Member `json:"member"`
	Status        string        `json:"status"`
	StatusReason  string        `json:"statusReason,omitempty"`
	ActivityClass string        `json:"activityClass"`
	ExpiryYear    *int          `json:"expiryYear,omitempty"`
	Periods       []PeriodEntry `json:"periods"`
}

// GetMemberProfileDeps holds dependencies for GetMemberProfile.
type GetMemberProfileDeps struct {
	MemberStore   MemberStoreForProfile
	PeriodStore   PeriodStoreForList
	SettingsStore SettingsStoreForList
	Now           func() time.Time
}

// QueryGetMemberProfile retrieves one member with their full period history,
// derived detailed status, and fee coverage.
// PRE: Member exists
// POST: Returns the member with derived annotations
func QueryGetMemberProfile(ctx context.Context, memberID string, deps GetMemberProfileDeps) (GetMemberProfileResult, error) {
	m, err := deps.MemberStore.GetByID(ctx, memberID)
	if err != nil {
		return GetMemberProfileResult{}, err
	}
	periods, err := deps.PeriodStore.ListByMemberID(ctx, memberID)
	if err != nil {
		return GetMemberProfileResult{}, err
	}
	cfg, err := deps.SettingsStore.GetByOrganizationID(ctx, m.OrganizationID)
	if err != nil {
		return GetMemberProfileResult{}, err
	}

	now := deps.Now()
	fee := membership.FeeRecordOf(m)
	derived := membership.Resolve(periods, fee, cfg.Cutoff(), m.CreatedAt, now)

	result := GetMemberProfileResult{
		Member:       m,
		Status:       derived.Status,
		StatusReason: derived.Reason,
	}
	if derived.Status == member.StatusInactive {
		result.ActivityClass = membership.Classify(0, cfg.ActivityHoursThreshold)
	} else {
		result.ActivityClass = membership.Classify(m.ActivityMinutes, cfg.ActivityHoursThreshold)
	}
	if fee.Valid() {
		isNew := membership.IsNewMemberAtPayment(periods, *fee.PaymentYear)
		_, expiryYear := membership.EffectiveYear(*fee.PaymentYear, *fee.PaymentDate, cfg.Cutoff(), isNew)
		result.ExpiryYear = &expiryYear
	}
	for _, p := range periods {
		result.Periods = append(result.Periods, PeriodEntry{
			ID:        p.ID,
			StartDate: p.StartDate,
			EndDate:   p.EndDate,
			EndReason: p.EndReason,
		})
	}
	return result, nil
}
