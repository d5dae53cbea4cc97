package projections

import (
	"context"
	"time"

	memberstore "clubhouse/internal/adapters/storage/member"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/membership"
	"clubhouse/internal/domain/settings"
)

// GetMemberListQuery carries query parameters.
type GetMemberListQuery struct {
	OrganizationID string
	// Status filters by the cached status column. It is a fast pre-filter;
	// the reported detailed status is always derived fresh.
	Status string
	Search string
	Limit  int
	Offset int
	Sort   string
	Dir    string
}

// MemberListEntry is one member annotated with the derived detailed
// status and activity classification.
type MemberListEntry struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Lastname       string `json:"lastname"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	StatusReason   string `json:"statusReason,omitempty"`
	ActivityClass  string `json:"activityClass"`
	ActivityHours  int    `json:"activityHours"`
	CardNumber     string `json:"cardNumber,omitempty"`
	FeePaymentYear *int   `json:"feePaymentYear,omitempty"`
	// StatusStale is true when the cached status disagrees with the
	// derived one, i.e. the sync has not run since the change.
	StatusStale bool `json:"statusStale,omitempty"`
}

// GetMemberListResult carries the query result.
type GetMemberListResult struct {
	Members []MemberListEntry `json:"members"`
	Total   int               `json:"total"`
}

// MemberStoreForList defines the member store interface for the list query.
type MemberStoreForList interface {
	List(ctx context.Context, filter memberstore.ListFilter) ([]member.Member, error)
	Count(ctx context.Context, filter memberstore.ListFilter) (int, error)
}

// PeriodStoreForList defines the period store interface for the list query.
type PeriodStoreForList interface {
	ListByMemberID(ctx context.Context, memberID string) ([]membership.Period, error)
}

// SettingsStoreForList defines the settings store interface for the list query.
type SettingsStoreForList interface {
	GetByOrganizationID(ctx context.Context, organizationID string) (settings.RenewalSettings, error)
}

// GetMemberListDeps holds dependencies for GetMemberList.
type GetMemberListDeps struct {
	MemberStore   MemberStoreForList
	PeriodStore   PeriodStoreForList
	SettingsStore SettingsStoreForList
	Now           func() time.Time
}

// QueryGetMemberList retrieves members with their detailed status derived
// from periods and the fee record. An inactive member's activity hours are
// reported as zero regardless of the accumulated minutes.
// PRE: Valid query parameters
// POST: Returns annotated members plus the unpaginated total
func QueryGetMemberList(ctx context.Context, query GetMemberListQuery, deps GetMemberListDeps) (GetMemberListResult, error) {
	limit := query.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	filter := memberstore.ListFilter{
		Limit:          limit,
		Offset:         query.Offset,
		OrganizationID: query.OrganizationID,
		Status:         query.Status,
		Search:         query.Search,
		Sort:           query.Sort,
		Dir:            query.Dir,
	}

	members, err := deps.MemberStore.List(ctx, filter)
	if err != nil {
		return GetMemberListResult{}, err
	}
	total, err := deps.MemberStore.Count(ctx, filter)
	if err != nil {
		return GetMemberListResult{}, err
	}

	now := deps.Now()
	cfgCache := make(map[string]settings.RenewalSettings)

	result := GetMemberListResult{Total: total}
	for _, m := range members {
		cfg, ok := cfgCache[m.OrganizationID]
		if !ok {
			cfg, err = deps.SettingsStore.GetByOrganizationID(ctx, m.OrganizationID)
			if err != nil {
				return GetMemberListResult{}, err
			}
			cfgCache[m.OrganizationID] = cfg
		}

		periods, err := deps.PeriodStore.ListByMemberID(ctx, m.ID)
		if err != nil {
			return GetMemberListResult{}, err
		}

		derived := membership.Resolve(periods, membership.FeeRecordOf(m), cfg.Cutoff(), m.CreatedAt, now)

		entry := MemberListEntry{
			ID:             m.ID,
			Name:           m.Name,
			Lastname:       m.Lastname,
			Email:          m.Email,
			Role:           m.Role,
			Status:         derived.Status,
			StatusReason:   derived.Reason,
			CardNumber:     m.CardNumber,
			FeePaymentYear: m.FeePaymentYear,
			StatusStale:    derived.Status != m.Status,
		}

		if derived.Status == member.StatusInactive {
			entry.ActivityClass = membership.Classify(0, cfg.ActivityHoursThreshold)
			entry.ActivityHours = 0
		} else {
			entry.ActivityClass = membership.Classify(m.ActivityMinutes, cfg.ActivityHoursThreshold)
			entry.ActivityHours = m.ActivityMinutes / 60
		}

		result.Members = append(result.Members, entry)
	}

	return result, nil
}
