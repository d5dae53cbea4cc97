package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	memberstore "clubhouse/internal/adapters/storage/member"
	"clubhouse/internal/domain/audit"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/membership"
	"clubhouse/internal/domain/settings"
)

// MemberStoreForSync defines the store interface needed by the status sync.
type MemberStoreForSync interface {
	List(ctx context.Context, filter memberstore.ListFilter) ([]member.Member, error)
	UpdateStatus(ctx context.Context, id, status string, registrationCompleted bool) error
	SetInactiveAndClosePeriods(ctx context.Context, id string, closures []memberstore.PeriodClosure) error
}

// PeriodStoreForSync defines the period store interface needed by the sync.
type PeriodStoreForSync interface {
	ListByMemberID(ctx context.Context, memberID string) ([]membership.Period, error)
}

// SettingsStoreForSync defines the settings store interface needed by the sync.
type SettingsStoreForSync interface {
	GetByOrganizationID(ctx context.Context, organizationID string) (settings.RenewalSettings, error)
}

// AuditStoreForSync defines the audit store interface needed by the sync.
type AuditStoreForSync interface {
	Save(ctx context.Context, event audit.Event) error
}

// SyncMemberStatusesInput carries input for the status sync orchestrator.
type SyncMemberStatusesInput struct {
	ActorID string
}

// SyncMemberStatusesDeps holds dependencies for SyncMemberStatuses.
type SyncMemberStatusesDeps struct {
	MemberStore   MemberStoreForSync
	PeriodStore   PeriodStoreForSync
	SettingsStore SettingsStoreForSync
	AuditStore    AuditStoreForSync
	Now           func() time.Time
	GenerateID    func() string
}

// SyncMemberStatusesResult is the outcome of one sync run.
type SyncMemberStatusesResult struct {
	Success              bool   `json:"success"`
	Message              string `json:"message"`
	UpdatedCount         int    `json:"updatedCount"`
	InactiveUpdatedCount int    `json:"inactiveUpdatedCount"`
}

// syncPageSize is the page size for the full member scan.
const syncPageSize = 500

// ExecuteSyncMemberStatuses reconciles every member's cached status with
// the status derived from their period history and fee record.
//
// Pass A registers any member holding a card number whose cache still says
// otherwise: pending members are promoted and a registered member with a
// stale completion flag is repaired. Inactive members are excluded; a card
// alone does not revive a closed membership, only a new fee payment does.
// Pass B sets members whose fee record has lapsed to inactive and closes
// their open periods at December 31 of each period's own start year with
// reason non_payment. Administrators and superusers are never demoted.
// Each member is reconciled independently; a failure on one member is
// recorded and the run continues with the next. Running the sync twice in
// a row changes nothing on the second run.
//
// PRE: stores are reachable
// POST: status caches match derived statuses for all members that did not
// individually fail; every change is audited per member, plus one event
// for the run
func ExecuteSyncMemberStatuses(ctx context.Context, input SyncMemberStatusesInput, deps SyncMemberStatusesDeps) SyncMemberStatusesResult {
	now := deps.Now()
	result := SyncMemberStatusesResult{Success: true}
	failed := 0

	// Page through the full member table; a flat List call would stop at
	// the store's default limit.
	var members []member.Member
	for offset := 0; ; offset += syncPageSize {
		page, err := deps.MemberStore.List(ctx, memberstore.ListFilter{Limit: syncPageSize, Offset: offset})
		if err != nil {
			slog.Error("status_sync_failed", "error", err)
			return SyncMemberStatusesResult{
				Success: false,
				Message: fmt.Sprintf("failed to list members: %v", err),
			}
		}
		members = append(members, page...)
		if len(page) < syncPageSize {
			break
		}
	}

	recordMemberEvent := func(action audit.Action, memberID, description string) {
		event := audit.NewEvent(deps.GenerateID(), now, input.ActorID, audit.CategoryMembership, action).
			WithResource("member", memberID).
			WithDescription(description)
		if err := deps.AuditStore.Save(ctx, event); err != nil {
			slog.Error("audit_write_failed", "member_id", memberID, "error", err)
		}
	}

	// Renewal settings are per organization; fetch each at most once.
	cutoffs := map[string]membership.Cutoff{}
	cutoffFor := func(organizationID string) (membership.Cutoff, error) {
		if cutoff, ok := cutoffs[organizationID]; ok {
			return cutoff, nil
		}
		cfg, err := deps.SettingsStore.GetByOrganizationID(ctx, organizationID)
		if err != nil {
			return membership.Cutoff{}, err
		}
		cutoff := cfg.Cutoff()
		cutoffs[organizationID] = cutoff
		return cutoff, nil
	}

	for _, m := range members {
		// Pass A: a member who has been issued a card is a completed
		// registration, whether the cache says pending or carries a stale
		// completion flag.
		if m.HasCard() && m.Status != member.StatusInactive &&
			(m.Status != member.StatusRegistered || !m.RegistrationCompleted) {
			if err := deps.MemberStore.UpdateStatus(ctx, m.ID, member.StatusRegistered, true); err != nil {
				slog.Error("status_sync_member_failed", "member_id", m.ID, "error", err)
				failed++
				continue
			}
			result.UpdatedCount++
			m.Status = member.StatusRegistered
			m.RegistrationCompleted = true
			slog.Info("member_event", "event", "member_registered", "member_id", m.ID)
			recordMemberEvent(audit.ActionRegister, m.ID, "registered after card issuance")
		}

		// Pass B: demotion applies only to members; operators keep access
		// regardless of their fee record.
		if m.Status != member.StatusRegistered || m.IsOperator() {
			continue
		}

		periods, err := deps.PeriodStore.ListByMemberID(ctx, m.ID)
		if err != nil {
			slog.Error("status_sync_member_failed", "member_id", m.ID, "error", err)
			failed++
			continue
		}
		if err := membership.CheckInvariant(periods); err != nil {
			slog.Error("status_sync_member_skipped", "member_id", m.ID, "error", err)
			failed++
			continue
		}

		cutoff, err := cutoffFor(m.OrganizationID)
		if err != nil {
			slog.Error("status_sync_member_failed", "member_id", m.ID, "error", err)
			failed++
			continue
		}

		derived := membership.Resolve(periods, membership.FeeRecordOf(m), cutoff, m.CreatedAt, now)
		if derived.Status != member.StatusInactive {
			continue
		}

		var closures []memberstore.PeriodClosure
		for _, p := range membership.OpenPeriods(periods) {
			closures = append(closures, memberstore.PeriodClosure{
				PeriodID: p.ID,
				EndDate:  time.Date(p.StartDate.Year(), time.December, 31, 0, 0, 0, 0, time.UTC),
				Reason:   membership.EndReasonNonPayment,
			})
		}
		if err := deps.MemberStore.SetInactiveAndClosePeriods(ctx, m.ID, closures); err != nil {
			slog.Error("status_sync_member_failed", "member_id", m.ID, "error", err)
			failed++
			continue
		}
		result.InactiveUpdatedCount++
		slog.Info("member_event", "event", "member_set_inactive",
			"member_id", m.ID, "reason", derived.Reason)
		recordMemberEvent(audit.ActionDeactivate, m.ID, "set inactive for non-payment")
	}

	if failed > 0 {
		result.Success = false
		result.Message = fmt.Sprintf("status sync finished with %d failed members", failed)
	} else {
		result.Message = "member statuses synchronized"
	}

	event := audit.NewEvent(deps.GenerateID(), now, input.ActorID, audit.CategoryMembership, audit.ActionSync).
		WithDescription(result.Message).
		WithMetadata(fmt.Sprintf(`{"updatedCount":%d,"inactiveUpdatedCount":%d,"failed":%d}`,
			result.UpdatedCount, result.InactiveUpdatedCount, failed))
	if !result.Success {
		event = event.WithSeverity(audit.SeverityWarning).WithResult("failure")
	}
	if err := deps.AuditStore.Save(ctx, event); err != nil {
		slog.Error("audit_write_failed", "error", err)
	}

	slog.Info("status_sync_complete",
		"promoted", result.UpdatedCount,
		"set_inactive", result.InactiveUpdatedCount,
		"failed", failed)
	return result
}
