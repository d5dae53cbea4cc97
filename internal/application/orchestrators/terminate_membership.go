package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	memberstore "clubhouse/internal/adapters/storage/member"
	"clubhouse/internal/domain/audit"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/membership"
)

// MemberStoreForTerminate defines the store interface needed by termination.
type MemberStoreForTerminate interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
	SetInactiveAndClosePeriods(ctx context.Context, id string, closures []memberstore.PeriodClosure) error
}

// TerminateMembershipInput carries input for the termination orchestrator.
type TerminateMembershipInput struct {
	MemberID string
	EndDate  time.Time
	Reason   string
	ActorID  string
}

// TerminateMembershipDeps holds dependencies for TerminateMembership.
type TerminateMembershipDeps struct {
	MemberStore MemberStoreForTerminate
	PeriodStore PeriodStoreForSync
	AuditStore  AuditStoreForSync
	Now         func() time.Time
	GenerateID  func() string
}

var ErrNoOpenPeriod = errors.New("member has no open membership period")

// ExecuteTerminateMembership closes a member's open period with an explicit
// reason (withdrawal, death, expulsion) and sets the member inactive. The
// period close and the status write happen in one transaction so the cache
// never disagrees with the period state.
// PRE: Member exists with an open period; reason is a valid end reason
// POST: Open period closed with the given date and reason, member inactive
func ExecuteTerminateMembership(ctx context.Context, input TerminateMembershipInput, deps TerminateMembershipDeps) error {
	if input.MemberID == "" {
		return errors.New("member ID is required")
	}
	if !membership.IsValidEndReason(input.Reason) {
		return membership.ErrInvalidEndReason
	}
	endDate := input.EndDate
	if endDate.IsZero() {
		endDate = deps.Now()
	}

	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return err
	}

	periods, err := deps.PeriodStore.ListByMemberID(ctx, input.MemberID)
	if err != nil {
		return err
	}
	open := membership.OpenPeriods(periods)
	if len(open) == 0 {
		return ErrNoOpenPeriod
	}

	var closures []memberstore.PeriodClosure
	for _, p := range open {
		if endDate.Before(p.StartDate) {
			return membership.ErrEndBeforeStart
		}
		closures = append(closures, memberstore.PeriodClosure{
			PeriodID: p.ID,
			EndDate:  endDate,
			Reason:   input.Reason,
		})
	}
	if err := deps.MemberStore.SetInactiveAndClosePeriods(ctx, m.ID, closures); err != nil {
		return err
	}

	event := audit.NewEvent(deps.GenerateID(), deps.Now(), input.ActorID, audit.CategoryMembership, audit.ActionTerminate).
		WithSeverity(audit.SeverityWarning).
		WithResource("member", m.ID).
		WithDescription("membership terminated: " + input.Reason)
	if err := deps.AuditStore.Save(ctx, event); err != nil {
		slog.Error("audit_write_failed", "error", err)
	}

	slog.Info("member_event", "event", "membership_terminated",
		"member_id", m.ID, "reason", input.Reason)
	return nil
}
