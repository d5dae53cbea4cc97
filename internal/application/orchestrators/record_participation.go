package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	activitydomain "clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/audit"
)

// ActivityStoreForParticipation defines the store interface needed by
// RecordParticipation.
type ActivityStoreForParticipation interface {
	GetByID(ctx context.Context, id string) (activitydomain.Activity, error)
	SaveParticipation(ctx context.Context, p activitydomain.Participation) error
	ListParticipations(ctx context.Context, activityID string) ([]activitydomain.Participation, error)
}

// MemberStoreForParticipation defines the member store interface needed by
// RecordParticipation.
type MemberStoreForParticipation interface {
	AddActivityMinutes(ctx context.Context, id string, minutes int) error
}

// RecordParticipationInput carries input for the participation orchestrator.
type RecordParticipationInput struct {
	ActivityID string
	MemberID   string
	// Minutes overrides the activity's recognized minutes when positive.
	Minutes int
	ActorID string
}

// RecordParticipationDeps holds dependencies for RecordParticipation.
type RecordParticipationDeps struct {
	ActivityStore ActivityStoreForParticipation
	MemberStore   MemberStoreForParticipation
	AuditStore    AuditStoreForSync
	Now           func() time.Time
	GenerateID    func() string
}

var ErrAlreadyParticipating = errors.New("member already has a participation for this activity")

// ExecuteRecordParticipation credits a member with recognized minutes for
// an activity. The credited minutes default to the activity's recognized
// minutes and accumulate on the member for the activity classification.
// PRE: Activity exists; member has no prior participation for it
// POST: Participation persisted, member's activity minutes increased
func ExecuteRecordParticipation(ctx context.Context, input RecordParticipationInput, deps RecordParticipationDeps) (activitydomain.Participation, error) {
	act, err := deps.ActivityStore.GetByID(ctx, input.ActivityID)
	if err != nil {
		return activitydomain.Participation{}, err
	}

	existing, err := deps.ActivityStore.ListParticipations(ctx, input.ActivityID)
	if err != nil {
		return activitydomain.Participation{}, err
	}
	for _, p := range existing {
		if p.MemberID == input.MemberID {
			return activitydomain.Participation{}, ErrAlreadyParticipating
		}
	}

	minutes := act.RecognizedMinutes
	if input.Minutes > 0 {
		minutes = input.Minutes
	}

	p := activitydomain.Participation{
		ID:         deps.GenerateID(),
		ActivityID: input.ActivityID,
		MemberID:   input.MemberID,
		Minutes:    minutes,
		CreatedAt:  deps.Now(),
	}
	if err := p.Validate(); err != nil {
		return activitydomain.Participation{}, err
	}
	if err := deps.ActivityStore.SaveParticipation(ctx, p); err != nil {
		return activitydomain.Participation{}, err
	}
	if err := deps.MemberStore.AddActivityMinutes(ctx, input.MemberID, minutes); err != nil {
		return activitydomain.Participation{}, err
	}

	event := audit.NewEvent(deps.GenerateID(), p.CreatedAt, input.ActorID, audit.CategoryActivity, audit.ActionCreate).
		WithResource("participation", p.ID).
		WithDescription("participation recorded")
	if err := deps.AuditStore.Save(ctx, event); err != nil {
		slog.Error("audit_write_failed", "error", err)
	}

	slog.Info("activity_event", "event", "participation_recorded",
		"activity_id", input.ActivityID, "member_id", input.MemberID, "minutes", minutes)
	return p, nil
}
