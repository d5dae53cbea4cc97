package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"clubhouse/internal/domain/audit"
	"clubhouse/internal/domain/member"
)

// MemberStoreForRegister defines the store interface needed by RegisterMember.
type MemberStoreForRegister interface {
	GetByEmail(ctx context.Context, email string) (member.Member, error)
	Save(ctx context.Context, m member.Member) error
}

// RegisterMemberInput carries input for the member registration orchestrator.
type RegisterMemberInput struct {
	OrganizationID string
	Name           string
	Lastname       string
	Email          string
	ActorID        string
}

// RegisterMemberDeps holds dependencies for RegisterMember.
type RegisterMemberDeps struct {
	MemberStore MemberStoreForRegister
	AuditStore  AuditStoreForSync
	Now         func() time.Time
	GenerateID  func() string
}

var ErrEmailTaken = errors.New("a member with this email already exists")

// ExecuteRegisterMember creates a new member in pending status. The member
// becomes registered once a card number is recorded and the status sync
// picks it up.
// PRE: Email is not used by another member
// POST: Member persisted with status pending
func ExecuteRegisterMember(ctx context.Context, input RegisterMemberInput, deps RegisterMemberDeps) (member.Member, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := deps.MemberStore.GetByEmail(ctx, email); err == nil {
		return member.Member{}, ErrEmailTaken
	}

	m := member.Member{
		ID:             deps.GenerateID(),
		OrganizationID: input.OrganizationID,
		Name:           strings.TrimSpace(input.Name),
		Lastname:       strings.TrimSpace(input.Lastname),
		Email:          email,
		Role:           member.RoleMember,
		Status:         member.StatusPending,
		CreatedAt:      deps.Now(),
	}
	if err := m.Validate(); err != nil {
		return member.Member{}, err
	}

	if err := deps.MemberStore.Save(ctx, m); err != nil {
		return member.Member{}, err
	}

	event := audit.NewEvent(deps.GenerateID(), m.CreatedAt, input.ActorID, audit.CategoryMember, audit.ActionCreate).
		WithResource("member", m.ID).
		WithDescription("member registered: " + m.Email)
	if err := deps.AuditStore.Save(ctx, event); err != nil {
		slog.Error("audit_write_failed", "error", err)
	}

	slog.Info("member_event", "event", "member_created", "member_id", m.ID, "organization_id", m.OrganizationID)
	return m, nil
}
