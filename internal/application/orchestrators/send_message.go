package orchestrators

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/yuin/goldmark"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/domain/audit"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/message"
)

// MessageStoreForSend defines the store interface needed by SendMessage.
type MessageStoreForSend interface {
	Save(ctx context.Context, m message.Message) error
}

// MemberStoreForSend defines the member store interface needed by SendMessage.
type MemberStoreForSend interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// SendMessageInput carries input for the message orchestrator.
type SendMessageInput struct {
	SenderID   string
	ReceiverID string
	Subject    string
	Content    string // markdown
	// NotifyByEmail also delivers the rendered message to the member's
	// email address.
	NotifyByEmail bool
}

// SendMessageDeps holds dependencies for SendMessage.
type SendMessageDeps struct {
	MessageStore MessageStoreForSend
	MemberStore  MemberStoreForSend
	AuditStore   AuditStoreForSync
	EmailSender  email.Sender
	Now          func() time.Time
	GenerateID   func() string
}

// ExecuteSendMessage stores a direct message to a member and optionally
// notifies them by email with the markdown content rendered to HTML.
// Email delivery failure does not fail the message; it is stored either way.
// PRE: Receiver exists; content is non-empty
// POST: Message persisted unread
func ExecuteSendMessage(ctx context.Context, input SendMessageInput, deps SendMessageDeps) (message.Message, error) {
	recipient, err := deps.MemberStore.GetByID(ctx, input.ReceiverID)
	if err != nil {
		return message.Message{}, err
	}

	msg := message.Message{
		ID:         deps.GenerateID(),
		SenderID:   input.SenderID,
		ReceiverID: input.ReceiverID,
		Subject:    input.Subject,
		Content:    input.Content,
		CreatedAt:  deps.Now(),
	}
	if err := msg.Validate(); err != nil {
		return message.Message{}, err
	}
	if err := deps.MessageStore.Save(ctx, msg); err != nil {
		return message.Message{}, err
	}

	if input.NotifyByEmail && deps.EmailSender != nil {
		var html bytes.Buffer
		if err := goldmark.Convert([]byte(msg.Content), &html); err != nil {
			slog.Error("message_render_failed", "message_id", msg.ID, "error", err)
		} else {
			_, err := deps.EmailSender.Send(ctx, email.SendRequest{
				To:      recipient.Email,
				Subject: msg.Subject,
				HTML:    html.String(),
			})
			if err != nil {
				slog.Error("message_email_failed", "message_id", msg.ID, "error", err)
			}
		}
	}

	event := audit.NewEvent(deps.GenerateID(), msg.CreatedAt, input.SenderID, audit.CategoryMessage, audit.ActionCreate).
		WithResource("message", msg.ID)
	if err := deps.AuditStore.Save(ctx, event); err != nil {
		slog.Error("audit_write_failed", "error", err)
	}

	slog.Info("message_event", "event", "message_sent", "message_id", msg.ID, "receiver_id", msg.ReceiverID)
	return msg, nil
}
