package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send a notification email.
type SendRequest struct {
	To      string // Recipient email address
	From    string // Sender address, falls back to the configured default
	Subject string
	HTML    string // HTML body
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
