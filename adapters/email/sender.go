// Package email provides outbound email delivery for operator notifications.
package email

import (
	"context"
	"errors"
	"strings"
	"time"
)

// SendRequest contains the data needed to send a single email
type SendRequest struct {
	To          []string // Recipient addresses
	From        string   // Sender address, the sender's default when empty
	Subject     string
	HTML        string // HTML body
	ReplyTo     string // Reply-to address, usually the client
	Attachments []Attachment
}

// Attachment is a file sent with the email
type Attachment struct {
	Filename string
	Content  []byte
}

// SendResult contains the response from the email provider
type SendResult struct {
	MessageID string    // Provider's message id for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender delivers emails
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// ErrNoRecipient is returned for requests without a To address
var ErrNoRecipient = errors.New("email has no recipient")

// Validate checks the fields every provider needs
func (r SendRequest) Validate() error {
	if len(r.To) == 0 || strings.TrimSpace(r.To[0]) == "" {
		return ErrNoRecipient
	}
	if strings.TrimSpace(r.Subject) == "" {
		return errors.New("email has no subject")
	}
	return nil
}
