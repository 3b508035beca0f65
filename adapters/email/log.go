package email

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"retreat-quote/internal/logging"
)

// LogSender logs emails instead of sending them. It keeps what it was given
// so local runs and tests can inspect it.
type LogSender struct {
	mu   sync.Mutex
	sent []SendRequest
}

// NewLogSender creates a log-only sender
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send records and logs the request
func (s *LogSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if err := req.Validate(); err != nil {
		return SendResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}

	s.mu.Lock()
	s.sent = append(s.sent, req)
	s.mu.Unlock()

	id := uuid.NewString()
	logging.Info("email not sent (log sender)",
		zap.String("message_id", id),
		logging.Recipients("to", req.To),
		zap.String("subject", req.Subject),
		zap.Int("html_bytes", len(req.HTML)),
		zap.Int("attachments", len(req.Attachments)))
	return SendResult{MessageID: id, SentAt: time.Now()}, nil
}

// Sent returns a copy of every request received so far
func (s *LogSender) Sent() []SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SendRequest, len(s.sent))
	copy(out, s.sent)
	return out
}
