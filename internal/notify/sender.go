// Package notify turns desk events into traveler notifications. The worker
// binary feeds it from the notifications topic.
package notify

import (
	"context"

	"github.com/alsafar-travels/umrahdesk/internal/events"
	"go.uber.org/zap"
)

type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	return &Sender{logger: logger}
}

// Send delivers one notification. The demo transport just logs; a real
// deployment would plug an SMS or email gateway in here.
func (s *Sender) Send(ctx context.Context, event events.DeskEvent) error {
	s.logger.Info("notification",
		zap.String("type", event.Type),
		zap.String("tenant", event.TenantID),
		zap.String("email", event.Email),
		zap.String("booking", event.BookingID),
		zap.Int("installment", event.InstallmentNumber),
		zap.Int("amount", event.Amount),
	)
	return nil
}
