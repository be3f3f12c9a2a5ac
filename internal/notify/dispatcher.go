package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-helpdesk/internal/config"
)

// Channel selects the delivery medium.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Notification is a single best-effort alert.
type Notification struct {
	To      string
	Subject string
	Body    string
	Channel Channel
}

// Dispatcher delivers notifications. Delivery is best-effort: callers log
// failures and move on, they never retry or roll back the triggering
// mutation.
type Dispatcher interface {
	Send(ctx context.Context, n Notification) error
}

// NewDispatcher selects the implementation at process start: live SMTP when
// credentials are configured, otherwise the diagnostic log sink.
func NewDispatcher(cfg config.NotificationConfig, logger *zap.Logger) Dispatcher {
	if cfg.LiveEmail() {
		return NewSMTPDispatcher(cfg, logger)
	}
	logger.Info("no notification credentials configured; using log sink")
	return NewLogDispatcher(logger)
}
