package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// LogDispatcher records deliveries as structured log entries. It stands in
// for live providers in environments without credentials so the lifecycle
// manager's contract stays the same.
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher builds the diagnostic sink.
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Send records the notification and reports success.
func (d *LogDispatcher) Send(ctx context.Context, n Notification) error {
	switch n.Channel {
	case ChannelEmail, ChannelSMS:
	default:
		return fmt.Errorf("unknown notification channel %q", n.Channel)
	}
	d.logger.Info("mock notification",
		zap.String("channel", string(n.Channel)),
		zap.String("to", n.To),
		zap.String("subject", n.Subject),
		zap.String("message", n.Body),
	)
	return nil
}
