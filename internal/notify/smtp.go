package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-helpdesk/internal/config"
)

// SMTPDispatcher sends email over SMTP. SMS has no live provider wired yet
// and is routed to the diagnostic log, matching the log-sink behavior.
type SMTPDispatcher struct {
	cfg    config.NotificationConfig
	logger *zap.Logger
	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPDispatcher builds a live email dispatcher.
func NewSMTPDispatcher(cfg config.NotificationConfig, logger *zap.Logger) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg, logger: logger, send: smtp.SendMail}
}

// Send delivers the notification on its channel.
func (d *SMTPDispatcher) Send(ctx context.Context, n Notification) error {
	switch n.Channel {
	case ChannelEmail:
		return d.sendEmail(n)
	case ChannelSMS:
		d.logger.Info("sms notification (no provider configured)",
			zap.String("to", n.To),
			zap.String("message", n.Body))
		return nil
	default:
		return fmt.Errorf("unknown notification channel %q", n.Channel)
	}
}

func (d *SMTPDispatcher) sendEmail(n Notification) error {
	addr := d.cfg.EmailHost + ":" + d.cfg.EmailPort
	auth := smtp.PlainAuth("", d.cfg.EmailUser, d.cfg.EmailPass, d.cfg.EmailHost)

	msg := []byte(fmt.Sprintf(
		"From: CRM Helpdesk <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		d.cfg.EmailFrom, n.To, n.Subject, n.Body))

	if err := d.send(addr, auth, d.cfg.EmailFrom, []string{n.To}, msg); err != nil {
		return fmt.Errorf("send email to %s: %w", n.To, err)
	}
	d.logger.Info("email sent", zap.String("to", n.To), zap.String("subject", n.Subject))
	return nil
}
