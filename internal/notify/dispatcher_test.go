package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-helpdesk/internal/config"
)

func smtpConfig() config.NotificationConfig {
	return config.NotificationConfig{
		EmailHost: "mail.example.com",
		EmailPort: "587",
		EmailUser: "mailer",
		EmailPass: "secret",
		EmailFrom: "helpdesk@example.com",
	}
}

func TestNewDispatcher(t *testing.T) {
	logger := zap.NewNop()

	t.Run("LiveCredentialsPickSMTP", func(t *testing.T) {
		d := NewDispatcher(smtpConfig(), logger)
		_, ok := d.(*SMTPDispatcher)
		assert.True(t, ok)
	})

	t.Run("MissingCredentialsFallBackToLogSink", func(t *testing.T) {
		d := NewDispatcher(config.NotificationConfig{}, logger)
		_, ok := d.(*LogDispatcher)
		assert.True(t, ok)
	})
}

func TestLogDispatcherSend(t *testing.T) {
	d := NewLogDispatcher(zap.NewNop())

	assert.NoError(t, d.Send(context.Background(), Notification{
		To: "x@example.com", Subject: "hi", Body: "hello", Channel: ChannelEmail,
	}))
	assert.NoError(t, d.Send(context.Background(), Notification{
		To: "+15550001111", Body: "hello", Channel: ChannelSMS,
	}))
	assert.Error(t, d.Send(context.Background(), Notification{
		To: "x@example.com", Channel: Channel("carrier-pigeon"),
	}))
}

func TestSMTPDispatcherSend(t *testing.T) {
	t.Run("EmailGoesThroughSMTP", func(t *testing.T) {
		d := NewSMTPDispatcher(smtpConfig(), zap.NewNop())
		var gotAddr, gotFrom string
		var gotTo []string
		var gotMsg []byte
		d.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
			return nil
		}

		err := d.Send(context.Background(), Notification{
			To:      "x@example.com",
			Subject: "Ticket Assigned",
			Body:    "You have been assigned a ticket.",
			Channel: ChannelEmail,
		})
		require.NoError(t, err)
		assert.Equal(t, "mail.example.com:587", gotAddr)
		assert.Equal(t, "helpdesk@example.com", gotFrom)
		assert.Equal(t, []string{"x@example.com"}, gotTo)
		assert.True(t, strings.Contains(string(gotMsg), "Subject: Ticket Assigned"))
		assert.True(t, strings.Contains(string(gotMsg), "You have been assigned a ticket."))
	})

	t.Run("EmailFailureSurfacesError", func(t *testing.T) {
		d := NewSMTPDispatcher(smtpConfig(), zap.NewNop())
		d.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			return errors.New("relay refused")
		}

		err := d.Send(context.Background(), Notification{To: "x@example.com", Channel: ChannelEmail})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "x@example.com")
	})

	t.Run("SMSIsLoggedNotSent", func(t *testing.T) {
		d := NewSMTPDispatcher(smtpConfig(), zap.NewNop())
		d.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			t.Fatal("smtp must not be used for sms")
			return nil
		}
		assert.NoError(t, d.Send(context.Background(), Notification{To: "+15550001111", Channel: ChannelSMS}))
	})

	t.Run("UnknownChannelRejected", func(t *testing.T) {
		d := NewSMTPDispatcher(smtpConfig(), zap.NewNop())
		assert.Error(t, d.Send(context.Background(), Notification{Channel: Channel("fax")}))
	})
}
