package notify

import (
	"context"
	"fmt"

	"resumeradar/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/sirupsen/logrus"
)

// Message is a rendered transactional email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a message. A returned error is advisory: callers decide
// whether a failed delivery matters, and for review notifications it never
// does.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

func NewMailer(config *types.Config, logger *logrus.Logger, sesClient *sesv2.Client) (Mailer, error) {
	switch config.MailProvider {
	case "ses":
		return NewSESMailer(sesClient, config.MailFrom), nil
	case "resend":
		if config.ResendAPIKey == "" {
			return nil, fmt.Errorf("set RESEND_API_KEY for the resend mail provider")
		}
		return NewResendMailer(config.ResendAPIKey, config.MailFrom), nil
	case "log", "":
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", config.MailProvider)
	}
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	logger *logrus.Logger
}

func NewLogMailer(logger *logrus.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Text)
	return nil
}
