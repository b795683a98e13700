package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/bailakids/registration-api/pkg/config"
)

// Message is a rendered HTML email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Enabled() bool
}

// New returns a Resend-backed sender, or a logging no-op when no API key is configured.
func New(cfg config.MailConfig, logger *zap.Logger) Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.ResendAPIKey) == "" {
		logger.Warn("RESEND_API_KEY not set; confirmation emails will be skipped")
		return &NoopSender{logger: logger}
	}
	return NewResendSender(resend.NewClient(cfg.ResendAPIKey), cfg.From)
}

// ResendSender sends through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender wraps an existing client.
func NewResendSender(client *resend.Client, from string) *ResendSender {
	return &ResendSender{client: client, from: from}
}

// Enabled reports true.
func (s *ResendSender) Enabled() bool { return true }

// Send delivers msg.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend send to %s: %w", strings.Join(msg.To, ","), err)
	}
	return nil
}

// NoopSender drops messages after logging them.
type NoopSender struct {
	logger *zap.Logger
}

// NewNoopSender returns a sender that delivers nothing.
func NewNoopSender(logger *zap.Logger) *NoopSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopSender{logger: logger}
}

// Enabled reports false.
func (s *NoopSender) Enabled() bool { return false }

// Send logs and succeeds.
func (s *NoopSender) Send(_ context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	s.logger.Info("email skipped", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func validate(msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("message has no recipients")
	}
	return nil
}
