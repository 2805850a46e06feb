package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// Sender доставляет письмо получателю
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendGridSender отправляет письма через SendGrid
type SendGridSender struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

func NewSendGridSender(apiKey, fromAddr, fromName string) *SendGridSender {
	return &SendGridSender{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		fromAddr: fromAddr,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(s.fromName, s.fromAddr)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	return nil
}

// LogSender только пишет письмо в лог. Используется, когда почта не настроена.
type LogSender struct {
	logger *logrus.Logger
}

func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.WithFields(logrus.Fields{
		"to":      msg.ToEmail,
		"subject": msg.Subject,
	}).Info("Email not configured. Skipping email send.")
	return nil
}
