package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Mailer delivers account notifications. Delivery is best effort: callers
// report failures to the user instead of failing the surrounding operation.
type Mailer interface {
	SendCredentials(ctx context.Context, to, username, password string) error
}

type smtpMailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

func NewSMTPMailer(host, port, user, password string) Mailer {
	return &smtpMailer{host: host, port: port, user: user, password: password, from: user}
}

func (m *smtpMailer) SendCredentials(ctx context.Context, to, username, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: Your project monitoring account",
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		fmt.Sprintf("Hello %s,", username),
		"",
		"An account has been set up for you.",
		"Email: " + to,
		"Password: " + password,
		"",
		"Please change your password after signing in.",
	}, "\r\n")

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if err := smtp.SendMail(net.JoinHostPort(m.host, m.port), auth, m.from, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send credentials email: %w", err)
	}
	return nil
}

// noopMailer is used when no SMTP credentials are configured.
var errDeliveryDisabled = errors.New("email delivery not configured")

type noopMailer struct {
	logger *zap.Logger
}

func NewNoopMailer(logger *zap.Logger) Mailer {
	return &noopMailer{logger: logger.With(zap.String("component", "mailer"))}
}

func (m *noopMailer) SendCredentials(_ context.Context, to, _, _ string) error {
	m.logger.Warn("email delivery not configured, credentials not sent", zap.String("to", to))
	return errDeliveryDisabled
}
