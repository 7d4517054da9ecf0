package util

import (
	"context"
	"fmt"

	"umsshop/pkg/metrics"

	"gopkg.in/gomail.v2"
)

// Mailer отправка писем администратору
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// dialer подмножество *gomail.Dialer
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer отправляет письма через SMTP
type SMTPMailer struct {
	dialer dialer
	from   string
	kind   string
}

// NewSMTPMailer kind используется как метка метрики EmailsSent
func NewSMTPMailer(host string, port int, username, password, from, kind string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		kind:   kind,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		metrics.EmailsSent.WithLabelValues(m.kind, "failed").Inc()
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	metrics.EmailsSent.WithLabelValues(m.kind, "sent").Inc()
	return nil
}
