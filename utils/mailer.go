package utils

import (
	"context"
	"errors"

	"gopkg.in/gomail.v2"
)

var ErrMailerDisabled = errors.New("smtp is not configured")

// SMTPMailer sends plain-text mail through gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer returns nil when host is empty so callers can treat email as
// an optional channel.
func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	if host == "" {
		return nil
	}
	if from == "" {
		from = user
	}
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, user, pass), from: from}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if m == nil {
		return ErrMailerDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}
