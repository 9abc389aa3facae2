// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 probHub Contributors

// Package mail delivers one-time verification codes over SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Config holds the SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	AppName  string
}

// sendFunc matches smtp.SendMail, injectable for tests.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer implements the auth.Notifier contract over plain SMTP with AUTH
// PLAIN, the way the registration emails were always sent.
type Mailer struct {
	cfg  Config
	send sendFunc
}

// NewMailer creates a Mailer.
func NewMailer(cfg Config) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// SendOTP delivers the verification code to the address. The message states
// how long the code stays valid, rounded to whole minutes.
func (m *Mailer) SendOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	minutes := int(time.Until(expiresAt).Round(time.Minute) / time.Minute)
	subject := fmt.Sprintf("%s - Your Verification Code", m.cfg.AppName)
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"Use the verification code below to confirm your email address:\n\n"+
			"Verification Code: %s\n\n"+
			"This code will expire in %d minutes. If you did not request it, you can ignore this message.\n\n"+
			"Best regards,\nThe %s Team",
		code, minutes, m.cfg.AppName)

	msg := BuildMessage(m.cfg.From, email, subject, body)

	// net/smtp has no context support; honor cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return oops.Code("MAIL_CANCELED").Wrap(err)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := m.send(addr, auth, m.cfg.From, []string{email}, msg); err != nil {
		return oops.Code("MAIL_SEND_FAILED").
			With("host", m.cfg.Host).
			Wrap(err)
	}
	return nil
}

// BuildMessage assembles an RFC 822 message with CRLF line endings and the
// blank line separating headers from body.
func BuildMessage(from, to, subject, body string) []byte {
	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}
	return []byte(strings.Join(headers, "\r\n"))
}
