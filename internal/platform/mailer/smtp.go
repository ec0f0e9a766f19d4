// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/mail.v2"
)

const (
	maxRetries   = 3
	retryBackoff = 500 * time.Millisecond
	dialTimeout  = 10 * time.Second
)

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	dialer *mail.Dialer
	from   string
}

// NewSMTPSender builds a sender for the given relay. The connection is opened
// per message, so an unreachable relay only fails individual deliveries.
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = dialTimeout

	return &SMTPSender{dialer: dialer, from: from}
}

// Send implements [Sender], retrying transient failures with linear backoff.
func (sender *SMTPSender) Send(ctx context.Context, message Message) error {
	email := mail.NewMessage()
	email.SetAddressHeader("From", sender.from, FromName)
	email.SetHeader("To", message.To)
	email.SetHeader("Subject", message.Subject)
	email.SetBody("text/plain", message.Body)

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = sender.dialer.DialAndSend(email); err == nil {
			return nil
		}

		if attempt == maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("mailer: send to %s cancelled: %w", message.To, ctx.Err())
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}

	return fmt.Errorf("mailer: send to %s failed after %d attempts: %w", message.To, maxRetries, err)
}

// LogSender writes messages to the log instead of delivering them.
// It is used when no SMTP relay is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender returns a [LogSender].
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements [Sender].
func (sender *LogSender) Send(ctx context.Context, message Message) error {
	sender.logger.InfoContext(ctx, "mail_logged",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.Body),
	)
	return nil
}
