// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mailer delivers outgoing email.

Delivery is split into three parts:

  - [Sender] performs one delivery (SMTP through gopkg.in/mail.v2, or a
    log-only fallback when no relay is configured).
  - [Render] turns an embedded template into a [Message].
  - [Dispatcher] queues messages and delivers them from a background worker,
    so request handlers never wait on the mail relay.
*/
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

const (
	// FromName is the display name on every outgoing message.
	FromName = "YaMDb"

	// ConfirmationCodeTemplate carries a freshly issued confirmation code.
	ConfirmationCodeTemplate = "confirmation_code.tmpl"
)

//go:embed "templates"
var FS embed.FS

// Message is a single plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// Render executes the "subject" and "plainBody" blocks of templateFile.
func Render(templateFile, to string, data any) (Message, error) {
	tmpl, err := template.New("email").ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return Message{}, fmt.Errorf("mailer: parse %s: %w", templateFile, err)
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return Message{}, fmt.Errorf("mailer: render subject: %w", err)
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "plainBody", data); err != nil {
		return Message{}, fmt.Errorf("mailer: render body: %w", err)
	}

	return Message{
		To:      to,
		Subject: strings.TrimSpace(subject.String()),
		Body:    strings.TrimSpace(body.String()) + "\n",
	}, nil
}
