// Package mailer sends the clinic's transactional email: booking
// confirmations to patients and contact-form relays to the practice
// mailbox. The production implementation goes through the Gmail API
// with the same server-brokered credential as the calendar.
package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Message is one outbound email.
type Message struct {
	To       string
	ToName   string
	ReplyTo  string
	Subject  string
	HTMLBody string
}

// Mailer sends a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// GmailMailer sends through the Gmail API on behalf of the clinic
// account ("me" in Gmail terms).
type GmailMailer struct {
	svc  *gmail.Service
	from string
}

// NewGmailMailer builds a Gmail-backed mailer from a token source that
// carries the gmail.send scope.
func NewGmailMailer(ctx context.Context, ts oauth2.TokenSource, from string) (*GmailMailer, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("mailer: create gmail service: %w", err)
	}
	return &GmailMailer{svc: svc, from: from}, nil
}

func (m *GmailMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("mailer: recipient required")
	}
	raw := buildMIME(m.from, msg)
	_, err := m.svc.Users.Messages.Send("me", &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("mailer: gmail send: %w", err)
	}
	return nil
}

// buildMIME assembles the RFC 2822 message the Gmail API expects.
func buildMIME(from string, msg Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	if msg.ToName != "" {
		fmt.Fprintf(&b, "To: %s <%s>\r\n", msg.ToName, msg.To)
	} else {
		fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	}
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTMLBody)
	return b.String()
}

// DevMailer logs messages instead of sending them; used when no Gmail
// credential is configured.
type DevMailer struct {
	Log *zap.Logger
}

func (d *DevMailer) Send(_ context.Context, msg Message) error {
	log := d.Log
	if log == nil {
		log = zap.L()
	}
	log.Info("dev mail (not sent)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.HTMLBody)))
	return nil
}
