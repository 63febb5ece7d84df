package mailer

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dkdental-booking/internal/booking"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []Message
}

func (c *captureMailer) Send(_ context.Context, msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func TestBuildMIME(t *testing.T) {
	raw := buildMIME("studio@dkdental.example", Message{
		To:       "jan@example.com",
		ToName:   "Jan Kowalski",
		ReplyTo:  "reception@dkdental.example",
		Subject:  "Appointment confirmed",
		HTMLBody: "<p>See you soon</p>",
	})

	assert.True(t, strings.HasPrefix(raw, "From: studio@dkdental.example\r\n"))
	assert.Contains(t, raw, "To: Jan Kowalski <jan@example.com>\r\n")
	assert.Contains(t, raw, "Reply-To: reception@dkdental.example\r\n")
	assert.Contains(t, raw, "Subject: Appointment confirmed\r\n")
	assert.Contains(t, raw, "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(raw, "\r\n<p>See you soon</p>"))
}

func TestBookingNotifier(t *testing.T) {
	capture := &captureMailer{}
	n := &BookingNotifier{Mailer: capture, ClinicName: "DK Dental Studio", ClinicMail: "clinic@example.com"}

	loc, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)
	appt := booking.Appointment{
		Reference: "ref-123",
		Service:   booking.ServiceDentures,
		Start:     time.Date(2026, time.March, 3, 11, 0, 0, 0, loc),
		End:       time.Date(2026, time.March, 3, 12, 0, 0, 0, loc),
		Contact:   booking.Contact{Name: "Jan <script>", Email: "jan@example.com"},
	}

	require.NoError(t, n.SendBookingConfirmation(context.Background(), appt))

	require.Len(t, capture.sent, 1)
	msg := capture.sent[0]
	assert.Equal(t, "jan@example.com", msg.To)
	assert.Equal(t, "clinic@example.com", msg.ReplyTo)
	assert.Contains(t, msg.HTMLBody, "ref-123")
	assert.Contains(t, msg.HTMLBody, "Tuesday, 3 March 2026")
	assert.NotContains(t, msg.HTMLBody, "<script>", "patient input is escaped")
}

func TestContactRelay(t *testing.T) {
	capture := &captureMailer{}
	r := &ContactRelay{Mailer: capture, ClinicMail: "clinic@example.com"}

	err := r.Relay(context.Background(), ContactSubmission{
		Name:    "Jan",
		Email:   "jan@example.com",
		Message: "Hello & thanks",
	})
	require.NoError(t, err)

	require.Len(t, capture.sent, 1)
	msg := capture.sent[0]
	assert.Equal(t, "clinic@example.com", msg.To)
	assert.Equal(t, "jan@example.com", msg.ReplyTo)
	assert.Contains(t, msg.HTMLBody, "Hello &amp; thanks")
}

func TestDevMailer(t *testing.T) {
	d := &DevMailer{}
	assert.NoError(t, d.Send(context.Background(), Message{To: "x@example.com"}))
}
