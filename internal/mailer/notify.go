package mailer

import (
	"context"
	"fmt"
	"html"

	"dkdental-booking/internal/booking"
)

// BookingNotifier adapts a Mailer into the engine's Notifier: it
// composes and sends the patient confirmation for a booked
// appointment.
type BookingNotifier struct {
	Mailer     Mailer
	ClinicName string
	ClinicMail string
}

func (n *BookingNotifier) SendBookingConfirmation(ctx context.Context, appt booking.Appointment) error {
	when := appt.Start.Format("Monday, 2 January 2006 at 3:04 PM")
	body := fmt.Sprintf(
		"<p>Dear %s,</p>"+
			"<p>Your <strong>%s</strong> appointment is confirmed for <strong>%s</strong>.</p>"+
			"<p>Booking reference: %s</p>"+
			"<p>If you need to change or cancel, reply to this email or call the practice.</p>"+
			"<p>%s</p>",
		html.EscapeString(appt.Contact.Name), appt.Service.Label(), when, appt.Reference, n.ClinicName)

	return n.Mailer.Send(ctx, Message{
		To:       appt.Contact.Email,
		ToName:   appt.Contact.Name,
		ReplyTo:  n.ClinicMail,
		Subject:  fmt.Sprintf("Appointment confirmed - %s", appt.Service.Label()),
		HTMLBody: body,
	})
}

// ContactRelay forwards a contact-form submission to the practice
// mailbox, with Reply-To pointing back at the sender.
type ContactRelay struct {
	Mailer     Mailer
	ClinicMail string
}

// ContactSubmission is one contact-form post.
type ContactSubmission struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

func (r *ContactRelay) Relay(ctx context.Context, sub ContactSubmission) error {
	body := fmt.Sprintf(
		"<p><strong>Name:</strong> %s</p>"+
			"<p><strong>Email:</strong> %s</p>"+
			"<p><strong>Phone:</strong> %s</p>"+
			"<p><strong>Message:</strong></p><p>%s</p>",
		html.EscapeString(sub.Name), html.EscapeString(sub.Email),
		html.EscapeString(sub.Phone), html.EscapeString(sub.Message))

	return r.Mailer.Send(ctx, Message{
		To:       r.ClinicMail,
		ReplyTo:  sub.Email,
		Subject:  fmt.Sprintf("Website enquiry from %s", sub.Name),
		HTMLBody: body,
	})
}
