package notify

import (
	"fmt"
	"net/url"
	"time"
)

// ClinicInfo is the clinic identity stamped into patient notifications.
type ClinicInfo struct {
	Name    string
	Address string
}

// AppointmentInfo is the slice of an appointment the messages need.
type AppointmentInfo struct {
	PatientName string
	Date        time.Time
	Time        string
}

// Messages is a composed notification pair for one status change.
type Messages struct {
	EmailSubject string
	EmailHTML    string
	SMSBody      string
}

func (c ClinicInfo) mapsLink() string {
	return "https://maps.google.com/?q=" + url.QueryEscape(c.Address)
}

// ComposeConfirmation builds the email and SMS for a confirmed appointment,
// including the clinic address and a maps link.
func ComposeConfirmation(clinic ClinicInfo, appt AppointmentInfo) Messages {
	date := appt.Date.Format("January 2, 2006")

	html := fmt.Sprintf(`<h2>Dear %s,</h2>
<p>Your appointment has been <strong>confirmed</strong>.</p>
<h3>Appointment Details:</h3>
<ul>
  <li><strong>Date:</strong> %s</li>
  <li><strong>Time:</strong> %s</li>
  <li><strong>Address:</strong> %s</li>
</ul>
<p>Please arrive 15 minutes early for your appointment.</p>
<p><a href="%s">Click here to view location on Google Maps</a></p>
<p>Best regards,<br>%s Team</p>`,
		appt.PatientName, date, appt.Time, clinic.Address, clinic.mapsLink(), clinic.Name)

	sms := fmt.Sprintf(
		"Hi %s, your appointment on %s at %s has been confirmed. Address: %s. View on maps: %s",
		appt.PatientName, date, appt.Time, clinic.Address, clinic.mapsLink())

	return Messages{
		EmailSubject: "Appointment Confirmed",
		EmailHTML:    html,
		SMSBody:      sms,
	}
}

// ComposeCancellation builds the email and SMS for a cancelled appointment.
func ComposeCancellation(clinic ClinicInfo, appt AppointmentInfo) Messages {
	date := appt.Date.Format("January 2, 2006")

	html := fmt.Sprintf(`<h2>Dear %s,</h2>
<p>Your appointment has been <strong>cancelled</strong>.</p>
<h3>Appointment Details:</h3>
<ul>
  <li><strong>Date:</strong> %s</li>
  <li><strong>Time:</strong> %s</li>
</ul>
<p>If you need to reschedule, please contact us.</p>
<p>Best regards,<br>%s Team</p>`,
		appt.PatientName, date, appt.Time, clinic.Name)

	sms := fmt.Sprintf(
		"Hi %s, your appointment on %s at %s has been cancelled. Please contact us to reschedule.",
		appt.PatientName, date, appt.Time)

	return Messages{
		EmailSubject: "Appointment Cancelled",
		EmailHTML:    html,
		SMSBody:      sms,
	}
}
