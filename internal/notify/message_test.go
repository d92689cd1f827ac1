package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testClinic = ClinicInfo{
	Name:    "SAFA Dental Center",
	Address: "33 A Elkasr ELEINI St, Cairo, Egypt",
}

var testAppt = AppointmentInfo{
	PatientName: "Sara Ahmed",
	Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	Time:        "14:00",
}

func TestComposeConfirmation(t *testing.T) {
	msgs := ComposeConfirmation(testClinic, testAppt)

	assert.Equal(t, "Appointment Confirmed", msgs.EmailSubject)
	assert.Contains(t, msgs.EmailHTML, "Dear Sara Ahmed")
	assert.Contains(t, msgs.EmailHTML, "June 1, 2025")
	assert.Contains(t, msgs.EmailHTML, "14:00")
	assert.Contains(t, msgs.EmailHTML, testClinic.Address)
	assert.Contains(t, msgs.EmailHTML, "maps.google.com")
	assert.Contains(t, msgs.EmailHTML, "SAFA Dental Center Team")

	assert.Contains(t, msgs.SMSBody, "confirmed")
	assert.Contains(t, msgs.SMSBody, testClinic.Address)
}

func TestComposeCancellation(t *testing.T) {
	msgs := ComposeCancellation(testClinic, testAppt)

	assert.Equal(t, "Appointment Cancelled", msgs.EmailSubject)
	assert.Contains(t, msgs.EmailHTML, "cancelled")
	assert.Contains(t, msgs.EmailHTML, "reschedule")
	assert.NotContains(t, msgs.EmailHTML, "maps.google.com", "cancellations carry no address")
	assert.NotContains(t, msgs.EmailHTML, testClinic.Address)

	assert.Contains(t, msgs.SMSBody, "cancelled")
	assert.NotContains(t, msgs.SMSBody, testClinic.Address)
}

func TestMapsLinkEscapesAddress(t *testing.T) {
	msgs := ComposeConfirmation(testClinic, testAppt)
	assert.Contains(t, msgs.SMSBody, "https://maps.google.com/?q=33+A+Elkasr+ELEINI+St%2C+Cairo%2C+Egypt")
}
