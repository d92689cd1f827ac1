package booking

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Action is an admin decision applied to an appointment.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
)

// Appointment is a patient booking request for one clinic slot.
// Patient contact details live on the row itself; there is no separate
// patient entity.
type Appointment struct {
	ID           uuid.UUID
	PatientName  string
	PatientEmail string
	PatientPhone string
	Date         time.Time // calendar date, midnight UTC
	Time         string    // "HH:MM" slot within working hours
	Message      *string
	Status       Status
	EmailSent    bool
	SMSSent      bool
	ConfirmedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewAppointment carries the validated fields of a booking submission.
type NewAppointment struct {
	PatientName  string
	PatientEmail string
	PatientPhone string
	Date         time.Time
	Time         string
	Message      *string
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}

// DateFormat is the wire and storage layout for appointment dates.
const DateFormat = "2006-01-02"

// TimeFormat is the layout for slot times.
const TimeFormat = "15:04"
