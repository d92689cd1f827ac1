package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrSlotTaken maps the storage unique violation on
	// (appointment_date, appointment_time) among non-cancelled rows.
	ErrSlotTaken = errors.New("slot already booked")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// BookedTimes returns the "HH:MM" slots held by non-cancelled
	// appointments on the given date.
	BookedTimes(ctx context.Context, date time.Time) ([]string, error)

	// CreatePendingAppointment inserts a pending row; a unique violation
	// on the slot index comes back as ErrSlotTaken.
	CreatePendingAppointment(ctx context.Context, in NewAppointment) (*Appointment, error)

	// UpdateStatusAndNotifications applies the transition outcome in one
	// compare-and-set update keyed on the prior status.
	UpdateStatusAndNotifications(ctx context.Context, id uuid.UUID, from, to Status, emailSent, smsSent bool, confirmedAt *time.Time) (*Appointment, error)

	ListAppointments(ctx context.Context, limit, offset int) ([]Appointment, error)

	// Completion worker
	FindPastConfirmed(ctx context.Context, before time.Time) ([]Appointment, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}
