package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/safadental/clinic-booking/internal/notify"
	redisclient "github.com/safadental/clinic-booking/internal/redis"
)

const (
	EventAppointmentCreated   = "APPOINTMENT_CREATED"
	EventAppointmentConfirmed = "APPOINTMENT_CONFIRMED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
	EventAppointmentCompleted = "APPOINTMENT_COMPLETED"
)

var (
	ErrPastDate          = errors.New("date must be today or later")
	ErrInvalidSlot       = errors.New("time is not a valid slot for this clinic")
	ErrSlotBeingBooked   = errors.New("slot is currently being booked, please retry")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidAction     = errors.New("action must be confirm or cancel")
)

type Service struct {
	repo   Repository
	locker redisclient.Locker
	grid   SlotGrid
	clinic notify.ClinicInfo
	region notify.Region
	email  notify.EmailSender
	sms    notify.SMSSender
	now    func() time.Time
}

type ServiceConfig struct {
	Grid   SlotGrid
	Clinic notify.ClinicInfo
	Region notify.Region
}

// NewService wires the booking workflow. locker may be nil, in which case
// intake relies solely on the storage unique index. email and sms may be
// nil when notifications are disabled.
func NewService(repo Repository, locker redisclient.Locker, cfg ServiceConfig, email notify.EmailSender, sms notify.SMSSender) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		grid:   cfg.Grid,
		clinic: cfg.Clinic,
		region: cfg.Region,
		email:  email,
		sms:    sms,
		now:    time.Now,
	}
}

// AvailableSlots lists the unbooked times for a date, chronologically.
func (s *Service) AvailableSlots(ctx context.Context, date time.Time) ([]string, error) {
	if s.isPast(date) {
		return nil, ErrPastDate
	}

	booked, err := s.repo.BookedTimes(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load booked times: %w", err)
	}

	return s.grid.Available(booked), nil
}

// CreateAppointment books a slot for a patient with status pending.
// An advisory lock narrows the race window for concurrent submissions;
// the unique index on (date, time) among non-cancelled rows is what
// actually guarantees a single winner.
func (s *Service) CreateAppointment(ctx context.Context, in NewAppointment) (*Appointment, error) {
	if s.isPast(in.Date) {
		return nil, ErrPastDate
	}
	if !s.grid.Contains(in.Time) {
		return nil, ErrInvalidSlot
	}

	var created *Appointment

	insert := func(ctx context.Context) error {
		appt, err := s.repo.CreatePendingAppointment(ctx, in)
		if err != nil {
			if errors.Is(err, ErrSlotTaken) {
				return err
			}
			return fmt.Errorf("create pending appointment: %w", err)
		}

		created = appt

		s.logEvent(ctx, appt.ID, EventAppointmentCreated, map[string]any{
			"date": appt.Date.Format(DateFormat),
			"time": appt.Time,
		})

		return nil
	}

	var err error
	if s.locker != nil {
		err = s.locker.WithSlotLock(ctx, in.Date.Format(DateFormat), in.Time, insert)
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
	} else {
		err = insert(ctx)
	}
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetAppointment retrieves a single appointment by ID.
func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// ListAppointments returns appointments ordered by date then time.
func (s *Service) ListAppointments(ctx context.Context, limit, offset int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 20 // default
	}
	if limit > 100 {
		limit = 100 // max
	}
	if offset < 0 {
		offset = 0
	}

	appointments, err := s.repo.ListAppointments(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

// CompletePastAppointments moves confirmed appointments whose date has
// passed to completed. Intended to be called by the worker periodically.
func (s *Service) CompletePastAppointments(ctx context.Context) error {
	today := s.today()

	candidates, err := s.repo.FindPastConfirmed(ctx, today)
	if err != nil {
		return fmt.Errorf("find past confirmed appointments: %w", err)
	}

	for _, appt := range candidates {
		_, err := s.repo.UpdateStatusAndNotifications(ctx, appt.ID, StatusConfirmed, StatusCompleted, appt.EmailSent, appt.SMSSent, appt.ConfirmedAt)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			log.Printf("failed to complete appointment %s: %v", appt.ID, err)
			continue
		}
		s.logEvent(ctx, appt.ID, EventAppointmentCompleted, map[string]any{
			"reason": "worker",
		})
	}

	return nil
}

func (s *Service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) isPast(date time.Time) bool {
	return date.Before(s.today())
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event payload for %s: %v", eventType, err)
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     s.now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		log.Printf("failed to insert event log %s for appointment %s: %v", eventType, appointmentID, err)
	}
}
