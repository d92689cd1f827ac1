package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/safadental/clinic-booking/internal/notify"
)

// TransitionResult summarizes one confirm/cancel run, including whether
// each notification actually went out, so callers can warn staff when
// email landed but SMS silently failed.
type TransitionResult struct {
	Appointment    *Appointment
	EmailSent      bool
	SMSSent        bool
	EmailError     string
	SMSError       string
	FormattedPhone string
}

// Transition applies an admin decision to an appointment and notifies the
// patient. Notification failures are tolerated: the status update proceeds
// and the flags record what was actually delivered. There is no dedupe,
// so repeating the call after a successful run resends both messages.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, action Action) (*TransitionResult, error) {
	if action != ActionConfirm && action != ActionCancel {
		return nil, ErrInvalidAction
	}

	// Nothing is sent and nothing is persisted for an unknown id.
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	target, err := nextStatus(appt.Status, action)
	if err != nil {
		return nil, err
	}

	info := notify.AppointmentInfo{
		PatientName: appt.PatientName,
		Date:        appt.Date,
		Time:        appt.Time,
	}

	var msgs notify.Messages
	if action == ActionConfirm {
		msgs = notify.ComposeConfirmation(s.clinic, info)
	} else {
		msgs = notify.ComposeCancellation(s.clinic, info)
	}

	result := &TransitionResult{
		FormattedPhone: s.region.FormatPhone(appt.PatientPhone),
	}

	if s.email != nil {
		err := s.email.Send(ctx, notify.EmailMessage{
			To:      appt.PatientEmail,
			ToName:  appt.PatientName,
			Subject: msgs.EmailSubject,
			HTML:    msgs.EmailHTML,
		})
		if err != nil {
			result.EmailError = err.Error()
			log.Printf("email send failed for appointment %s: %v", appt.ID, err)
		} else {
			result.EmailSent = true
		}
	}

	if s.sms != nil {
		err := s.sms.SendSMS(ctx, result.FormattedPhone, msgs.SMSBody)
		if err != nil {
			result.SMSError = err.Error()
			log.Printf("sms send failed for appointment %s: %v", appt.ID, err)
		} else {
			result.SMSSent = true
		}
	}

	var confirmedAt *time.Time
	if action == ActionConfirm {
		now := s.now()
		confirmedAt = &now
	}

	// Notifications are already out at this point; a failed update leaves
	// the stored flags behind what was actually sent. Accepted window.
	updated, err := s.repo.UpdateStatusAndNotifications(ctx, appt.ID, appt.Status, target, result.EmailSent, result.SMSSent, confirmedAt)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// Lost a concurrent race on the compare-and-set.
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}

	result.Appointment = updated

	event := EventAppointmentConfirmed
	if action == ActionCancel {
		event = EventAppointmentCancelled
	}
	s.logEvent(ctx, updated.ID, event, map[string]any{
		"email_sent": result.EmailSent,
		"sms_sent":   result.SMSSent,
	})

	return result, nil
}

// nextStatus is the transition table: pending can be confirmed or
// cancelled, confirmed can still be cancelled (rebooking support), and the
// terminal states accept nothing. Re-confirming a confirmed appointment is
// rejected so a double admin click cannot resend notifications.
func nextStatus(current Status, action Action) (Status, error) {
	switch {
	case current == StatusPending && action == ActionConfirm:
		return StatusConfirmed, nil
	case current == StatusPending && action == ActionCancel:
		return StatusCancelled, nil
	case current == StatusConfirmed && action == ActionCancel:
		return StatusCancelled, nil
	default:
		return "", ErrInvalidTransition
	}
}
