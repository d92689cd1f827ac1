package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookPending(t *testing.T, svc *Service, repo *fakeRepo) *Appointment {
	t.Helper()
	appt, err := svc.CreateAppointment(context.Background(), validBooking(futureDate(1), "14:00"))
	require.NoError(t, err)
	return appt
}

func TestTransitionConfirm(t *testing.T) {
	repo := newFakeRepo()
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	svc := testService(t, repo, email, sms)
	appt := bookPending(t, svc, repo)

	result, err := svc.Transition(context.Background(), appt.ID, ActionConfirm)
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, result.Appointment.Status)
	require.NotNil(t, result.Appointment.ConfirmedAt)
	assert.True(t, result.EmailSent)
	assert.True(t, result.SMSSent)
	assert.True(t, result.Appointment.EmailSent)
	assert.True(t, result.Appointment.SMSSent)
	assert.Equal(t, "+201012345678", result.FormattedPhone)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "Appointment Confirmed", email.sent[0].Subject)
	assert.Contains(t, email.sent[0].HTML, "33 A Elkasr ELEINI St")

	require.Len(t, sms.sent, 1)
	assert.Equal(t, "+201012345678", sms.sent[0].to)
	assert.Contains(t, sms.sent[0].body, "confirmed")
}

func TestTransitionCancelClearsConfirmedAt(t *testing.T) {
	repo := newFakeRepo()
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	svc := testService(t, repo, email, sms)
	appt := bookPending(t, svc, repo)

	_, err := svc.Transition(context.Background(), appt.ID, ActionConfirm)
	require.NoError(t, err)

	result, err := svc.Transition(context.Background(), appt.ID, ActionCancel)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, result.Appointment.Status)
	assert.Nil(t, result.Appointment.ConfirmedAt)

	require.Len(t, sms.sent, 2)
	assert.Contains(t, sms.sent[1].body, "cancelled")
	assert.NotContains(t, email.sent[1].HTML, "Google Maps")
}

func TestTransitionEmailFailureDoesNotAbort(t *testing.T) {
	repo := newFakeRepo()
	email := &fakeEmailSender{err: errors.New("provider down")}
	sms := &fakeSMSSender{}
	svc := testService(t, repo, email, sms)
	appt := bookPending(t, svc, repo)

	result, err := svc.Transition(context.Background(), appt.ID, ActionConfirm)
	require.NoError(t, err)

	assert.False(t, result.EmailSent)
	assert.Equal(t, "provider down", result.EmailError)
	assert.True(t, result.SMSSent)

	stored := repo.appointments[appt.ID]
	assert.Equal(t, StatusConfirmed, stored.Status)
	assert.False(t, stored.EmailSent)
	assert.True(t, stored.SMSSent)
}

func TestTransitionSMSFailureLeavesFlagFalse(t *testing.T) {
	repo := newFakeRepo()
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{err: errors.New("code 21408")}
	svc := testService(t, repo, email, sms)
	appt := bookPending(t, svc, repo)

	result, err := svc.Transition(context.Background(), appt.ID, ActionConfirm)
	require.NoError(t, err)

	assert.True(t, result.EmailSent)
	assert.False(t, result.SMSSent)
	assert.Equal(t, "code 21408", result.SMSError)
	assert.False(t, repo.appointments[appt.ID].SMSSent)
}

func TestTransitionNotFound(t *testing.T) {
	repo := newFakeRepo()
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	svc := testService(t, repo, email, sms)

	_, err := svc.Transition(context.Background(), uuid.New(), ActionConfirm)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)

	// Nothing sent, nothing persisted.
	assert.Empty(t, email.sent)
	assert.Empty(t, sms.sent)
	assert.Empty(t, repo.events)
}

func TestTransitionTerminalStatesRejected(t *testing.T) {
	repo := newFakeRepo()
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	svc := testService(t, repo, email, sms)
	appt := bookPending(t, svc, repo)

	_, err := svc.Transition(context.Background(), appt.ID, ActionCancel)
	require.NoError(t, err)

	sentBefore := len(email.sent)

	_, err = svc.Transition(context.Background(), appt.ID, ActionConfirm)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.Transition(context.Background(), appt.ID, ActionCancel)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Guard fires before composing, so no extra notifications went out.
	assert.Len(t, email.sent, sentBefore)
}

func TestTransitionRepeatedConfirmRejected(t *testing.T) {
	repo := newFakeRepo()
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	svc := testService(t, repo, email, sms)
	appt := bookPending(t, svc, repo)

	_, err := svc.Transition(context.Background(), appt.ID, ActionConfirm)
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), appt.ID, ActionConfirm)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Len(t, email.sent, 1)
}

func TestTransitionInvalidAction(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(t, repo, nil, nil)
	appt := bookPending(t, svc, repo)

	_, err := svc.Transition(context.Background(), appt.ID, Action("approve"))
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestTransitionPersistFailureSurfaced(t *testing.T) {
	repo := newFakeRepo()
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	svc := testService(t, repo, email, sms)
	appt := bookPending(t, svc, repo)

	repo.updateErr = errors.New("connection reset")

	_, err := svc.Transition(context.Background(), appt.ID, ActionConfirm)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAppointmentNotFound)

	// Notifications were already sent before the failed persist.
	assert.Len(t, email.sent, 1)
	assert.Len(t, sms.sent, 1)
}

func TestTransitionConfirmedAtUsesClock(t *testing.T) {
	repo := newFakeRepo()
	svc := testService(t, repo, nil, nil)
	appt := bookPending(t, svc, repo)

	fixed := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	result, err := svc.Transition(context.Background(), appt.ID, ActionConfirm)
	require.NoError(t, err)
	require.NotNil(t, result.Appointment.ConfirmedAt)
	assert.True(t, result.Appointment.ConfirmedAt.Equal(fixed))
}
