package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/safadental/clinic-booking/internal/booking"
)

type CreateAppointmentRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Time    string `json:"time" validate:"required,datetime=15:04"`
	Message string `json:"message"`
}

type TransitionRequest struct {
	Action string `json:"action" validate:"required,oneof=confirm cancel"`
}

type AppointmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	Message     *string    `json:"message,omitempty"`
	Status      string     `json:"status"`
	EmailSent   bool       `json:"email_sent"`
	SMSSent     bool       `json:"sms_sent"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type SlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

type TransitionResponse struct {
	Success        bool   `json:"success"`
	Status         string `json:"status"`
	EmailSent      bool   `json:"email_sent"`
	SMSSent        bool   `json:"sms_sent"`
	EmailError     string `json:"email_error,omitempty"`
	SMSError       string `json:"sms_error,omitempty"`
	PhoneFormatted string `json:"phone_formatted"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func toAppointmentResponse(a *booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		Name:        a.PatientName,
		Email:       a.PatientEmail,
		Phone:       a.PatientPhone,
		Date:        a.Date.Format(booking.DateFormat),
		Time:        a.Time,
		Message:     a.Message,
		Status:      string(a.Status),
		EmailSent:   a.EmailSent,
		SMSSent:     a.SMSSent,
		ConfirmedAt: a.ConfirmedAt,
		CreatedAt:   a.CreatedAt,
	}
}
