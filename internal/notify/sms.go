package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// SMSSender delivers a text message to an international phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// SMSError is a structured rejection from the SMS provider.
type SMSError struct {
	Code       int
	Message    string
	HTTPStatus int
}

func (e *SMSError) Error() string {
	return fmt.Sprintf("sms provider error %d (http %d): %s", e.Code, e.HTTPStatus, e.Message)
}

// Hint explains the common Twilio rejection codes seen with international
// destinations.
func (e *SMSError) Hint() string {
	switch e.Code {
	case 21408:
		return "permission to send SMS has not been enabled for the destination country"
	case 21211:
		return `invalid "To" phone number`
	case 21212:
		return `invalid "From" phone number`
	case 21601:
		return "phone number is not a valid SMS-capable number"
	case 21614:
		return `"To" number is not a valid mobile number`
	default:
		return ""
	}
}

// TwilioConfig holds credentials for the Twilio messages API.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string // defaults to https://api.twilio.com
}

// TwilioSender posts to the Twilio REST API. No automatic retries: the
// provider treats every accepted request as a real send.
type TwilioSender struct {
	httpClient *resty.Client
	accountSID string
	fromNumber string
}

func NewTwilioSender(cfg TwilioConfig) *TwilioSender {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.twilio.com"
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken).
		SetHeader("Accept", "application/json")

	return &TwilioSender{
		httpClient: client,
		accountSID: cfg.AccountSID,
		fromNumber: cfg.FromNumber,
	}
}

type twilioMessageResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) error {
	if s == nil || s.httpClient == nil {
		return fmt.Errorf("notify: twilio client not configured")
	}

	var result twilioMessageResponse

	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"From": s.fromNumber,
			"To":   to,
			"Body": body,
		}).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", s.accountSID))
	if err != nil {
		return fmt.Errorf("notify: twilio request failed: %w", err)
	}

	if resp.IsError() {
		smsErr := &SMSError{
			Code:       result.Code,
			Message:    result.Message,
			HTTPStatus: resp.StatusCode(),
		}
		if hint := smsErr.Hint(); hint != "" {
			log.Printf("twilio rejected message to %s: code=%d (%s)", to, smsErr.Code, hint)
		}
		return smsErr
	}

	return nil
}

// StubSMSSender logs instead of sending.
type StubSMSSender struct{}

func (StubSMSSender) SendSMS(ctx context.Context, to, body string) error {
	log.Printf("stub sms sender: would send %d chars to %s", len(body), to)
	return nil
}
