package services

import (
	"fmt"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSMSSender implements SMSSender using the Twilio API. A circuit
// breaker shields the rest of the service when Twilio is unhealthy.
type TwilioSMSSender struct {
	client     *twilio.RestClient
	fromNumber string
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

// NewTwilioSMSSender creates a Twilio-backed SMS sender.
func NewTwilioSMSSender(accountSID, authToken, fromNumber string, logger *logrus.Logger) *TwilioSMSSender {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "twilio-sms",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &TwilioSMSSender{
		client:     client,
		fromNumber: fromNumber,
		breaker:    breaker,
		logger:     logger,
	}
}

// SendMessage sends an SMS message via Twilio.
func (s *TwilioSMSSender) SendMessage(phoneNumber, message string) error {
	normalized, err := normalizePhoneNumber(phoneNumber)
	if err != nil {
		return fmt.Errorf("invalid phone number format: %w", err)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(normalized)
	params.SetFrom(s.fromNumber)
	params.SetBody(message)

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.Api.CreateMessage(params)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return fmt.Errorf("SMS service temporarily unavailable")
		}
		s.logger.Errorf("Twilio SMS failed for %s: %v", normalized, err)
		return mapTwilioError(err)
	}

	if resp, ok := result.(*twilioApi.ApiV2010Message); ok && resp.Sid != nil {
		s.logger.Infof("Twilio SMS sent to %s (SID: %s)", normalized, *resp.Sid)
	}

	return nil
}

// BreakerState exposes the circuit breaker state for health reporting.
func (s *TwilioSMSSender) BreakerState() string {
	return s.breaker.State().String()
}

// normalizePhoneNumber ensures phone numbers are in E.164 format, assuming US
// numbers when no country code is present.
func normalizePhoneNumber(phone string) (string, error) {
	cleaned := regexp.MustCompile(`[^\d+]`).ReplaceAllString(phone, "")

	if !regexp.MustCompile(`^\+`).MatchString(cleaned) {
		if regexp.MustCompile(`^\d{10}$`).MatchString(cleaned) {
			cleaned = "+1" + cleaned
		} else {
			return "", fmt.Errorf("invalid phone number format")
		}
	}

	if !regexp.MustCompile(`^\+[1-9]\d{1,14}$`).MatchString(cleaned) {
		return "", fmt.Errorf("invalid phone number format")
	}

	return cleaned, nil
}

// mapTwilioError maps Twilio-specific errors to user-facing messages.
func mapTwilioError(err error) error {
	errStr := err.Error()

	switch {
	case regexp.MustCompile(`(?i)invalid.*phone.*number`).MatchString(errStr):
		return fmt.Errorf("invalid phone number")
	case regexp.MustCompile(`(?i)unverified.*number`).MatchString(errStr):
		return fmt.Errorf("phone number not verified for trial account")
	case regexp.MustCompile(`(?i)insufficient.*funds`).MatchString(errStr):
		return fmt.Errorf("SMS service temporarily unavailable")
	case regexp.MustCompile(`(?i)rate.*limit`).MatchString(errStr):
		return fmt.Errorf("too many SMS requests, please try again later")
	default:
		return fmt.Errorf("failed to send SMS: %w", err)
	}
}
