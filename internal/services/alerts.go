package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tzsmit/nova-titan-parlay/internal/parlay"
)

// SMSSender delivers a text message to one phone number.
type SMSSender interface {
	SendMessage(phoneNumber, message string) error
}

// MockSMSSender for development - logs instead of sending real SMS.
type MockSMSSender struct{}

func NewMockSMSSender() *MockSMSSender {
	return &MockSMSSender{}
}

func (s *MockSMSSender) SendMessage(phoneNumber, message string) error {
	logrus.Infof("MOCK SMS to %s: %s", phoneNumber, message)
	return nil
}

// AlertService formats and sends line-movement and edge alerts, subject to a
// per-number rate limit.
type AlertService struct {
	sender  SMSSender
	limiter *AlertRateLimiter
	logger  *logrus.Logger
}

func NewAlertService(sender SMSSender, limiter *AlertRateLimiter, logger *logrus.Logger) *AlertService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AlertService{
		sender:  sender,
		limiter: limiter,
		logger:  logger,
	}
}

// SendMovementAlert notifies a bettor that one of their legs moved
// significantly.
func (s *AlertService) SendMovementAlert(phoneNumber string, movement parlay.LineMovement) error {
	message := fmt.Sprintf("Line alert: leg %s moved %.1f%% (%s), now %s",
		movement.LegID, movement.ChangePercent, movement.Direction, movement.CurrentOdds)
	return s.send(phoneNumber, message)
}

// SendEdgeAlert notifies a bettor that a leg is priced above the market
// average.
func (s *AlertService) SendEdgeAlert(phoneNumber string, edge parlay.LegEdge) error {
	message := fmt.Sprintf("Edge alert: leg %s is %.1f%% above the market average (%.3f vs %.3f)",
		edge.LegID, edge.EdgePercent, edge.CurrentDecimal, edge.AverageDecimal)
	return s.send(phoneNumber, message)
}

func (s *AlertService) send(phoneNumber, message string) error {
	if s.limiter != nil {
		if err := s.limiter.Allow(phoneNumber); err != nil {
			s.logger.Warnf("Alert to %s suppressed: %v", phoneNumber, err)
			return fmt.Errorf("rate limit exceeded: %w", err)
		}
	}

	if err := s.sender.SendMessage(phoneNumber, message); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	return nil
}
