package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzsmit/nova-titan-parlay/internal/odds"
	"github.com/tzsmit/nova-titan-parlay/internal/parlay"
)

type capturingSender struct {
	messages []string
}

func (s *capturingSender) SendMessage(phoneNumber, message string) error {
	s.messages = append(s.messages, message)
	return nil
}

func testMovement(t *testing.T) parlay.LineMovement {
	t.Helper()
	previous, err := odds.American(-110)
	require.NoError(t, err)
	current, err := odds.American(-150)
	require.NoError(t, err)
	return parlay.LineMovement{
		LegID:         "leg-1",
		PreviousOdds:  previous,
		CurrentOdds:   current,
		ChangePercent: -12.7,
		Direction:     parlay.DirectionWorsening,
		Timestamp:     time.Now().UTC(),
	}
}

func TestSendMovementAlert(t *testing.T) {
	sender := &capturingSender{}
	service := NewAlertService(sender, nil, nil)

	err := service.SendMovementAlert("+15555550123", testMovement(t))
	require.NoError(t, err)

	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], "leg-1")
	assert.Contains(t, sender.messages[0], "worsening")
	assert.Contains(t, sender.messages[0], "-150")
}

func TestAlertRateLimitSuppressesSecondSend(t *testing.T) {
	sender := &capturingSender{}
	limiter := NewAlertRateLimiter(1, time.Hour)
	service := NewAlertService(sender, limiter, nil)

	require.NoError(t, service.SendMovementAlert("+15555550123", testMovement(t)))

	err := service.SendMovementAlert("+15555550123", testMovement(t))
	assert.ErrorContains(t, err, "rate limit exceeded")
	assert.Len(t, sender.messages, 1)
}

func TestAlertRateLimitIsPerNumber(t *testing.T) {
	sender := &capturingSender{}
	limiter := NewAlertRateLimiter(1, time.Hour)
	service := NewAlertService(sender, limiter, nil)

	require.NoError(t, service.SendMovementAlert("+15555550123", testMovement(t)))
	require.NoError(t, service.SendMovementAlert("+15555550124", testMovement(t)))
	assert.Len(t, sender.messages, 2)
}

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "already E.164", input: "+15555550123", want: "+15555550123"},
		{name: "bare US number", input: "5555550123", want: "+15555550123"},
		{name: "formatted US number", input: "(555) 555-0123", want: "+15555550123"},
		{name: "too short without country code", input: "555-0123", wantErr: true},
		{name: "garbage", input: "not-a-number", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizePhoneNumber(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
