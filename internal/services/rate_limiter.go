package services

import (
	"fmt"
	"sync"
	"time"
)

// AlertRateLimiter caps how many SMS alerts a single phone number can receive
// inside a sliding window.
type AlertRateLimiter struct {
	mu        sync.Mutex
	sent      map[string][]time.Time
	maxAlerts int
	window    time.Duration
}

// NewAlertRateLimiter creates a limiter allowing maxAlerts per window per
// phone number.
func NewAlertRateLimiter(maxAlerts int, window time.Duration) *AlertRateLimiter {
	return &AlertRateLimiter{
		sent:      make(map[string][]time.Time),
		maxAlerts: maxAlerts,
		window:    window,
	}
}

// Allow checks whether another alert may be sent to the given phone number,
// recording the send when permitted.
func (rl *AlertRateLimiter) Allow(phoneNumber string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.prune(phoneNumber, now)

	if len(rl.sent[phoneNumber]) >= rl.maxAlerts {
		return fmt.Errorf("alert limit reached: maximum %d per %v", rl.maxAlerts, rl.window)
	}

	rl.sent[phoneNumber] = append(rl.sent[phoneNumber], now)
	return nil
}

// prune drops send records outside the window.
func (rl *AlertRateLimiter) prune(phoneNumber string, now time.Time) {
	records, exists := rl.sent[phoneNumber]
	if !exists {
		return
	}

	cutoff := now.Add(-rl.window)
	kept := records[:0]
	for _, ts := range records {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) == 0 {
		delete(rl.sent, phoneNumber)
	} else {
		rl.sent[phoneNumber] = kept
	}
}

// Stats returns limiter counters for health reporting.
func (rl *AlertRateLimiter) Stats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"tracked_numbers": len(rl.sent),
		"max_alerts":      rl.maxAlerts,
		"window":          rl.window.String(),
	}
}

// Reset clears all rate limiting state.
func (rl *AlertRateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.sent = make(map[string][]time.Time)
}
