package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	// 2024-01-01 был понедельником.
	at := func(day, hour, minute int) time.Time {
		return time.Date(2024, time.January, day, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name    string
		now     time.Time
		minutes int
		allowed bool
	}{
		{name: "saturday morning", now: at(6, 10, 0), minutes: 30, allowed: false},
		{name: "sunday noon", now: at(7, 12, 30), minutes: 45, allowed: false},
		{name: "monday 09:00", now: at(1, 9, 0), minutes: 15, allowed: true},
		{name: "monday 13:00", now: at(1, 13, 0), minutes: 45, allowed: true},
		{name: "monday 19:00", now: at(1, 19, 0), minutes: 15, allowed: false},
		{name: "tuesday 07:59", now: at(2, 7, 59), minutes: 15, allowed: false},
		{name: "wednesday 08:00", now: at(3, 8, 0), minutes: 15, allowed: true},
		{name: "thursday 16:30", now: at(4, 16, 30), minutes: 20, allowed: true},
		{name: "friday 17:59", now: at(5, 17, 59), minutes: 10, allowed: true},
		{name: "friday 18:00", now: at(5, 18, 0), minutes: 15, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.now)
			assert.Equal(t, tt.minutes, got.EstimatedMinutes)
			assert.Equal(t, tt.allowed, got.CheckoutAllowed)
			if tt.allowed {
				assert.Empty(t, got.Message)
			} else {
				assert.Equal(t, UnavailableMessage, got.Message)
			}
		})
	}
}

func TestEvaluate_UsesLocationOfClock(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	// 05:00 UTC в понедельник соответствует 10:30 по IST.
	now := time.Date(2024, time.January, 1, 5, 0, 0, 0, time.UTC).In(kolkata)

	got := Evaluate(now)
	assert.True(t, got.CheckoutAllowed)
	assert.Equal(t, 30, got.EstimatedMinutes)
}
