package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"studio-backend/internal/config"
)

func testPolicy() *Policy {
	return NewPolicy(config.SessionConfig{
		DefaultIdleMinutes:  60,
		MaxIdleMinutes:      720,
		AbsoluteLifetimeHrs: 24,
		RefreshDebounceSecs: 30,
	})
}

func TestEffectiveIdleTimeout(t *testing.T) {
	p := testPolicy()

	tests := []struct {
		name   string
		chosen int
		want   time.Duration
	}{
		{"zero falls back to default", 0, 60 * time.Minute},
		{"negative falls back to default", -5, 60 * time.Minute},
		{"within range kept", 90, 90 * time.Minute},
		{"clamped to max", 100000, 720 * time.Minute},
		{"minimum one minute", 1, 1 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.EffectiveIdleTimeout(tt.chosen))
		})
	}
}

func TestIsExpired_IdleTimeout(t *testing.T) {
	p := testPolicy()
	now := time.Now()

	s := &Session{
		TimeoutMinutes: 30,
		LoginAt:        now.Add(-1 * time.Hour),
		LastActive:     now.Add(-31 * time.Minute),
	}
	assert.True(t, p.IsExpired(s, now), "idle past the chosen window")

	s.LastActive = now.Add(-29 * time.Minute)
	assert.False(t, p.IsExpired(s, now), "still inside the idle window")
}

func TestIsExpired_AbsoluteLifetime(t *testing.T) {
	p := testPolicy()
	now := time.Now()

	// Active recently but logged in too long ago.
	s := &Session{
		TimeoutMinutes: 60,
		LoginAt:        now.Add(-25 * time.Hour),
		LastActive:     now.Add(-1 * time.Minute),
	}
	assert.True(t, p.IsExpired(s, now))

	s.LoginAt = now.Add(-23 * time.Hour)
	assert.False(t, p.IsExpired(s, now))
}

func TestIsExpired_ZeroAnchorsNeverTrigger(t *testing.T) {
	p := testPolicy()
	now := time.Now()

	assert.False(t, p.IsExpired(&Session{}, now), "no anchors, no expiry")

	s := &Session{LastActive: now.Add(-1 * time.Minute)}
	assert.False(t, p.IsExpired(s, now), "zero LoginAt skips the absolute check")
}

func TestShouldRefresh_Debounce(t *testing.T) {
	p := testPolicy()
	now := time.Now()

	s := &Session{LastActive: now.Add(-10 * time.Second)}
	assert.False(t, p.ShouldRefresh(s, now), "inside the grace interval")

	s.LastActive = now.Add(-30 * time.Second)
	assert.True(t, p.ShouldRefresh(s, now), "grace interval reached")

	s.LastActive = time.Time{}
	assert.True(t, p.ShouldRefresh(s, now), "never stamped")
}

func TestStoreTTLWiderThanIdleWindow(t *testing.T) {
	p := testPolicy()
	s := &Session{TimeoutMinutes: 30}
	assert.Equal(t, 30*time.Minute+30*time.Second, p.StoreTTL(s))
}
