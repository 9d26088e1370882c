package session

import (
	"time"

	"studio-backend/internal/config"
)

// Policy evaluates the session lifecycle rules. All methods are pure
// functions of the config, the record, and the supplied clock reading,
// so they are trivially testable.
type Policy struct {
	cfg config.SessionConfig
}

func NewPolicy(cfg config.SessionConfig) *Policy {
	return &Policy{cfg: cfg}
}

// EffectiveIdleTimeout resolves the idle window for a session.
// A non-positive choice falls back to the default; the result is always
// clamped to [1, max] minutes.
func (p *Policy) EffectiveIdleTimeout(chosenMinutes int) time.Duration {
	minutes := chosenMinutes
	if minutes <= 0 {
		minutes = p.cfg.DefaultIdleMinutes
	}
	if minutes < 1 {
		minutes = 1
	}
	if minutes > p.cfg.MaxIdleMinutes {
		minutes = p.cfg.MaxIdleMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// AbsoluteLifetime is the hard cap measured from login, independent of
// activity.
func (p *Policy) AbsoluteLifetime() time.Duration {
	return time.Duration(p.cfg.AbsoluteLifetimeHrs) * time.Hour
}

// IsExpired reports whether the session is past its idle window or its
// absolute lifetime. A zero anchor never triggers its check, so sessions
// created before either anchor was stamped are not killed retroactively.
func (p *Policy) IsExpired(s *Session, now time.Time) bool {
	if !s.LastActive.IsZero() {
		if now.Sub(s.LastActive) > p.EffectiveIdleTimeout(s.TimeoutMinutes) {
			return true
		}
	}
	if !s.LoginAt.IsZero() {
		if now.Sub(s.LoginAt) > p.AbsoluteLifetime() {
			return true
		}
	}
	return false
}

// ShouldRefresh debounces last_active rewrites: only refresh when at
// least the grace interval has passed since the previous stamp. A zero
// LastActive always refreshes.
func (p *Policy) ShouldRefresh(s *Session, now time.Time) bool {
	if s.LastActive.IsZero() {
		return true
	}
	grace := time.Duration(p.cfg.RefreshDebounceSecs) * time.Second
	return now.Sub(s.LastActive) >= grace
}

// StoreTTL is how long the backing store keeps the record. Slightly wider
// than the idle window so the middleware, not the store, decides expiry
// and gets a chance to audit it.
func (p *Policy) StoreTTL(s *Session) time.Duration {
	grace := time.Duration(p.cfg.RefreshDebounceSecs) * time.Second
	return p.EffectiveIdleTimeout(s.TimeoutMinutes) + grace
}
