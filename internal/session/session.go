package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Session is the server-side session record. The cookie only carries the
// id; everything else lives here. UserID is empty for anonymous sessions,
// which exist solely to carry the pre-auth login failure counter.
type Session struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Nickname       string    `json:"nickname"`
	TimeoutMinutes int       `json:"timeout_minutes"`
	LoginAt        time.Time `json:"login_at"`
	LastActive     time.Time `json:"last_active"`
	LoginFailures  int       `json:"login_failures"`
}

// Authenticated reports whether the session belongs to a logged-in user.
func (s *Session) Authenticated() bool {
	return s.UserID != ""
}

// Store persists session records keyed by id.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
