package session

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Manager bundles store, policy and cookie handling for the handlers
// that create and destroy sessions.
type Manager struct {
	Store   Store
	Policy  *Policy
	Cookies *CookieManager
}

func NewManager(store Store, policy *Policy, cookies *CookieManager) *Manager {
	return &Manager{Store: store, Policy: policy, Cookies: cookies}
}

// Establish mints a fresh session id for the given record, stamps both
// anchors, persists it and sets the cookie. Any previous session passed
// in old is removed first, so login always rotates the id.
func (m *Manager) Establish(c *gin.Context, rec Session, old *Session) (*Session, error) {
	if old != nil {
		if err := m.Store.Delete(c.Request.Context(), old.ID); err != nil {
			return nil, err
		}
	}

	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rec.ID = id
	rec.LoginAt = now
	rec.LastActive = now

	if err := m.Store.Save(c.Request.Context(), &rec); err != nil {
		return nil, err
	}
	if err := m.Cookies.Set(c, id); err != nil {
		return nil, err
	}
	return &rec, nil
}

// EnsureAnonymous returns the current session or creates an empty one.
// Anonymous sessions only exist to carry the login failure counter.
func (m *Manager) EnsureAnonymous(c *gin.Context, current *Session) (*Session, error) {
	if current != nil {
		return current, nil
	}

	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	sess := &Session{ID: id, LastActive: time.Now()}
	if err := m.Store.Save(c.Request.Context(), sess); err != nil {
		return nil, err
	}
	if err := m.Cookies.Set(c, id); err != nil {
		return nil, err
	}
	return sess, nil
}

// Destroy removes the record and the cookie. Store errors are returned
// but the cookie is cleared regardless.
func (m *Manager) Destroy(c *gin.Context, sess *Session) error {
	m.Cookies.Clear(c)
	if sess == nil {
		return nil
	}
	return m.Store.Delete(c.Request.Context(), sess.ID)
}
