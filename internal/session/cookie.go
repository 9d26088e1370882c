package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studio-backend/pkg/token"
)

const CookieName = "studio_session"

// CookieManager wraps the session id in a signed token before it leaves
// the server. Cookie lifetime tracks the absolute session lifetime; the
// real expiry decision is always made against the store record.
type CookieManager struct {
	tokens   *token.Manager
	lifetime time.Duration
	secure   bool
}

func NewCookieManager(tokens *token.Manager, lifetime time.Duration, secure bool) *CookieManager {
	return &CookieManager{tokens: tokens, lifetime: lifetime, secure: secure}
}

// Set issues the signed session cookie.
func (m *CookieManager) Set(c *gin.Context, sessionID string) error {
	signed, err := m.tokens.Sign(sessionID, m.lifetime)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, signed, int(m.lifetime.Seconds()), "/", "", m.secure, true)
	return nil
}

// Clear expires the cookie immediately.
func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
}

// Read extracts and verifies the session id from the request cookie.
// Returns an empty id when no valid cookie is present.
func (m *CookieManager) Read(c *gin.Context) string {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return ""
	}

	id, err := m.tokens.Verify(raw)
	if err != nil {
		return ""
	}
	return id
}
