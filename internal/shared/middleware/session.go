package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"studio-backend/internal/domains/activity"
	"studio-backend/internal/session"
	"studio-backend/internal/shared/response"
	"studio-backend/pkg/logger"
)

const sessionKey = "session"

// Session resolves the session cookie on every request: verify the
// signature, load the record, expire it when the policy says so, and
// debounce the last_active refresh. Requests without a valid cookie pass
// through anonymous; guards decide what needs authentication.
func Session(store session.Store, policy *session.Policy, cookies *session.CookieManager, recorder activity.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := cookies.Read(c)
		if id == "" {
			c.Next()
			return
		}

		sess, err := store.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				// Missing record: drop the stale cookie.
				cookies.Clear(c)
				c.Next()
				return
			}
			// An unreachable store must not de-authenticate anyone.
			logger.Error("session store unavailable", err)
			response.Upstream(c)
			c.Abort()
			return
		}

		now := time.Now()
		if policy.IsExpired(sess, now) {
			expireSession(c, store, cookies, recorder, sess)
			return
		}

		if policy.ShouldRefresh(sess, now) {
			sess.LastActive = now
			if err := store.Save(c.Request.Context(), sess); err != nil {
				logger.Warn("failed to refresh session", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// expireSession clears every trace of the session, audits the expiry for
// known users, and terminates the request.
func expireSession(c *gin.Context, store session.Store, cookies *session.CookieManager, recorder activity.Recorder, sess *session.Session) {
	if err := store.Delete(c.Request.Context(), sess.ID); err != nil {
		logger.Warn("failed to delete expired session", map[string]interface{}{
			"error": err.Error(),
		})
	}
	cookies.Clear(c)

	if sess.Authenticated() {
		recorder.Record(c.Request.Context(), activity.Entry{
			UserID:    sess.UserID,
			Type:      activity.TypeSessionExpired,
			UserAgent: c.Request.UserAgent(),
			IPAddress: c.GetString("client_ip"),
		})
	}

	if isAPIRequest(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session_expired"})
		return
	}
	c.Redirect(http.StatusFound, "/login?notice=session_expired")
	c.Abort()
}

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// CurrentSession returns the resolved session, or nil for anonymous
// requests.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, ok := v.(*session.Session)
	if !ok {
		return nil
	}
	return sess
}
