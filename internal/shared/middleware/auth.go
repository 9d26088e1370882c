package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studio-backend/internal/shared/response"
)

// RequireAuth rejects requests without an authenticated session.
// API calls get a 401, browser routes get bounced to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil || !sess.Authenticated() {
			if isAPIRequest(c) {
				response.Unauthorized(c)
				c.Abort()
				return
			}
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
