package middleware

import (
	"github.com/gin-gonic/gin"

	"studio-backend/internal/shared/utils"
)

// ClientIP extracts the real client IP and stores it on the gin context,
// so handlers and the audit log see the same address. Register early in
// the chain.
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("client_ip", utils.ExtractClientIP(c))
		c.Next()
	}
}
