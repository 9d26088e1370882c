package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Entity writes the success envelope: the payload sits under its entity
// name, e.g. {"album": {...}} or {"albums": [...]}. Entities are never
// returned as bare top-level arrays.
func Entity(c *gin.Context, statusCode int, name string, payload interface{}) {
	c.JSON(statusCode, gin.H{name: payload})
}

// OK is Entity with status 200.
func OK(c *gin.Context, name string, payload interface{}) {
	Entity(c, http.StatusOK, name, payload)
}

// Error writes the failure envelope {"error": "<code>"}. Codes are short
// machine-readable tags; human-readable detail goes to the logs.
func Error(c *gin.Context, statusCode int, code string) {
	c.JSON(statusCode, gin.H{"error": code})
}

// ErrorWithReason adds a reason field for callers that disclose one,
// e.g. {"error": "invalid_credentials", "reason": "password"}.
func ErrorWithReason(c *gin.Context, statusCode int, code, reason string) {
	c.JSON(statusCode, gin.H{"error": code, "reason": reason})
}

func BadRequest(c *gin.Context, code string) {
	Error(c, http.StatusBadRequest, code)
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "forbidden")
}

// NotFound is used both for rows that do not exist and rows owned by
// someone else; callers cannot tell the two apart.
func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "not_found")
}

func Internal(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal_error")
}

// Upstream reports a dependency (database, storage) failure.
func Upstream(c *gin.Context) {
	Error(c, http.StatusServiceUnavailable, "upstream_unavailable")
}
