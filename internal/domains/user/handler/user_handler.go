package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studio-backend/internal/domains/activity"
	"studio-backend/internal/domains/user"
	"studio-backend/internal/session"
	"studio-backend/internal/shared/middleware"
	"studio-backend/internal/shared/response"
	"studio-backend/pkg/logger"
)

// UserHandler serves the JSON API: login, me, logout.
type UserHandler struct {
	service  user.Service
	sessions *session.Manager
	recorder activity.Recorder
}

func NewUserHandler(service user.Service, sessions *session.Manager, recorder activity.Recorder) *UserHandler {
	return &UserHandler{
		service:  service,
		sessions: sessions,
		recorder: recorder,
	}
}

// Login handles POST /api/v1/login. Unlike the form flow, the response
// discloses whether the email or the password was wrong.
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "validation_failed")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, "validation_failed")
		return
	}

	u, err := h.service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailNotFound):
			h.audit(c, "", activity.TypeLoginFailedNoUser, map[string]interface{}{"email": req.Email})
			response.ErrorWithReason(c, http.StatusUnauthorized, "invalid_credentials", "email")
		case errors.Is(err, user.ErrInvalidPassword):
			h.audit(c, "", activity.TypeLoginFailedBadPassword, map[string]interface{}{"email": req.Email})
			response.ErrorWithReason(c, http.StatusUnauthorized, "invalid_credentials", "password")
		default:
			logger.Error("login failed", err)
			response.Upstream(c)
		}
		return
	}

	_, err = h.sessions.Establish(c, session.Session{
		UserID:         u.ID.String(),
		Email:          u.Email,
		Role:           u.Role.String(),
		Nickname:       u.NicknameOrEmpty(),
		TimeoutMinutes: u.SessionTimeout,
	}, middleware.CurrentSession(c))
	if err != nil {
		logger.Error("failed to establish session", err)
		response.Upstream(c)
		return
	}

	h.audit(c, u.ID.String(), activity.TypeLogin, nil)

	dto := u.ToMeDTO(nil)
	response.OK(c, "user", dto)
}

// Me handles GET /api/v1/me. A session pointing at a vanished user is
// dropped on the spot.
func (h *UserHandler) Me(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		h.dropSession(c, sess)
		return
	}

	dto, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			h.dropSession(c, sess)
			return
		}
		logger.Error("failed to load user", err)
		response.Upstream(c)
		return
	}

	response.OK(c, "user", dto)
}

// Logout handles POST /api/v1/logout. The audit write is best-effort and
// the session is cleared even when it fails.
func (h *UserHandler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	if sess != nil && sess.Authenticated() {
		h.audit(c, sess.UserID, activity.TypeLogout, nil)
	}
	if err := h.sessions.Destroy(c, sess); err != nil {
		logger.Warn("failed to destroy session", map[string]interface{}{"error": err.Error()})
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *UserHandler) dropSession(c *gin.Context, sess *session.Session) {
	if err := h.sessions.Destroy(c, sess); err != nil {
		logger.Warn("failed to destroy stale session", map[string]interface{}{"error": err.Error()})
	}
	response.Unauthorized(c)
}

func (h *UserHandler) audit(c *gin.Context, userID, activityType string, context map[string]interface{}) {
	h.recorder.Record(c.Request.Context(), activity.Entry{
		UserID:    userID,
		Type:      activityType,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.GetString("client_ip"),
		Context:   context,
	})
}
