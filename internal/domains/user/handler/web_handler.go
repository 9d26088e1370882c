package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"studio-backend/internal/config"
	"studio-backend/internal/domains/activity"
	"studio-backend/internal/domains/user"
	"studio-backend/internal/session"
	"studio-backend/internal/shared/middleware"
	"studio-backend/internal/shared/response"
	"studio-backend/pkg/logger"
)

// Three strikes on one session sends the browser to the puzzle page
// until the session is cleared.
const maxLoginFailures = 3

// WebHandler serves the browser-facing routes. There is no template
// rendering; pages respond with JSON and navigation happens through
// redirects.
type WebHandler struct {
	service  user.Service
	sessions *session.Manager
	recorder activity.Recorder
	app      config.AppConfig
}

func NewWebHandler(service user.Service, sessions *session.Manager, recorder activity.Recorder, app config.AppConfig) *WebHandler {
	return &WebHandler{
		service:  service,
		sessions: sessions,
		recorder: recorder,
		app:      app,
	}
}

// Landing handles GET /.
func (h *WebHandler) Landing(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"app":           h.app.Name,
		"version":       h.app.Version,
		"authenticated": sess != nil && sess.Authenticated(),
	})
}

// LoginPage handles GET /login. Visiting the login page while logged in
// ends the current session first.
func (h *WebHandler) LoginPage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess != nil && sess.Authenticated() {
		if err := h.sessions.Destroy(c, sess); err != nil {
			logger.Warn("failed to destroy session", map[string]interface{}{"error": err.Error()})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"login": gin.H{
			"notice": c.Query("notice"),
		},
	})
}

// Login handles POST /login. Failures are counted on the session; the
// error stays generic so the form never reveals which field was wrong.
func (h *WebHandler) Login(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess != nil && sess.LoginFailures >= maxLoginFailures {
		c.Redirect(http.StatusFound, "/puzzle")
		return
	}

	var req user.FormLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.failLogin(c, sess, req.Email)
		return
	}
	if err := req.Validate(); err != nil {
		h.failLogin(c, sess, req.Email)
		return
	}

	u, err := h.service.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailNotFound) || errors.Is(err, user.ErrInvalidPassword) {
			h.failLogin(c, sess, req.Email)
			return
		}
		logger.Error("login failed", err)
		response.Upstream(c)
		return
	}

	// Requested timeout wins over the stored preference; the policy
	// clamps whatever value ends up on the record.
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = u.SessionTimeout
	}

	_, err = h.sessions.Establish(c, session.Session{
		UserID:         u.ID.String(),
		Email:          u.Email,
		Role:           u.Role.String(),
		Nickname:       u.NicknameOrEmpty(),
		TimeoutMinutes: timeout,
	}, sess)
	if err != nil {
		logger.Error("failed to establish session", err)
		response.Upstream(c)
		return
	}

	h.audit(c, u.ID.String(), activity.TypeLogin, nil)
	c.Redirect(http.StatusFound, "/dashboard")
}

// failLogin bumps the per-session failure counter and sends the browser
// back to the form with a generic notice.
func (h *WebHandler) failLogin(c *gin.Context, sess *session.Session, email string) {
	sess, err := h.sessions.EnsureAnonymous(c, sess)
	if err != nil {
		logger.Warn("failed to create anonymous session", map[string]interface{}{"error": err.Error()})
	} else {
		sess.LoginFailures++
		if err := h.sessions.Store.Save(c.Request.Context(), sess); err != nil {
			logger.Warn("failed to save login failures", map[string]interface{}{"error": err.Error()})
		}
	}

	h.audit(c, "", activity.TypeLoginFailed, map[string]interface{}{"email": email})

	if sess != nil && sess.LoginFailures >= maxLoginFailures {
		c.Redirect(http.StatusFound, "/puzzle")
		return
	}
	c.Redirect(http.StatusFound, "/login?notice=invalid_credentials")
}

// Puzzle handles GET /puzzle, the parking page after repeated failures.
func (h *WebHandler) Puzzle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"puzzle": gin.H{
			"message": "too many failed logins, solve the puzzle to continue",
		},
	})
}

// Dashboard handles GET /dashboard.
func (h *WebHandler) Dashboard(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"dashboard": gin.H{
			"email":    sess.Email,
			"nickname": sess.Nickname,
			"role":     sess.Role,
			"login_at": sess.LoginAt,
		},
	})
}

// ProfilePage handles GET /profile.
func (h *WebHandler) ProfilePage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		response.Unauthorized(c)
		return
	}

	dto, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, "profile", dto)
}

// UpdateProfile handles POST /profile. The multipart form may carry an
// avatar_file; everything else is plain form fields.
func (h *WebHandler) UpdateProfile(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		response.Unauthorized(c)
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "validation_failed")
		return
	}

	avatarData, err := readAvatar(c)
	if err != nil {
		response.BadRequest(c, "invalid_image")
		return
	}

	if _, err := h.service.UpdateProfile(c.Request.Context(), userID, req, avatarData); err != nil {
		h.handleError(c, err)
		return
	}

	h.audit(c, sess.UserID, activity.TypeProfileUpdated, nil)
	c.Redirect(http.StatusFound, "/profile")
}

// Logout handles GET /logout: audit first, then clear; the audit write
// never blocks the logout.
func (h *WebHandler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	if sess != nil && sess.Authenticated() {
		h.audit(c, sess.UserID, activity.TypeLogout, nil)
	}
	if err := h.sessions.Destroy(c, sess); err != nil {
		logger.Warn("failed to destroy session", map[string]interface{}{"error": err.Error()})
	}

	c.Redirect(http.StatusFound, "/login")
}

func (h *WebHandler) handleError(c *gin.Context, err error) {
	var verr validation.Errors
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		response.Unauthorized(c)
	case errors.Is(err, user.ErrInvalidImage):
		response.BadRequest(c, "invalid_image")
	case errors.As(err, &verr):
		response.BadRequest(c, "validation_failed")
	default:
		logger.Error("request failed", err)
		response.Upstream(c)
	}
}

func (h *WebHandler) audit(c *gin.Context, userID, activityType string, context map[string]interface{}) {
	h.recorder.Record(c.Request.Context(), activity.Entry{
		UserID:    userID,
		Type:      activityType,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.GetString("client_ip"),
		Context:   context,
	})
}

// readAvatar pulls the optional avatar_file part out of the form.
func readAvatar(c *gin.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("avatar_file")
	if err != nil {
		// Missing file is not an error; the avatar is optional.
		return nil, nil
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
