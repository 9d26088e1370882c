package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"studio-backend/internal/domains/activity"
	"studio-backend/internal/domains/album"
	"studio-backend/internal/shared/middleware"
	"studio-backend/internal/shared/response"
	"studio-backend/pkg/logger"
)

// AlbumHandler serves /api/v1/me/albums. All routes run behind
// RequireAuth; the owner id always comes from the session, never from
// the request.
type AlbumHandler struct {
	service  album.Service
	recorder activity.Recorder
}

func NewAlbumHandler(service album.Service, recorder activity.Recorder) *AlbumHandler {
	return &AlbumHandler{service: service, recorder: recorder}
}

func (h *AlbumHandler) List(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	albums, err := h.service.List(c.Request.Context(), ownerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, "albums", albums)
}

func (h *AlbumHandler) Create(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	var req album.CreateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "validation_failed")
		return
	}

	a, err := h.service.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.audit(c, activity.TypeAlbumCreated, a.ID)
	response.Entity(c, http.StatusCreated, "album", a)
}

func (h *AlbumHandler) Get(c *gin.Context) {
	ownerID, albumID, ok := h.ownerAndAlbum(c)
	if !ok {
		return
	}

	a, err := h.service.Get(c.Request.Context(), ownerID, albumID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, "album", a)
}

func (h *AlbumHandler) Update(c *gin.Context) {
	ownerID, albumID, ok := h.ownerAndAlbum(c)
	if !ok {
		return
	}

	var req album.UpdateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "validation_failed")
		return
	}

	a, err := h.service.Update(c.Request.Context(), ownerID, albumID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, "album", a)
}

func (h *AlbumHandler) Delete(c *gin.Context) {
	ownerID, albumID, ok := h.ownerAndAlbum(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, albumID); err != nil {
		h.handleError(c, err)
		return
	}

	h.audit(c, activity.TypeAlbumDeleted, albumID)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AlbumHandler) Clone(c *gin.Context) {
	ownerID, albumID, ok := h.ownerAndAlbum(c)
	if !ok {
		return
	}

	a, err := h.service.Clone(c.Request.Context(), ownerID, albumID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.audit(c, activity.TypeAlbumCloned, a.ID)
	response.Entity(c, http.StatusCreated, "album", a)
}

func (h *AlbumHandler) ListTracks(c *gin.Context) {
	ownerID, albumID, ok := h.ownerAndAlbum(c)
	if !ok {
		return
	}

	tracks, err := h.service.ListTracks(c.Request.Context(), ownerID, albumID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, "tracks", tracks)
}

func (h *AlbumHandler) AddTracks(c *gin.Context) {
	ownerID, albumID, ok := h.ownerAndAlbum(c)
	if !ok {
		return
	}

	var req album.AddTracksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "validation_failed")
		return
	}

	tracks, err := h.service.AddTracks(c.Request.Context(), ownerID, albumID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Entity(c, http.StatusCreated, "tracks", tracks)
}

func (h *AlbumHandler) ReorderTracks(c *gin.Context) {
	ownerID, albumID, ok := h.ownerAndAlbum(c)
	if !ok {
		return
	}

	var req album.ReorderTracksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "validation_failed")
		return
	}

	tracks, err := h.service.ReorderTracks(c.Request.Context(), ownerID, albumID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, "tracks", tracks)
}

func (h *AlbumHandler) DeleteTrack(c *gin.Context) {
	ownerID, albumID, ok := h.ownerAndAlbum(c)
	if !ok {
		return
	}

	trackID, err := uuid.Parse(c.Param("track_id"))
	if err != nil {
		response.NotFound(c)
		return
	}

	tracks, err := h.service.DeleteTrack(c.Request.Context(), ownerID, albumID, trackID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, "tracks", tracks)
}

// UploadCover handles the multipart cover upload.
func (h *AlbumHandler) UploadCover(c *gin.Context) {
	ownerID, albumID, ok := h.ownerAndAlbum(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "validation_failed")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "invalid_image")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.BadRequest(c, "invalid_image")
		return
	}

	url, err := h.service.UploadCover(c.Request.Context(), ownerID, albumID,
		data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.OK(c, "cover_url", url)
}

func (h *AlbumHandler) ownerID(c *gin.Context) (uuid.UUID, bool) {
	sess := middleware.CurrentSession(c)
	id, err := uuid.Parse(sess.UserID)
	if err != nil {
		response.Unauthorized(c)
		return uuid.Nil, false
	}
	return id, true
}

func (h *AlbumHandler) ownerAndAlbum(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	albumID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c)
		return uuid.Nil, uuid.Nil, false
	}
	return ownerID, albumID, true
}

func (h *AlbumHandler) handleError(c *gin.Context, err error) {
	var verr validation.Errors
	var single validation.Error
	switch {
	case errors.Is(err, album.ErrAlbumNotFound), errors.Is(err, album.ErrTrackNotFound):
		response.NotFound(c)
	case errors.Is(err, album.ErrDuplicateSlug),
		errors.Is(err, album.ErrDuplicateTrack),
		errors.Is(err, album.ErrInvalidVisibility):
		// Conflicts surface as validation failures, not 409s.
		response.BadRequest(c, "validation_failed")
	case errors.Is(err, album.ErrInvalidImage):
		response.BadRequest(c, "invalid_image")
	case errors.As(err, &verr), errors.As(err, &single):
		response.BadRequest(c, "validation_failed")
	default:
		logger.Error("album request failed", err)
		response.Upstream(c)
	}
}

func (h *AlbumHandler) audit(c *gin.Context, activityType string, albumID uuid.UUID) {
	sess := middleware.CurrentSession(c)
	h.recorder.Record(c.Request.Context(), activity.Entry{
		UserID:    sess.UserID,
		Type:      activityType,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.GetString("client_ip"),
		Context:   map[string]interface{}{"album_id": albumID.String()},
	})
}
