package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"studio-backend/internal/domains/activity"
	"studio-backend/internal/domains/user"
)

func newUserHandler(svc user.Service, rec activity.Recorder) *UserHandler {
	return NewUserHandler(svc, testSessionManager(newMemStore()), rec)
}

func jsonLogin(c *gin.Context, body string) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
}

func TestAPILoginMalformedEmailIsAnAuthFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &captureRecorder{}
	h := newUserHandler(&fakeUserService{err: user.ErrEmailNotFound}, rec)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	// Not an address at all, but credential checking owns the verdict.
	jsonLogin(c, `{"email":"not-an-email","password":"pw"}`)

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid_credentials","reason":"email"}`, w.Body.String())
	assert.Equal(t, []string{activity.TypeLoginFailedNoUser}, rec.types())
}

func TestAPILoginMissingFieldsAreValidationFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &captureRecorder{}
	h := newUserHandler(&fakeUserService{err: user.ErrEmailNotFound}, rec)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	jsonLogin(c, `{"email":"","password":"pw"}`)

	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation_failed"}`, w.Body.String())
	assert.Empty(t, rec.entries)
}

func TestAPILoginWrongPasswordDisclosesReason(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &captureRecorder{}
	h := newUserHandler(&fakeUserService{err: user.ErrInvalidPassword}, rec)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	jsonLogin(c, `{"email":"ada@example.com","password":"wrong"}`)

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid_credentials","reason":"password"}`, w.Body.String())
	assert.Equal(t, []string{activity.TypeLoginFailedBadPassword}, rec.types())
}
