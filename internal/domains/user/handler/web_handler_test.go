package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-backend/internal/config"
	"studio-backend/internal/domains/activity"
	"studio-backend/internal/domains/user"
	"studio-backend/internal/session"
	"studio-backend/pkg/token"
)

type memStore struct {
	sessions map[string]*session.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*session.Session)}
}

func (s *memStore) Get(_ context.Context, id string) (*session.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	dup := *sess
	return &dup, nil
}

func (s *memStore) Save(_ context.Context, sess *session.Session) error {
	dup := *sess
	s.sessions[sess.ID] = &dup
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

type fakeUserService struct {
	user *user.User
	err  error
}

func (f *fakeUserService) Authenticate(_ context.Context, _, _ string) (*user.User, error) {
	return f.user, f.err
}

func (f *fakeUserService) GetMe(_ context.Context, _ uuid.UUID) (*user.MeDTO, error) {
	return nil, user.ErrUserNotFound
}

func (f *fakeUserService) GetProfile(_ context.Context, _ uuid.UUID) (*user.ProfileDTO, error) {
	return &user.ProfileDTO{}, nil
}

func (f *fakeUserService) UpdateProfile(_ context.Context, _ uuid.UUID, _ user.UpdateProfileRequest, _ []byte) (*user.ProfileDTO, error) {
	return &user.ProfileDTO{}, nil
}

type captureRecorder struct {
	entries []activity.Entry
}

func (r *captureRecorder) Record(_ context.Context, e activity.Entry) {
	r.entries = append(r.entries, e)
}

func (r *captureRecorder) types() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Type
	}
	return out
}

func testSessionManager(store session.Store) *session.Manager {
	policy := session.NewPolicy(config.SessionConfig{
		DefaultIdleMinutes:  60,
		MaxIdleMinutes:      720,
		AbsoluteLifetimeHrs: 24,
		RefreshDebounceSecs: 30,
	})
	cookies := session.NewCookieManager(token.NewManager("test-secret"), 24*time.Hour, false)
	return session.NewManager(store, policy, cookies)
}

func newWebHandler(svc user.Service, store session.Store, rec activity.Recorder) *WebHandler {
	return NewWebHandler(svc, testSessionManager(store), rec, config.AppConfig{Name: "Studio API"})
}

func formRequest(c *gin.Context, values url.Values) {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
}

func TestLoginFailureCountsAndAudits(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newMemStore()
	rec := &captureRecorder{}
	h := newWebHandler(&fakeUserService{err: user.ErrInvalidPassword}, store, rec)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	formRequest(c, url.Values{"email": {"ada@example.com"}, "password": {"wrong"}})

	h.Login(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?notice=invalid_credentials", w.Header().Get("Location"))
	assert.Equal(t, []string{activity.TypeLoginFailed}, rec.types())

	// The anonymous session now carries one failure.
	require.Len(t, store.sessions, 1)
	for _, sess := range store.sessions {
		assert.Equal(t, 1, sess.LoginFailures)
		assert.False(t, sess.Authenticated())
	}
}

func TestLoginThreeFailuresRedirectToPuzzle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newMemStore()
	rec := &captureRecorder{}
	h := newWebHandler(&fakeUserService{err: user.ErrInvalidPassword}, store, rec)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	formRequest(c, url.Values{"email": {"ada@example.com"}, "password": {"wrong"}})
	c.Set("session", &session.Session{ID: "s1", LoginFailures: 3})

	h.Login(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/puzzle", w.Header().Get("Location"))
	// The gate fires before credentials are even checked.
	assert.Empty(t, rec.entries)
}

func TestLoginSuccessRotatesSessionAndAudits(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newMemStore()
	rec := &captureRecorder{}

	u := &user.User{
		ID:         uuid.New(),
		Email:      "ada@example.com",
		Role:       user.RoleUser,
		IsVerified: true,
	}
	h := newWebHandler(&fakeUserService{user: u}, store, rec)

	// A prior anonymous session with failures exists.
	old := &session.Session{ID: "anon", LoginFailures: 2, LastActive: time.Now()}
	require.NoError(t, store.Save(context.Background(), old))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	formRequest(c, url.Values{
		"email":    {"ada@example.com"},
		"password": {"right"},
		"timeout":  {"90"},
	})
	c.Set("session", old)

	h.Login(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.Equal(t, []string{activity.TypeLogin}, rec.types())

	// Old session gone, fresh one authenticated with chosen timeout and
	// a clean failure counter.
	_, ok := store.sessions["anon"]
	assert.False(t, ok, "login rotates the session id")

	require.Len(t, store.sessions, 1)
	for _, sess := range store.sessions {
		assert.Equal(t, u.ID.String(), sess.UserID)
		assert.Equal(t, 90, sess.TimeoutMinutes)
		assert.Equal(t, 0, sess.LoginFailures)
		assert.False(t, sess.LoginAt.IsZero())
	}

	// The response sets the signed cookie.
	cookies := w.Header().Values("Set-Cookie")
	require.NotEmpty(t, cookies)
	assert.Contains(t, cookies[0], session.CookieName+"=")
}

func TestLogoutClearsSessionEvenIfAuditIsLost(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newMemStore()
	// A recorder that drops every entry must not keep the session alive.
	h := newWebHandler(&fakeUserService{}, store, &captureRecorder{})

	sess := &session.Session{ID: "s1", UserID: uuid.NewString(), LastActive: time.Now()}
	require.NoError(t, store.Save(context.Background(), sess))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/logout", nil)
	c.Set("session", sess)

	h.Logout(c)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Empty(t, store.sessions, "session record removed")

	cookies := w.Header().Values("Set-Cookie")
	require.NotEmpty(t, cookies)
	assert.Contains(t, cookies[0], "Max-Age=0", "cookie expired")
}

func TestLoginPageEndsActiveSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newMemStore()
	h := newWebHandler(&fakeUserService{}, store, &captureRecorder{})

	sess := &session.Session{ID: "s1", UserID: uuid.NewString()}
	require.NoError(t, store.Save(context.Background(), sess))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/login", nil)
	c.Set("session", sess)

	h.LoginPage(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.sessions, "visiting the login form logs you out")
}
