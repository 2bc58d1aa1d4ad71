package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sewasangat/attendance/internal/config"
	"github.com/sewasangat/attendance/pkg/core/importer"
	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/db"
)

// stubStore implements just the store methods these tests touch. The embedded
// interface panics on anything else, which catches handlers reaching further
// than expected.
type stubStore struct {
	db.Database

	mu       sync.Mutex
	users    map[string]*model.User
	sewadars map[string]model.Sewadar // keyed by badge number
}

func newStubStore() *stubStore {
	return &stubStore{
		users:    make(map[string]*model.User),
		sewadars: make(map[string]model.Sewadar),
	}
}

func (s *stubStore) FindUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[username]
	if !ok {
		return nil, db.ErrNotFound
	}
	return user, nil
}

func (s *stubStore) FindByBadgeNumber(_ context.Context, badgeNumber string) (*model.Sewadar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sewadar, ok := s.sewadars[badgeNumber]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &sewadar, nil
}

func (s *stubStore) FindTemporaryByIdentity(_ context.Context, name, guardianName, centerCode string) ([]model.Sewadar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matches []model.Sewadar
	for _, sewadar := range s.sewadars {
		if sewadar.BadgeStatus == model.BadgeStatusTemporary &&
			sewadar.Name == name && sewadar.GuardianName == guardianName && sewadar.CenterCode == centerCode {
			matches = append(matches, sewadar)
		}
	}
	return matches, nil
}

func (s *stubStore) InsertSewadar(_ context.Context, sewadar *model.Sewadar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sewadars[sewadar.BadgeNumber]; exists {
		return db.ErrDuplicate
	}
	s.sewadars[sewadar.BadgeNumber] = *sewadar
	return nil
}

func (s *stubStore) UpdateSewadarByID(_ context.Context, id string, sewadar *model.Sewadar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for badge, existing := range s.sewadars {
		if existing.ID == id {
			updated := *sewadar
			updated.ID = id
			delete(s.sewadars, badge)
			s.sewadars[updated.BadgeNumber] = updated
			return nil
		}
	}
	return db.ErrNotFound
}

func newTestServer(t *testing.T, store *stubStore) (*Server, importer.JobStore) {
	t.Helper()
	cfg := &config.Config{
		ListenAddr:      "localhost:0",
		DatabaseURL:     "postgres://unused",
		JWTSecret:       "test-secret-0123456789",
		SessionTTLHours: 1,
	}
	jobs := importer.NewMemoryJobStore()
	return New(cfg, store, jobs, zap.NewNop()), jobs
}

func addUser(t *testing.T, store *stubStore, username, password string, role model.Role) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		ID:           "user-" + username,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		AreaCode:     "HI",
	}
	store.users[username] = user
	return user
}

func authToken(t *testing.T, s *Server, user *model.User) string {
	t.Helper()
	token, err := s.signSession(user, time.Hour)
	require.NoError(t, err)
	return token
}

func TestLoginIssuesSession(t *testing.T) {
	store := newStubStore()
	addUser(t, store, "admin", "changeme1", model.RoleAdmin)
	s, _ := newTestServer(t, store)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"admin","password":"changeme1"}`))
	req.Header.Set(echo.HeaderContentType, "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token"`)

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "login should set the session cookie")
	assert.True(t, sessionCookie.HttpOnly)

	// The cookie alone authenticates follow-up requests
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"admin"`)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	store := newStubStore()
	addUser(t, store, "admin", "changeme1", model.RoleAdmin)
	s, _ := newTestServer(t, store)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"admin","password":"nope"}`))
	req.Header.Set(echo.HeaderContentType, "application/json")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	s, _ := newTestServer(t, newStubStore())

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestImportsAreAdminOnly(t *testing.T) {
	store := newStubStore()
	coordinator := addUser(t, store, "coord", "changeme1", model.RoleCoordinator)
	s, _ := newTestServer(t, store)

	req := httptest.NewRequest(http.MethodPost, "/api/imports", nil)
	req.Header.Set("Authorization", "Bearer "+authToken(t, s, coordinator))
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestImportUploadRunsToCompletion(t *testing.T) {
	store := newStubStore()
	admin := addUser(t, store, "admin", "changeme1", model.RoleAdmin)
	s, jobs := newTestServer(t, store)

	csv := "Badge_Number,Sewadar_Name,Father_Husband_Name,Badge_Status\n" +
		"HI1234GA0001,RAM KUMAR,SHYAM KUMAR,PERMANENT\n" +
		",MISSING BADGE,NOBODY,TEMPORARY\n"

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "sewadars.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/imports", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+authToken(t, s, admin))
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp struct {
		JobID string `json:"jobId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.JobID)

	// The pipeline runs in the background; wait for it to finish
	require.Eventually(t, func() bool {
		job, ok := jobs.Get(resp.JobID)
		return ok && job.Status.Terminal()
	}, 5*time.Second, 10*time.Millisecond)

	job, _ := jobs.Get(resp.JobID)
	assert.Equal(t, importer.StatusCompleted, job.Status)
	assert.Equal(t, 1, job.Created)
	require.Len(t, job.Errors, 1)
	assert.Equal(t, 3, job.Errors[0].Row, "error is reported against the source line")

	// Result endpoint exposes the full error ledger
	req = httptest.NewRequest(http.MethodGet, "/api/imports/"+resp.JobID, nil)
	req.Header.Set("Authorization", "Bearer "+authToken(t, s, admin))
	rec = httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalRows":2`)
	assert.Contains(t, rec.Body.String(), `"created":1`)
}

func TestImportProgressUnknownJob(t *testing.T) {
	store := newStubStore()
	admin := addUser(t, store, "admin", "changeme1", model.RoleAdmin)
	s, _ := newTestServer(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/imports/no-such-job/progress", nil)
	req.Header.Set("Authorization", "Bearer "+authToken(t, s, admin))
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		s.echo.ServeHTTP(rec, req)
		close(done)
	}()

	// Unknown jobs must terminate immediately, not hang the stream
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("progress stream for unknown job did not close")
	}

	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Body.String(), "job not found")
}
