package codes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	coreauth "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/auth"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/config"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/db/models"
	"github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/verification"
	authmiddleware "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/middleware/auth"
	websess "github.com/InnovaGrants-Admin/InnovaGrants-Admin/internal/web/session"
)

// testStorage is a minimal in-memory implementation of storage.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = nil

	return nil
}

func (s *testStorage) Close() error { return nil }

func setupCodesApp(t *testing.T) (*fiber.App, *verification.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open sqlite in-memory db")

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.VerificationCode{},
		&models.VerificationCodeLog{},
	))

	websess.Init(&testStorage{})

	app := fiber.New()
	app.Use(authmiddleware.Middleware)

	codeService := verification.NewService(db)

	cfg := &config.Config{
		VerificationCodes: config.VerificationCodes{
			DefaultExpirationHours: 24,
			DefaultMaxUses:         1,
		},
	}

	handlerService := Service{}
	require.NoError(t, handlerService.Init(app, cfg, db, codeService))

	return app, codeService
}

// loginAs writes a session for a user with the given role and returns the
// session cookie value.
func loginAs(t *testing.T, role coreauth.Role) string {
	t.Helper()

	sessionID, err := websess.GenerateSessionID()
	require.NoError(t, err)

	sessData := &websess.Data{
		User: models.User{ID: 1, Active: true, Username: "tester", Role: role},
	}
	require.NoError(t, sessData.Write(sessionID, time.Minute))

	return sessionID
}

func doRequest(t *testing.T, app *fiber.App, method, target, body, sessionID string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: websess.CookieName, Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err, "app.Test returned error")

	return resp
}

func TestGenerateEndpoint(t *testing.T) {
	app, _ := setupCodesApp(t)
	admin := loginAs(t, coreauth.RoleAdmin)

	resp := doRequest(t, app, http.MethodPost, Path, `{"type":"reviewer","max_uses":3}`, admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var code models.VerificationCode
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&code))
	assert.Len(t, code.Code, 8)
	assert.Equal(t, coreauth.RoleReviewer, code.Type)
	assert.Equal(t, 3, code.MaxUses)
	// expiration falls back to the configured default
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), code.ExpiresAt, time.Minute)
}

func TestGenerateEndpointRejectsUnknownRole(t *testing.T) {
	app, _ := setupCodesApp(t)
	admin := loginAs(t, coreauth.RoleAdmin)

	resp := doRequest(t, app, http.MethodPost, Path, `{"type":"superuser"}`, admin)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthorization(t *testing.T) {
	app, _ := setupCodesApp(t)

	testCases := []struct {
		name           string
		sessionID      string
		expectedStatus int
	}{
		{
			name:           "no session",
			sessionID:      "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "presenter lacks system permissions",
			sessionID:      loginAs(t, coreauth.RolePresenter),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "coordinator lacks system permissions",
			sessionID:      loginAs(t, coreauth.RoleCoordinator),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "admin allowed",
			sessionID:      loginAs(t, coreauth.RoleAdmin),
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodGet, Path, "", tc.sessionID)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
		})
	}
}

func TestValidateEndpoint(t *testing.T) {
	app, codeService := setupCodesApp(t)
	admin := loginAs(t, coreauth.RoleAdmin)

	code, err := codeService.Generate(coreauth.RoleGuest, 24, 1)
	require.NoError(t, err)

	resp := doRequest(t, app, http.MethodPost, Path+"/validate", `{"code":"`+code.Code+`"}`, admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Outcome verification.Outcome `json:"outcome"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, verification.OutcomeValid, out.Outcome)

	// validation is read-only, the code stays redeemable
	v, err := codeService.Validate(code.Code)
	require.NoError(t, err)
	assert.True(t, v.OK())
}

func TestRevokeAndCleanupEndpoints(t *testing.T) {
	app, codeService := setupCodesApp(t)
	admin := loginAs(t, coreauth.RoleAdmin)

	code, err := codeService.Generate(coreauth.RoleGuest, 24, 1)
	require.NoError(t, err)

	resp := doRequest(t, app, http.MethodPost, Path+"/"+code.ID+"/revoke", `{"reason":"revoked"}`, admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	v, err := codeService.Validate(code.Code)
	require.NoError(t, err)
	assert.Equal(t, verification.OutcomeNotFound, v.Outcome)

	resp = doRequest(t, app, http.MethodPost, Path+"/cleanup", "", admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Cleaned int `json:"cleaned"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Zero(t, out.Cleaned)
}

func TestLogsEndpoint(t *testing.T) {
	app, codeService := setupCodesApp(t)
	admin := loginAs(t, coreauth.RoleAdmin)

	code, err := codeService.Generate(coreauth.RoleGuest, 24, 1)
	require.NoError(t, err)

	resp := doRequest(t, app, http.MethodGet, Path+"/"+code.ID+"/logs", "", admin)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var logs []models.VerificationCodeLog
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&logs))
	require.Len(t, logs, 1)
	assert.Equal(t, models.LogActionGenerated, logs[0].Action)
}
