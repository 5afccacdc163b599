package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dimitrije/leaderboard-api/internal/models"
	"github.com/dimitrije/leaderboard-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionService() *services.SessionService {
	return services.NewSessionService("test-secret-key", time.Hour)
}

func sessionApp(sessions *services.SessionService) http.Handler {
	app := drift.New()
	app.Use(Session(sessions))
	app.Get("/", func(c *drift.Context) {
		user := GetUser(c)
		if user == nil {
			_ = c.JSON(http.StatusOK, map[string]string{"user": ""})
			return
		}
		_ = c.JSON(http.StatusOK, map[string]string{"user": user.Subject})
	})
	return app
}

func TestSession_NoCookie(t *testing.T) {
	app := sessionApp(newTestSessionService())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":""}`, rec.Body.String())
}

func TestSession_ValidCookie(t *testing.T) {
	sessions := newTestSessionService()
	app := sessionApp(sessions)

	token, err := sessions.Issue(&models.User{Subject: "auth0|42", Provider: "auth0"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":"auth0|42"}`, rec.Body.String())
}

func TestSession_InvalidCookieIsAnonymous(t *testing.T) {
	app := sessionApp(newTestSessionService())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-token"})
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":""}`, rec.Body.String())
}

func TestSession_TokenFromOtherSecret(t *testing.T) {
	app := sessionApp(newTestSessionService())

	token, err := services.NewSessionService("other-secret", time.Hour).Issue(&models.User{Subject: "x"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()

	app.ServeHTTP(rec, req)

	assert.JSONEq(t, `{"user":""}`, rec.Body.String())
}
