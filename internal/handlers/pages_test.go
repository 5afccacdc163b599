package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dimitrije/leaderboard-api/internal/middleware"
	"github.com/dimitrije/leaderboard-api/internal/models"
	"github.com/dimitrije/leaderboard-api/internal/services"
	"github.com/dimitrije/leaderboard-api/tests/testutil"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func setupPageTest(t *testing.T) (*testutil.MockUserService, *testutil.MockRecordService, *services.SessionService, http.Handler) {
	t.Helper()
	users := new(testutil.MockUserService)
	leaderboards := testutil.NewMockRecordService(models.LeaderboardSchema)
	sessions := testutil.TestSessionService()
	handler := NewPageHandler(users, leaderboards, zap.NewNop())

	app := drift.New()
	app.Use(middleware.Session(sessions))
	app.Get("/", handler.Home)
	app.Get("/adduser", handler.AddUser)
	app.Get("/addleaderboard", handler.AddLeaderboard)
	app.Post("/addleaderboard", handler.AddLeaderboard)
	return users, leaderboards, sessions, app
}

func postForm(app http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestPageHandler_Home_Anonymous(t *testing.T) {
	_, _, _, app := setupPageTest(t)

	rec := get(app, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/login"`)
	assert.NotContains(t, rec.Body.String(), "Signed in as")
}

func TestPageHandler_Home_SignedIn(t *testing.T) {
	_, _, sessions, app := setupPageTest(t)

	client := testutil.NewHTTPTestClient(t, app).WithCookie(testutil.SessionCookie(t, sessions, testutil.TestUser()))
	rec := client.GET("/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Signed in as <strong>Test Player</strong>")
	assert.Contains(t, body, "&#34;email&#34;: &#34;player@example.com&#34;")
	assert.Contains(t, body, `href="/logout"`)
}

func TestPageHandler_AddUser_SavesSessionUser(t *testing.T) {
	users, _, sessions, app := setupPageTest(t)

	users.On("Save", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Subject == "auth0|test-user" && u.Email == "player@example.com"
	})).Return(nil)

	client := testutil.NewHTTPTestClient(t, app).WithCookie(testutil.SessionCookie(t, sessions, testutil.TestUser()))
	rec := client.GET("/adduser", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Added user", rec.Body.String())
	users.AssertExpectations(t)
}

func TestPageHandler_AddUser_Anonymous(t *testing.T) {
	users, _, _, app := setupPageTest(t)

	rec := get(app, "/adduser")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Added user", rec.Body.String())
	users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPageHandler_AddUser_StoreFailure(t *testing.T) {
	users, _, sessions, app := setupPageTest(t)

	users.On("Save", mock.Anything, mock.Anything).Return(&services.StoreError{Op: "upsert users", Err: errors.New("down")})

	client := testutil.NewHTTPTestClient(t, app).WithCookie(testutil.SessionCookie(t, sessions, testutil.TestUser()))
	rec := client.GET("/adduser", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPageHandler_AddLeaderboard_Form(t *testing.T) {
	_, _, _, app := setupPageTest(t)

	rec := get(app, "/addleaderboard")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<form action="/addleaderboard" method="POST">`)
	assert.Contains(t, rec.Body.String(), `name="demo"`)
}

func TestPageHandler_AddLeaderboard_Submit(t *testing.T) {
	_, leaderboards, _, app := setupPageTest(t)

	created := testRecord(models.LeaderboardSchema, "Speedrun")
	leaderboards.On("Create", mock.Anything, map[string]any{"slug": "speedrun", "name": "Speedrun", "demo": "demo.mp4"}).Return(created, nil)

	rec := postForm(app, "/addleaderboard", url.Values{"slug": {"speedrun"}, "name": {"Speedrun"}, "demo": {"demo.mp4"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Added leaderboard")
	assert.Contains(t, rec.Body.String(), created.ID.Hex())
	leaderboards.AssertExpectations(t)
}

func TestPageHandler_AddLeaderboard_Invalid(t *testing.T) {
	_, leaderboards, _, app := setupPageTest(t)

	leaderboards.On("Create", mock.Anything, mock.Anything).Return(nil, &models.ValidationError{Field: "slug", Reason: "is required"})

	rec := postForm(app, "/addleaderboard", url.Values{"name": {"Speedrun"}, "demo": {"x"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "slug: is required")
	assert.Contains(t, rec.Body.String(), `value="Speedrun"`)
}
