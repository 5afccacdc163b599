package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dimitrije/leaderboard-api/internal/logger"
	"github.com/dimitrije/leaderboard-api/internal/middleware"
	"github.com/dimitrije/leaderboard-api/internal/models"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{
	"home.html":           mustParseTemplate("home.html"),
	"addleaderboard.html": mustParseTemplate("addleaderboard.html"),
}

func mustParseTemplate(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

type homeView struct {
	Title  string
	User   *models.User
	Claims string
}

type leaderboardFormView struct {
	Title   string
	Slug    string
	Name    string
	Demo    string
	Message string
	Error   string
}

type PageHandler struct {
	users        UserServiceInterface
	leaderboards RecordServiceInterface
	logger       *zap.Logger
}

func NewPageHandler(users UserServiceInterface, leaderboards RecordServiceInterface, log *zap.Logger) *PageHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PageHandler{
		users:        users,
		leaderboards: leaderboards,
		logger:       log,
	}
}

func (h *PageHandler) Home(c *drift.Context) {
	view := homeView{Title: "Leaderboards", User: middleware.GetUser(c)}
	if view.User != nil {
		claims, err := json.MarshalIndent(view.User.Claims, "", "    ")
		if err != nil {
			h.logger.Warn("failed to encode session claims", zap.Error(err))
		}
		view.Claims = string(claims)
	}
	h.render(c, http.StatusOK, "home.html", view)
}

// AddUser stores the signed-in user. Anonymous requests are accepted and
// store nothing.
func (h *PageHandler) AddUser(c *drift.Context) {
	if user := middleware.GetUser(c); user != nil {
		if err := h.users.Save(c.Request.Context(), user); err != nil {
			h.logger.Error("failed to save user", zap.String("sub", user.Subject), zap.Error(err))
			c.InternalServerError("failed to save user")
			return
		}
	}
	writeText(c, http.StatusOK, "Added user")
}

func (h *PageHandler) AddLeaderboard(c *drift.Context) {
	view := leaderboardFormView{Title: "Add leaderboard"}
	if c.Request.Method != http.MethodPost {
		h.render(c, http.StatusOK, "addleaderboard.html", view)
		return
	}

	payload := h.leaderboards.Schema().PayloadField
	view.Slug = c.Request.PostFormValue(models.FieldSlug)
	view.Name = c.Request.PostFormValue(models.FieldName)
	view.Demo = c.Request.PostFormValue(payload)

	raw := map[string]any{models.FieldSlug: view.Slug, models.FieldName: view.Name, payload: view.Demo}
	rec, err := h.leaderboards.Create(c.Request.Context(), raw)

	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		view.Error = verr.Error()
		h.render(c, http.StatusBadRequest, "addleaderboard.html", view)
	case err != nil:
		h.logger.Error("failed to add leaderboard", zap.Error(err))
		view.Error = "failed to add leaderboard"
		h.render(c, http.StatusInternalServerError, "addleaderboard.html", view)
	default:
		h.render(c, http.StatusOK, "addleaderboard.html", leaderboardFormView{
			Title:   view.Title,
			Message: fmt.Sprintf("Added leaderboard %q (%s)", rec.Name, rec.ID.Hex()),
		})
	}
}

func (h *PageHandler) render(c *drift.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages[name].ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("failed to render page", zap.String("page", name), zap.Error(err))
		c.InternalServerError("failed to render page")
		return
	}
	_ = c.HTML(status, buf.String())
}

func writeText(c *drift.Context, status int, body string) {
	c.Response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Response.WriteHeader(status)
	_, _ = c.Response.Write([]byte(body))
}
