package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dimitrije/leaderboard-api/internal/logger"
	"github.com/dimitrije/leaderboard-api/internal/middleware"
	"github.com/dimitrije/leaderboard-api/internal/oauth"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

const (
	stateCookie   = "oauth_state"
	stateLifetime = 10 * time.Minute
	exchangeLimit = 30 * time.Second
)

var errProviderNotConfigured = errors.New("identity provider is not configured")

type AuthHandler struct {
	provider oauth.Provider
	sessions SessionServiceInterface
	baseURL  string
	secure   bool
	logger   *zap.Logger
}

// NewAuthHandler builds the login flow. provider may be nil, in which case
// /login and /callback answer with an error and /logout only clears the
// local session.
func NewAuthHandler(provider oauth.Provider, sessions SessionServiceInterface, baseURL string, secure bool, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{
		provider: provider,
		sessions: sessions,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		secure:   secure,
		logger:   log,
	}
}

func (h *AuthHandler) Login(c *drift.Context) {
	if h.provider == nil {
		c.InternalServerError(errProviderNotConfigured.Error())
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		c.InternalServerError("failed to generate state")
		return
	}

	token, err := h.sessions.IssueState(state)
	if err != nil {
		h.logger.Error("failed to sign state", zap.Error(err))
		c.InternalServerError("failed to generate state")
		return
	}

	h.setCookie(c, stateCookie, token, stateLifetime)
	http.Redirect(c.Response, c.Request, h.provider.GetConsentURL(state), http.StatusFound)
}

func (h *AuthHandler) Callback(c *drift.Context) {
	if h.provider == nil {
		c.InternalServerError(errProviderNotConfigured.Error())
		return
	}

	if reason := callbackParam(c, "error"); reason != "" {
		if desc := callbackParam(c, "error_description"); desc != "" {
			reason += ": " + desc
		}
		c.BadRequest("authorization failed: " + reason)
		return
	}

	cookie, err := c.Request.Cookie(stateCookie)
	if err != nil {
		c.BadRequest("missing state cookie")
		return
	}
	h.clearCookie(c, stateCookie)

	if err := h.sessions.VerifyState(cookie.Value, callbackParam(c, "state")); err != nil {
		c.BadRequest("invalid or expired state")
		return
	}

	code := callbackParam(c, "code")
	if code == "" {
		c.BadRequest("missing authorization code")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), exchangeLimit)
	defer cancel()

	user, err := h.provider.ExchangeCode(ctx, code)
	if err != nil {
		h.logger.Warn("code exchange failed", zap.String("provider", h.provider.Name()), zap.Error(err))
		c.Unauthorized("failed to exchange code")
		return
	}

	token, err := h.sessions.Issue(user)
	if err != nil {
		h.logger.Error("failed to sign session", zap.Error(err))
		c.InternalServerError("failed to create session")
		return
	}

	h.setCookie(c, middleware.SessionCookie, token, h.sessions.Expiry())
	http.Redirect(c.Response, c.Request, "/", http.StatusFound)
}

func (h *AuthHandler) Logout(c *drift.Context) {
	h.clearCookie(c, middleware.SessionCookie)

	target := "/"
	if h.provider != nil {
		target = h.provider.LogoutURL(h.baseURL + "/")
	}
	http.Redirect(c.Response, c.Request, target, http.StatusFound)
}

func (h *AuthHandler) setCookie(c *drift.Context, name, value string, lifetime time.Duration) {
	http.SetCookie(c.Response, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookie(c *drift.Context, name string) {
	http.SetCookie(c.Response, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// callbackParam reads a callback parameter from the query string, falling
// back to a form_post body.
func callbackParam(c *drift.Context, key string) string {
	if v := c.QueryParam(key); v != "" {
		return v
	}
	if c.Request.Method == http.MethodPost {
		return c.Request.PostFormValue(key)
	}
	return ""
}
