package middleware

import (
	"github.com/dimitrije/leaderboard-api/internal/models"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	SessionCookie = "session"
	UserKey       = "user"
)

type SessionParser interface {
	Parse(token string) (*models.User, error)
}

// Session attaches the signed-in user, if any, to the context. Requests
// without a valid session cookie pass through anonymously.
func Session(sessions SessionParser) drift.HandlerFunc {
	return func(c *drift.Context) {
		if cookie, err := c.Request.Cookie(SessionCookie); err == nil && cookie.Value != "" {
			if user, err := sessions.Parse(cookie.Value); err == nil {
				c.Set(UserKey, user)
			}
		}

		c.Next()
	}
}

func GetUser(c *drift.Context) *models.User {
	if v, ok := c.Get(UserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
