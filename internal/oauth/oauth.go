package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	"github.com/dimitrije/leaderboard-api/internal/models"
)

type Provider interface {
	GetConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*models.User, error)
	LogoutURL(returnTo string) string
	Name() string
}

func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
