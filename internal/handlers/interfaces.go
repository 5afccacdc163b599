package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/leaderboard-api/internal/models"
	"github.com/dimitrije/leaderboard-api/internal/services"
)

// RecordServiceInterface defines the methods used by handlers from RecordService
type RecordServiceInterface interface {
	Schema() models.Schema
	List(ctx context.Context, page int) (*services.Page, error)
	Get(ctx context.Context, id string) (*models.Record, error)
	Create(ctx context.Context, raw map[string]any) (*models.Record, error)
}

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Save(ctx context.Context, user *models.User) error
}

// SessionServiceInterface defines the methods used by handlers from SessionService
type SessionServiceInterface interface {
	Issue(user *models.User) (string, error)
	IssueState(state string) (string, error)
	VerifyState(token, state string) error
	Expiry() time.Duration
}
