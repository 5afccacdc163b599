package services

import (
	"context"
	"errors"
	"time"

	"github.com/dimitrije/leaderboard-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

type UserService struct {
	store UserStore
	now   func() time.Time
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store, now: time.Now}
}

// Save records the signed-in user, refreshing the profile of a user seen
// before. date_added is only written the first time.
func (s *UserService) Save(ctx context.Context, user *models.User) error {
	if user == nil || user.Subject == "" {
		return errors.New("user subject is required")
	}

	filter := bson.M{"provider": user.Provider, "sub": user.Subject}
	set := bson.M{
		"email":   user.Email,
		"name":    user.Name,
		"picture": user.Picture,
		"claims":  user.Claims,
	}
	setOnInsert := bson.M{"date_added": s.now().UTC()}

	if err := s.store.Upsert(ctx, filter, set, setOnInsert); err != nil {
		return &StoreError{Op: "upsert users", Err: err}
	}
	return nil
}
