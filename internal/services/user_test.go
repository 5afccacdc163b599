package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dimitrije/leaderboard-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUserService_Save(t *testing.T) {
	store := new(mockUserStore)
	svc := NewUserService(store)
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	user := testUser()
	store.On("Upsert", mock.Anything,
		bson.M{"provider": "auth0", "sub": "auth0|123"},
		mock.MatchedBy(func(set bson.M) bool { return set["email"] == "player@example.com" }),
		bson.M{"date_added": fixed},
	).Return(nil)

	err := svc.Save(context.Background(), user)

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestUserService_Save_RequiresSubject(t *testing.T) {
	store := new(mockUserStore)
	svc := NewUserService(store)

	err := svc.Save(context.Background(), testUserWithoutSubject())

	assert.Error(t, err)
	store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_Save_StoreFailure(t *testing.T) {
	store := new(mockUserStore)
	svc := NewUserService(store)

	store.On("Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("down"))

	err := svc.Save(context.Background(), testUser())

	var serr *StoreError
	assert.True(t, errors.As(err, &serr))
}

func testUserWithoutSubject() *models.User {
	u := testUser()
	u.Subject = ""
	return u
}
