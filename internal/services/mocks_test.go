package services

import (
	"context"
	"time"

	"github.com/dimitrije/leaderboard-api/internal/database"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Name() string {
	return "leaderboards"
}

func (m *mockStore) InsertOne(ctx context.Context, doc bson.M) (primitive.ObjectID, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockStore) FindByID(ctx context.Context, id primitive.ObjectID) (bson.M, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(bson.M), args.Error(1)
}

func (m *mockStore) Find(ctx context.Context, opts database.FindOptions) ([]bson.M, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bson.M), args.Error(1)
}

func (m *mockStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Upsert(ctx context.Context, filter, set, setOnInsert bson.M) error {
	args := m.Called(ctx, filter, set, setOnInsert)
	return args.Error(0)
}

type observation struct {
	collection string
	operation  string
	err        error
}

type recordingObserver struct {
	observed []observation
}

func (r *recordingObserver) ObserveStore(collection, operation string, err error, _ time.Duration) {
	r.observed = append(r.observed, observation{collection, operation, err})
}
