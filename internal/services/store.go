package services

import (
	"context"
	"time"

	"github.com/dimitrije/leaderboard-api/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionStore is the subset of a document collection the record services
// depend on. *database.Collection satisfies it.
type CollectionStore interface {
	Name() string
	InsertOne(ctx context.Context, doc bson.M) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (bson.M, error)
	Find(ctx context.Context, opts database.FindOptions) ([]bson.M, error)
	Count(ctx context.Context) (int64, error)
}

// UserStore persists identities keyed by provider and subject.
type UserStore interface {
	Upsert(ctx context.Context, filter, set, setOnInsert bson.M) error
}

// StoreObserver receives the outcome and latency of every store call.
type StoreObserver interface {
	ObserveStore(collection, operation string, err error, elapsed time.Duration)
}

type instrumentedStore struct {
	CollectionStore
	observer StoreObserver
}

// Instrument reports every call made through store to observer.
func Instrument(store CollectionStore, observer StoreObserver) CollectionStore {
	if observer == nil {
		return store
	}
	return &instrumentedStore{CollectionStore: store, observer: observer}
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	s.observer.ObserveStore(s.Name(), op, err, time.Since(start))
}

func (s *instrumentedStore) InsertOne(ctx context.Context, doc bson.M) (id primitive.ObjectID, err error) {
	defer func(start time.Time) { s.observe("insert_one", start, err) }(time.Now())
	return s.CollectionStore.InsertOne(ctx, doc)
}

func (s *instrumentedStore) FindByID(ctx context.Context, id primitive.ObjectID) (doc bson.M, err error) {
	defer func(start time.Time) {
		// a miss is an answer, not a store failure
		if err == database.ErrNoDocument {
			s.observe("find_by_id", start, nil)
			return
		}
		s.observe("find_by_id", start, err)
	}(time.Now())
	return s.CollectionStore.FindByID(ctx, id)
}

func (s *instrumentedStore) Find(ctx context.Context, opts database.FindOptions) (docs []bson.M, err error) {
	defer func(start time.Time) { s.observe("find", start, err) }(time.Now())
	return s.CollectionStore.Find(ctx, opts)
}

func (s *instrumentedStore) Count(ctx context.Context) (n int64, err error) {
	defer func(start time.Time) { s.observe("count", start, err) }(time.Now())
	return s.CollectionStore.Count(ctx)
}
