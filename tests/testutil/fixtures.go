package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/leaderboard-api/internal/database"
	"github.com/dimitrije/leaderboard-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateRecord inserts a record of schema straight into its collection,
// bypassing the services.
func (f *Fixtures) CreateRecord(t *testing.T, schema models.Schema, opts ...RecordOption) *models.Record {
	t.Helper()
	f.counter++

	added := time.Now().UTC().Truncate(time.Millisecond)
	rec := &models.Record{
		Schema:    schema,
		Slug:      fmt.Sprintf("%s-%d", schema.Kind, f.counter),
		Name:      fmt.Sprintf("Test %s %03d", schema.Kind, f.counter),
		Payload:   fmt.Sprintf("payload-%d", f.counter),
		DateAdded: &added,
	}

	for _, opt := range opts {
		opt(rec)
	}

	id, err := f.db.Collection(schema.Collection).InsertOne(context.Background(), rec.ToBSON())
	if err != nil {
		t.Fatalf("failed to create %s: %v", schema.Kind, err)
	}
	rec.ID = &id

	return rec
}

// CreateRecords inserts n records of schema.
func (f *Fixtures) CreateRecords(t *testing.T, schema models.Schema, n int) []*models.Record {
	t.Helper()
	records := make([]*models.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, f.CreateRecord(t, schema))
	}
	return records
}

// RecordOption configures a test record
type RecordOption func(*models.Record)

// WithName sets the record name
func WithName(name string) RecordOption {
	return func(r *models.Record) {
		r.Name = name
	}
}

// WithID presets the record identifier
func WithID(id primitive.ObjectID) RecordOption {
	return func(r *models.Record) {
		r.ID = &id
	}
}

// TestUser returns a signed-in identity as the OIDC provider would produce it.
func TestUser() *models.User {
	return &models.User{
		Subject:  "auth0|test-user",
		Email:    "player@example.com",
		Name:     "Test Player",
		Picture:  "https://example.com/avatar.png",
		Provider: "auth0",
		Claims: map[string]any{
			"sub":   "auth0|test-user",
			"email": "player@example.com",
			"name":  "Test Player",
		},
	}
}
