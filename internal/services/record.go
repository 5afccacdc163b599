package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/leaderboard-api/internal/database"
	"github.com/dimitrije/leaderboard-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page is one sorted page of records and its navigation links.
type Page struct {
	Records []*models.Record
	Total   int64
	Links   PageLinks
}

// RecordService lists, reads and creates the records of a single schema.
type RecordService struct {
	schema  models.Schema
	store   CollectionStore
	timeout time.Duration
	now     func() time.Time
}

// NewRecordService bounds every store call by timeout; zero disables the bound.
func NewRecordService(schema models.Schema, store CollectionStore, timeout time.Duration) *RecordService {
	return &RecordService{
		schema:  schema,
		store:   store,
		timeout: timeout,
		now:     time.Now,
	}
}

func (s *RecordService) Schema() models.Schema {
	return s.schema
}

func (s *RecordService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// List returns page (1-based) of records sorted by name. The total count is
// queried separately from the page itself.
func (s *RecordService) List(ctx context.Context, page int) (*Page, error) {
	if page < 1 {
		return nil, &models.ValidationError{Field: "page", Reason: "must be a positive integer"}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	docs, err := s.store.Find(ctx, database.FindOptions{
		SortField: models.FieldName,
		Skip:      Offset(page, PerPage),
		Limit:     PerPage,
	})
	if err != nil {
		return nil, &StoreError{Op: "find " + s.schema.Collection, Err: err}
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, &StoreError{Op: "count " + s.schema.Collection, Err: err}
	}

	records := make([]*models.Record, 0, len(docs))
	for _, doc := range docs {
		rec, err := s.schema.FromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %v: %v", ErrCorruptDocument, s.schema.Kind, doc[models.FieldID], err)
		}
		records = append(records, rec)
	}

	return &Page{
		Records: records,
		Total:   total,
		Links:   Paginate(page, PerPage, total),
	}, nil
}

// Get looks a record up by the hex form of its ObjectID. Malformed ids are
// reported as not found.
func (s *RecordService) Get(ctx context.Context, id string) (*models.Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrRecordNotFound
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	doc, err := s.store.FindByID(ctx, oid)
	if errors.Is(err, database.ErrNoDocument) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, &StoreError{Op: "find " + s.schema.Collection, Err: err}
	}

	rec, err := s.schema.FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrCorruptDocument, s.schema.Kind, id, err)
	}
	return rec, nil
}

// Create stamps date_added, validates raw and inserts it. The returned record
// carries the identifier assigned by the store.
func (s *RecordService) Create(ctx context.Context, raw map[string]any) (*models.Record, error) {
	input := make(map[string]any, len(raw)+1)
	for k, v := range raw {
		input[k] = v
	}
	input[models.FieldDateAdded] = s.now().UTC()

	rec, err := s.schema.FromWire(input)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	id, err := s.store.InsertOne(ctx, rec.ToBSON())
	if err != nil {
		return nil, &StoreError{Op: "insert " + s.schema.Collection, Err: err}
	}
	rec.ID = &id
	return rec, nil
}
