package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNoDocument is returned by FindByID when nothing matches.
var ErrNoDocument = errors.New("no document found")

type DB struct {
	Client *mongo.Client
	Name   string
}

// New connects to MongoDB and pings the primary before returning.
func New(ctx context.Context, uri, name string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &DB{Client: client, Name: name}, nil
}

func (db *DB) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}

// Collection returns the store for the named collection.
func (db *DB) Collection(name string) *Collection {
	return &Collection{coll: db.Client.Database(db.Name).Collection(name)}
}

// UsersCollection holds the identities recorded through /adduser.
const UsersCollection = "users"

// EnsureIndexes creates the ascending name index listing sorts on for every
// record collection, plus the unique identity index on users. Existing
// indexes are left as they are.
func (db *DB) EnsureIndexes(ctx context.Context, collections ...string) error {
	for _, name := range collections {
		_, err := db.Client.Database(db.Name).Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_asc"),
		})
		if err != nil {
			return fmt.Errorf("failed to create name index on %s: %w", name, err)
		}
	}

	_, err := db.Client.Database(db.Name).Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "sub", Value: 1}},
		Options: options.Index().SetName("provider_sub").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create identity index on %s: %w", UsersCollection, err)
	}
	return nil
}

// FindOptions selects one sorted page of a collection.
type FindOptions struct {
	SortField string
	Skip      int64
	Limit     int64
}

// Collection is a thin wrapper over a mongo collection exposing only the
// operations the services need.
type Collection struct {
	coll *mongo.Collection
}

func (c *Collection) Name() string {
	return c.coll.Name()
}

// InsertOne stores doc and returns the identifier the server assigned.
func (c *Collection) InsertOne(ctx context.Context, doc bson.M) (primitive.ObjectID, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (c *Collection) FindByID(ctx context.Context, id primitive.ObjectID) (bson.M, error) {
	var doc bson.M
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Collection) Find(ctx context.Context, opts FindOptions) ([]bson.M, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: opts.SortField, Value: 1}}).
		SetSkip(opts.Skip).
		SetLimit(opts.Limit)

	cursor, err := c.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	docs := make([]bson.M, 0, opts.Limit)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *Collection) Count(ctx context.Context) (int64, error) {
	return c.coll.CountDocuments(ctx, bson.M{})
}

// Upsert updates the document matching filter with set, inserting it together
// with setOnInsert when nothing matches.
func (c *Collection) Upsert(ctx context.Context, filter, set, setOnInsert bson.M) error {
	update := bson.M{"$set": set}
	if len(setOnInsert) > 0 {
		update["$setOnInsert"] = setOnInsert
	}
	_, err := c.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
