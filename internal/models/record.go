package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	FieldID          = "_id"
	FieldSlug        = "slug"
	FieldName        = "name"
	FieldDateAdded   = "date_added"
	FieldDateUpdated = "date_updated"
)

// Schema describes one record type. Leaderboards and scores share every field
// except the payload, and each lives in its own collection.
type Schema struct {
	Kind         string
	Collection   string
	PayloadField string
}

var (
	LeaderboardSchema = Schema{Kind: "leaderboard", Collection: "leaderboards", PayloadField: "demo"}
	ScoreSchema       = Schema{Kind: "score", Collection: "scores", PayloadField: "score"}
)

// Record is the transient form of a leaderboard or score document. Nil
// pointers mark unset fields, which are left out of both representations.
type Record struct {
	Schema      Schema
	ID          *primitive.ObjectID
	Slug        string
	Name        string
	Payload     string
	DateAdded   *time.Time
	DateUpdated *time.Time
}

// FromWire builds a record from a decoded JSON body. Unknown keys and any
// client supplied _id are ignored.
func (s Schema) FromWire(raw map[string]any) (*Record, error) {
	r := &Record{Schema: s}
	if err := r.decode(raw, wireTime); err != nil {
		return nil, err
	}
	return r, nil
}

// FromDocument builds a record from a stored document.
func (s Schema) FromDocument(doc bson.M) (*Record, error) {
	r := &Record{Schema: s}
	if v, ok := doc[FieldID]; ok && v != nil {
		id, err := documentID(v)
		if err != nil {
			return nil, err
		}
		r.ID = &id
	}
	if err := r.decode(doc, documentTime); err != nil {
		return nil, err
	}
	return r, nil
}

// ToWire returns the JSON representation. The identifier is rendered as its
// hex string and timestamps as RFC 3339 in UTC.
func (r *Record) ToWire() map[string]any {
	out := map[string]any{
		FieldSlug:             r.Slug,
		FieldName:             r.Name,
		r.Schema.PayloadField: r.Payload,
	}
	if r.ID != nil {
		out[FieldID] = r.ID.Hex()
	}
	if r.DateAdded != nil {
		out[FieldDateAdded] = r.DateAdded.UTC().Format(time.RFC3339Nano)
	}
	if r.DateUpdated != nil {
		out[FieldDateUpdated] = r.DateUpdated.UTC().Format(time.RFC3339Nano)
	}
	return out
}

// ToBSON returns the document handed to InsertOne. _id is only present once
// the store has assigned one.
func (r *Record) ToBSON() bson.M {
	doc := bson.M{
		FieldSlug:             r.Slug,
		FieldName:             r.Name,
		r.Schema.PayloadField: r.Payload,
	}
	if r.ID != nil {
		doc[FieldID] = *r.ID
	}
	if r.DateAdded != nil {
		doc[FieldDateAdded] = r.DateAdded.UTC()
	}
	if r.DateUpdated != nil {
		doc[FieldDateUpdated] = r.DateUpdated.UTC()
	}
	return doc
}

type timeParser func(field string, v any) (time.Time, error)

func (r *Record) decode(m map[string]any, parseTime timeParser) error {
	var err error
	if r.Slug, err = requiredString(m, FieldSlug); err != nil {
		return err
	}
	if r.Name, err = requiredString(m, FieldName); err != nil {
		return err
	}
	if r.Payload, err = requiredString(m, r.Schema.PayloadField); err != nil {
		return err
	}
	if r.DateAdded, err = optionalTime(m, FieldDateAdded, parseTime); err != nil {
		return err
	}
	if r.DateUpdated, err = optionalTime(m, FieldDateUpdated, parseTime); err != nil {
		return err
	}
	return nil
}

func requiredString(m map[string]any, field string) (string, error) {
	v, ok := m[field]
	if !ok || v == nil {
		return "", missingField(field)
	}
	s, ok := v.(string)
	if !ok {
		return "", invalidField(field, "must be a string")
	}
	if s == "" {
		return "", missingField(field)
	}
	return s, nil
}

func optionalTime(m map[string]any, field string, parse timeParser) (*time.Time, error) {
	v, ok := m[field]
	if !ok || v == nil {
		return nil, nil
	}
	t, err := parse(field, v)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func wireTime(field string, v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, invalidField(field, "must be an RFC 3339 timestamp")
		}
		return parsed, nil
	default:
		return time.Time{}, invalidField(field, "must be an RFC 3339 timestamp")
	}
}

func documentTime(field string, v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case primitive.DateTime:
		return t.Time(), nil
	default:
		return time.Time{}, invalidField(field, "must be a datetime")
	}
}

func documentID(v any) (primitive.ObjectID, error) {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id, nil
	case string:
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return primitive.NilObjectID, invalidField(FieldID, "must be an ObjectID")
		}
		return oid, nil
	default:
		return primitive.NilObjectID, invalidField(FieldID, "must be an ObjectID")
	}
}
