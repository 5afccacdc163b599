package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the identity established by the OIDC provider. Claims holds the raw
// ID token claims and is otherwise opaque to the service.
type User struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Subject   string             `json:"sub" bson:"sub"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty"`
	Name      string             `json:"name,omitempty" bson:"name,omitempty"`
	Picture   string             `json:"picture,omitempty" bson:"picture,omitempty"`
	Provider  string             `json:"provider" bson:"provider"`
	Claims    map[string]any     `json:"claims,omitempty" bson:"claims,omitempty"`
	DateAdded time.Time          `json:"date_added" bson:"date_added"`
}
