package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultAuthProvider is assigned when a user is created without an explicit provider.
const DefaultAuthProvider = "password"

// User represents a profile document keyed by email.
type User struct {
	ID           primitive.ObjectID `json:"-" bson:"_id,omitempty"` // Never expose in JSON
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Photo        string             `json:"photo" bson:"photo"`
	Bio          string             `json:"bio" bson:"bio"`
	AuthProvider string             `json:"authProvider" bson:"authProvider"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}
