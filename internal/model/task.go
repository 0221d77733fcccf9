package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusOpen is the status every task is created with. No endpoint mutates it.
const StatusOpen = "open"

// TaskAuthor is the embedded creator record. Its email is the sole
// authorization credential for mutating or deleting the task.
type TaskAuthor struct {
	Email string `json:"email" bson:"email"`
	Name  string `json:"name" bson:"name"`
}

// Task represents a posted task document.
type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Category    string             `json:"category" bson:"category"`
	Description string             `json:"description" bson:"description"`
	Deadline    time.Time          `json:"deadline" bson:"deadline"`
	Budget      float64            `json:"budget" bson:"budget"`
	Author      TaskAuthor         `json:"author" bson:"author"`
	Status      string             `json:"status" bson:"status"`
	BidsCount   int64              `json:"bidsCount" bson:"bidsCount"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// TaskUpdate carries the replaceable task fields. Author, status, createdAt
// and bidsCount are immutable through the update path.
type TaskUpdate struct {
	Title       string
	Category    string
	Description string
	Deadline    time.Time
	Budget      float64
}
