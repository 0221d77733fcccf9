package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard/internal/model"
)

// UserRepository defines persistence operations for user documents.
type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) (created bool, err error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	users *mongo.Collection
}

// NewUserRepository builds a Mongo-backed repository.
func NewUserRepository(database *mongo.Database) UserRepository {
	return &userRepository{users: database.Collection("users")}
}

// Upsert writes the profile fields keyed on email in a single atomic
// operation. createdAt is only set when the document is first inserted.
func (r *userRepository) Upsert(ctx context.Context, user *model.User) (bool, error) {
	now := time.Now().UTC()
	filter := bson.M{"email": user.Email}
	update := bson.M{
		"$set": bson.M{
			"name":         user.Name,
			"photo":        user.Photo,
			"bio":          user.Bio,
			"authProvider": user.AuthProvider,
			"updatedAt":    now,
		},
		"$setOnInsert": bson.M{
			"email":     user.Email,
			"createdAt": now,
		},
	}

	res, err := r.users.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}
