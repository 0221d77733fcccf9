package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard/internal/config"
)

const connectTimeout = 10 * time.Second

// NewMongo returns a connected MongoDB client.
func NewMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.MongoURI)
	if cfg.MongoUser != "" {
		opts.SetAuth(options.Credential{
			Username: cfg.MongoUser,
			Password: cfg.MongoPass,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the handlers rely on. The unique email
// index backs the user upsert; the createdAt index backs task listing order.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}

	_, err = database.Collection("tasks").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create tasks createdAt index: %w", err)
	}
	return nil
}
