package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskboard/internal/model"
)

// maxListResults caps task listing; there is no pagination cursor.
const maxListResults = 100

// TaskFilter narrows task listing. Zero-value fields impose no constraint.
type TaskFilter struct {
	AuthorEmail string
	Category    string
}

// TaskRepository defines persistence operations for task documents.
//
// Update and Delete filter on both the identifier and the author email so
// that authorization and mutation happen as one store operation.
type TaskRepository interface {
	Insert(ctx context.Context, task *model.Task) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, id primitive.ObjectID, authorEmail string, fields model.TaskUpdate) (matched int64, err error)
	Delete(ctx context.Context, id primitive.ObjectID, authorEmail string) (deleted int64, err error)
	IncrementBids(ctx context.Context, id primitive.ObjectID) (*model.Task, error)
}

type taskRepository struct {
	tasks *mongo.Collection
}

// NewTaskRepository builds a Mongo-backed repository.
func NewTaskRepository(database *mongo.Database) TaskRepository {
	return &taskRepository{tasks: database.Collection("tasks")}
}

func (r *taskRepository) Insert(ctx context.Context, task *model.Task) (primitive.ObjectID, error) {
	res, err := r.tasks.InsertOne(ctx, task)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (r *taskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Task, error) {
	var task model.Task
	if err := r.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := bson.M{}
	if filter.AuthorEmail != "" {
		query["author.email"] = filter.AuthorEmail
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(maxListResults)

	cursor, err := r.tasks.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := make([]model.Task, 0)
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update replaces the mutable fields of the task matching both id and author
// email. A zero matched count means the task is gone or owned by someone else;
// the caller disambiguates.
func (r *taskRepository) Update(ctx context.Context, id primitive.ObjectID, authorEmail string, fields model.TaskUpdate) (int64, error) {
	filter := bson.M{"_id": id, "author.email": authorEmail}
	update := bson.M{
		"$set": bson.M{
			"title":       fields.Title,
			"category":    fields.Category,
			"description": fields.Description,
			"deadline":    fields.Deadline,
			"budget":      fields.Budget,
			"updatedAt":   time.Now().UTC(),
		},
	}

	res, err := r.tasks.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (r *taskRepository) Delete(ctx context.Context, id primitive.ObjectID, authorEmail string) (int64, error) {
	res, err := r.tasks.DeleteOne(ctx, bson.M{"_id": id, "author.email": authorEmail})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IncrementBids atomically bumps bidsCount and returns the updated document.
func (r *taskRepository) IncrementBids(ctx context.Context, id primitive.ObjectID) (*model.Task, error) {
	update := bson.M{
		"$inc": bson.M{"bidsCount": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var task model.Task
	if err := r.tasks.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&task); err != nil {
		return nil, err
	}
	return &task, nil
}
