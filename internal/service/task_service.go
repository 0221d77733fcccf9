package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"taskboard/internal/cache"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

const taskCacheTTL = 5 * time.Minute

// TaskInput carries the client-supplied task fields. Deadline and budget stay
// loosely typed because the wire format accepts several encodings for both.
type TaskInput struct {
	Title       string
	Category    string
	Description string
	Deadline    any
	Budget      any
}

// CreateTaskInput extends TaskInput with the author identity.
type CreateTaskInput struct {
	TaskInput
	UserEmail string
	UserName  string
}

// TaskService exposes task operations.
type TaskService interface {
	CreateTask(ctx context.Context, in CreateTaskInput) (primitive.ObjectID, error)
	ListTasks(ctx context.Context, email, category string) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	UpdateTask(ctx context.Context, id, email string, in TaskInput) error
	DeleteTask(ctx context.Context, id, email string) error
	PlaceBid(ctx context.Context, id string) (int64, error)
}

type taskService struct {
	repo  repository.TaskRepository
	cache *cache.Client
}

// NewTaskService builds a TaskService with repository and cache.
func NewTaskService(repo repository.TaskRepository, cache *cache.Client) TaskService {
	return &taskService{repo: repo, cache: cache}
}

func (s *taskService) cacheKey(id primitive.ObjectID) string {
	return fmt.Sprintf("task:%s", id.Hex())
}

func parseTaskID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, apperrors.NewValidationError("invalid task id")
	}
	return oid, nil
}

// CreateTask validates the payload field by field, short-circuiting on the
// first violation, then inserts an open task authored by userEmail.
func (s *taskService) CreateTask(ctx context.Context, in CreateTaskInput) (primitive.ObjectID, error) {
	fields, err := validateTaskFields(in.Title, in.Category, in.Description, in.Deadline, in.Budget)
	if err != nil {
		return primitive.NilObjectID, err
	}
	userEmail := strings.TrimSpace(in.UserEmail)
	if userEmail == "" {
		return primitive.NilObjectID, apperrors.NewValidationError("userEmail is required")
	}
	deadline, err := fields.finishDeadline()
	if err != nil {
		return primitive.NilObjectID, err
	}

	now := time.Now().UTC()
	task := &model.Task{
		Title:       fields.Title,
		Category:    fields.Category,
		Description: fields.Description,
		Deadline:    deadline,
		Budget:      fields.Budget,
		Author: model.TaskAuthor{
			Email: strings.ToLower(userEmail),
			Name:  strings.TrimSpace(in.UserName),
		},
		Status:    model.StatusOpen,
		BidsCount: 0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return s.repo.Insert(ctx, task)
}

// ListTasks returns up to 100 tasks, newest first. Filters are ANDed; the
// email filter matches the lower-cased author email.
func (s *taskService) ListTasks(ctx context.Context, email, category string) ([]model.Task, error) {
	filter := repository.TaskFilter{
		AuthorEmail: strings.ToLower(strings.TrimSpace(email)),
		Category:    strings.TrimSpace(category),
	}
	return s.repo.List(ctx, filter)
}

// GetTask retrieves a task by its hex identifier with caching.
func (s *taskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	oid, err := parseTaskID(id)
	if err != nil {
		return nil, err
	}

	if data, _ := s.cache.Get(ctx, s.cacheKey(oid)); data != nil {
		var cached model.Task
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	task, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(task); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(oid), payload, taskCacheTTL)
	}
	return task, nil
}

// UpdateTask replaces the mutable fields of a task owned by email. The match
// on id and author email happens in one store operation; a zero match count
// is disambiguated into not-found versus forbidden with a follow-up read.
func (s *taskService) UpdateTask(ctx context.Context, id, email string, in TaskInput) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.NewValidationError("email is required")
	}
	oid, err := parseTaskID(id)
	if err != nil {
		return err
	}
	fields, err := validateTaskFields(in.Title, in.Category, in.Description, in.Deadline, in.Budget)
	if err != nil {
		return err
	}
	deadline, err := fields.finishDeadline()
	if err != nil {
		return err
	}

	update := model.TaskUpdate{
		Title:       fields.Title,
		Category:    fields.Category,
		Description: fields.Description,
		Deadline:    deadline,
		Budget:      fields.Budget,
	}

	matched, err := s.repo.Update(ctx, oid, strings.ToLower(email), update)
	if err != nil {
		return err
	}
	if matched == 0 {
		return s.classifyMiss(ctx, oid)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(oid))
	return nil
}

// DeleteTask removes a task owned by email, with the same single-operation
// ownership semantics as UpdateTask.
func (s *taskService) DeleteTask(ctx context.Context, id, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.NewValidationError("email is required")
	}
	oid, err := parseTaskID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, oid, strings.ToLower(email))
	if err != nil {
		return err
	}
	if deleted == 0 {
		return s.classifyMiss(ctx, oid)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(oid))
	return nil
}

// PlaceBid atomically increments the task's bid counter and returns the new count.
func (s *taskService) PlaceBid(ctx context.Context, id string) (int64, error) {
	oid, err := parseTaskID(id)
	if err != nil {
		return 0, err
	}

	task, err := s.repo.IncrementBids(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, apperrors.ErrTaskNotFound
		}
		return 0, err
	}

	_ = s.cache.Delete(ctx, s.cacheKey(oid))
	return task.BidsCount, nil
}

// classifyMiss decides why a filtered mutation matched nothing: the task is
// gone, or it exists under a different author.
func (s *taskService) classifyMiss(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.ErrTaskNotFound
	}
	if err != nil {
		return err
	}
	return apperrors.ErrTaskForbidden
}
