package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// MockTaskRepository is a mock implementation of TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Insert(ctx context.Context, task *model.Task) (primitive.ObjectID, error) {
	args := m.Called(ctx, task)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, id primitive.ObjectID, authorEmail string, fields model.TaskUpdate) (int64, error) {
	args := m.Called(ctx, id, authorEmail, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id primitive.ObjectID, authorEmail string) (int64, error) {
	args := m.Called(ctx, id, authorEmail)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) IncrementBids(ctx context.Context, id primitive.ObjectID) (*model.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func validCreateInput() CreateTaskInput {
	return CreateTaskInput{
		TaskInput: TaskInput{
			Title:       "Build a landing page",
			Category:    "web",
			Description: "Single-page site with contact form",
			Deadline:    "2025-01-01",
			Budget:      float64(150.5),
		},
		UserEmail: "Owner@Example.com",
		UserName:  "Owner",
	}
}

func TestTaskService_CreateTask(t *testing.T) {
	oid := primitive.NewObjectID()

	repo := new(MockTaskRepository)
	var inserted *model.Task
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*model.Task")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).(*model.Task)
		}).
		Return(oid, nil)

	svc := NewTaskService(repo, nil)
	id, err := svc.CreateTask(context.Background(), validCreateInput())

	assert.NoError(t, err)
	assert.Equal(t, oid, id)
	if assert.NotNil(t, inserted) {
		assert.Equal(t, "Build a landing page", inserted.Title)
		assert.Equal(t, "web", inserted.Category)
		assert.Equal(t, 150.5, inserted.Budget)
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), inserted.Deadline)
		assert.Equal(t, "owner@example.com", inserted.Author.Email)
		assert.Equal(t, "Owner", inserted.Author.Name)
		assert.Equal(t, model.StatusOpen, inserted.Status)
		assert.Zero(t, inserted.BidsCount)
		assert.False(t, inserted.CreatedAt.IsZero())
		assert.Equal(t, inserted.CreatedAt, inserted.UpdatedAt)
	}
}

func TestTaskService_CreateTask_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateTaskInput)
		wantMsg string
	}{
		{"blank title", func(in *CreateTaskInput) { in.Title = "   " }, "title is required"},
		{"missing category", func(in *CreateTaskInput) { in.Category = "" }, "category is required"},
		{"blank description", func(in *CreateTaskInput) { in.Description = " " }, "description is required"},
		{"missing deadline", func(in *CreateTaskInput) { in.Deadline = nil }, "deadline is required"},
		{"blank deadline", func(in *CreateTaskInput) { in.Deadline = "" }, "deadline is required"},
		{"missing budget", func(in *CreateTaskInput) { in.Budget = nil }, "budget is required"},
		{"non-numeric budget", func(in *CreateTaskInput) { in.Budget = "abc" }, "budget must be a number"},
		{"boolean budget", func(in *CreateTaskInput) { in.Budget = true }, "budget must be a number"},
		{"missing userEmail", func(in *CreateTaskInput) { in.UserEmail = "" }, "userEmail is required"},
		{"unparseable deadline", func(in *CreateTaskInput) { in.Deadline = "not-a-date" }, "invalid deadline"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockTaskRepository)
			svc := NewTaskService(repo, nil)

			in := validCreateInput()
			tc.mutate(&in)

			_, err := svc.CreateTask(context.Background(), in)

			var ve *apperrors.ValidationError
			assert.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.wantMsg, ve.Message)
			repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestTaskService_CreateTask_CoercesBudgetString(t *testing.T) {
	repo := new(MockTaskRepository)
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(task *model.Task) bool {
		return task.Budget == 150
	})).Return(primitive.NewObjectID(), nil)

	svc := NewTaskService(repo, nil)
	in := validCreateInput()
	in.Budget = "150"

	_, err := svc.CreateTask(context.Background(), in)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTaskService_CreateTask_AcceptsEpochDeadline(t *testing.T) {
	repo := new(MockTaskRepository)
	var inserted *model.Task
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*model.Task")).
		Run(func(args mock.Arguments) { inserted = args.Get(1).(*model.Task) }).
		Return(primitive.NewObjectID(), nil)

	svc := NewTaskService(repo, nil)
	in := validCreateInput()
	in.Deadline = float64(1735689600000) // 2025-01-01T00:00:00Z

	_, err := svc.CreateTask(context.Background(), in)

	assert.NoError(t, err)
	if assert.NotNil(t, inserted) {
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), inserted.Deadline)
	}
}

func TestTaskService_ListTasks(t *testing.T) {
	stored := []model.Task{{Title: "one"}, {Title: "two"}}

	repo := new(MockTaskRepository)
	repo.On("List", mock.Anything, repository.TaskFilter{
		AuthorEmail: "owner@example.com",
		Category:    "web",
	}).Return(stored, nil)

	svc := NewTaskService(repo, nil)
	tasks, err := svc.ListTasks(context.Background(), "Owner@Example.com", "web")

	assert.NoError(t, err)
	assert.Equal(t, stored, tasks)
	repo.AssertExpectations(t)
}

func TestTaskService_GetTask(t *testing.T) {
	oid := primitive.NewObjectID()
	stored := &model.Task{ID: oid, Title: "found"}

	t.Run("found", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("FindByID", mock.Anything, oid).Return(stored, nil)

		svc := NewTaskService(repo, nil)
		task, err := svc.GetTask(context.Background(), oid.Hex())

		assert.NoError(t, err)
		assert.Equal(t, stored, task)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("FindByID", mock.Anything, oid).Return(nil, mongo.ErrNoDocuments)

		svc := NewTaskService(repo, nil)
		_, err := svc.GetTask(context.Background(), oid.Hex())

		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		repo := new(MockTaskRepository)

		svc := NewTaskService(repo, nil)
		_, err := svc.GetTask(context.Background(), "definitely-not-hex")

		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "invalid task id", ve.Message)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func validUpdateInput() TaskInput {
	return TaskInput{
		Title:       "Updated title",
		Category:    "design",
		Description: "Updated description",
		Deadline:    "2025-06-01",
		Budget:      float64(99),
	}
}

func TestTaskService_UpdateTask(t *testing.T) {
	oid := primitive.NewObjectID()

	t.Run("owner updates", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("Update", mock.Anything, oid, "owner@example.com", mock.MatchedBy(func(u model.TaskUpdate) bool {
			return u.Title == "Updated title" && u.Budget == 99
		})).Return(int64(1), nil)

		svc := NewTaskService(repo, nil)
		err := svc.UpdateTask(context.Background(), oid.Hex(), "Owner@Example.com", validUpdateInput())

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("task vanished", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("Update", mock.Anything, oid, mock.Anything, mock.Anything).Return(int64(0), nil)
		repo.On("FindByID", mock.Anything, oid).Return(nil, mongo.ErrNoDocuments)

		svc := NewTaskService(repo, nil)
		err := svc.UpdateTask(context.Background(), oid.Hex(), "owner@example.com", validUpdateInput())

		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})

	t.Run("foreign email is forbidden", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("Update", mock.Anything, oid, "other@example.com", mock.Anything).Return(int64(0), nil)
		repo.On("FindByID", mock.Anything, oid).Return(&model.Task{ID: oid}, nil)

		svc := NewTaskService(repo, nil)
		err := svc.UpdateTask(context.Background(), oid.Hex(), "other@example.com", validUpdateInput())

		assert.ErrorIs(t, err, apperrors.ErrTaskForbidden)
	})

	t.Run("missing email", func(t *testing.T) {
		repo := new(MockTaskRepository)

		svc := NewTaskService(repo, nil)
		err := svc.UpdateTask(context.Background(), oid.Hex(), "", validUpdateInput())

		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "email is required", ve.Message)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed id", func(t *testing.T) {
		repo := new(MockTaskRepository)

		svc := NewTaskService(repo, nil)
		err := svc.UpdateTask(context.Background(), "nope", "owner@example.com", validUpdateInput())

		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "invalid task id", ve.Message)
	})

	t.Run("invalid fields never reach the store", func(t *testing.T) {
		repo := new(MockTaskRepository)

		svc := NewTaskService(repo, nil)
		in := validUpdateInput()
		in.Budget = "abc"
		err := svc.UpdateTask(context.Background(), oid.Hex(), "owner@example.com", in)

		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "budget must be a number", ve.Message)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTaskService_DeleteTask(t *testing.T) {
	oid := primitive.NewObjectID()

	t.Run("owner deletes", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("Delete", mock.Anything, oid, "owner@example.com").Return(int64(1), nil)

		svc := NewTaskService(repo, nil)
		err := svc.DeleteTask(context.Background(), oid.Hex(), "Owner@Example.com")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("task vanished", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("Delete", mock.Anything, oid, mock.Anything).Return(int64(0), nil)
		repo.On("FindByID", mock.Anything, oid).Return(nil, mongo.ErrNoDocuments)

		svc := NewTaskService(repo, nil)
		err := svc.DeleteTask(context.Background(), oid.Hex(), "owner@example.com")

		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})

	t.Run("foreign email is forbidden", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("Delete", mock.Anything, oid, "other@example.com").Return(int64(0), nil)
		repo.On("FindByID", mock.Anything, oid).Return(&model.Task{ID: oid}, nil)

		svc := NewTaskService(repo, nil)
		err := svc.DeleteTask(context.Background(), oid.Hex(), "other@example.com")

		assert.ErrorIs(t, err, apperrors.ErrTaskForbidden)
	})

	t.Run("missing email", func(t *testing.T) {
		repo := new(MockTaskRepository)

		svc := NewTaskService(repo, nil)
		err := svc.DeleteTask(context.Background(), oid.Hex(), " ")

		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "email is required", ve.Message)
	})

	t.Run("malformed id", func(t *testing.T) {
		repo := new(MockTaskRepository)

		svc := NewTaskService(repo, nil)
		err := svc.DeleteTask(context.Background(), "short", "owner@example.com")

		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "invalid task id", ve.Message)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTaskService_PlaceBid(t *testing.T) {
	oid := primitive.NewObjectID()

	t.Run("increments and returns the new count", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("IncrementBids", mock.Anything, oid).Return(&model.Task{ID: oid, BidsCount: 3}, nil)

		svc := NewTaskService(repo, nil)
		bids, err := svc.PlaceBid(context.Background(), oid.Hex())

		assert.NoError(t, err)
		assert.Equal(t, int64(3), bids)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockTaskRepository)
		repo.On("IncrementBids", mock.Anything, oid).Return(nil, mongo.ErrNoDocuments)

		svc := NewTaskService(repo, nil)
		_, err := svc.PlaceBid(context.Background(), oid.Hex())

		assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		repo := new(MockTaskRepository)

		svc := NewTaskService(repo, nil)
		_, err := svc.PlaceBid(context.Background(), "xx")

		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Equal(t, "invalid task id", ve.Message)
	})
}
