package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"taskboard/internal/cache"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes user profile operations.
type UserService interface {
	UpsertUser(ctx context.Context, user *model.User) (created bool, err error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(email string) string {
	return fmt.Sprintf("user:%s", strings.ToLower(email))
}

// UpsertUser creates or refreshes the profile keyed on email. Emails are
// canonicalized to lower case before they reach the store.
func (s *userService) UpsertUser(ctx context.Context, user *model.User) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if email == "" {
		return false, apperrors.NewValidationError("email is required")
	}
	user.Email = email
	if strings.TrimSpace(user.AuthProvider) == "" {
		user.AuthProvider = model.DefaultAuthProvider
	}

	created, err := s.repo.Upsert(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Race between index creation and first writes; the upsert
			// normally absorbs concurrent calls.
			return false, apperrors.ErrDuplicateUser
		}
		return false, err
	}

	_ = s.cache.Delete(ctx, s.cacheKey(email))
	return created, nil
}

// GetUserByEmail looks up a profile with caching. Exact match is tried first,
// then a lower-cased retry so documents written before emails were
// canonicalized stay reachable.
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperrors.NewValidationError("email is required")
	}

	if data, _ := s.cache.Get(ctx, s.cacheKey(email)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if lower := strings.ToLower(email); lower != email {
			user, err = s.repo.FindByEmail(ctx, lower)
		}
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(email), payload, userCacheTTL)
	}
	return user, nil
}
