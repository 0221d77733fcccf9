package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup email.
	ErrUserNotFound = errors.New("user not found")
	// ErrTaskNotFound is returned when no task matches the identifier.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTaskForbidden is returned when the caller email does not match the task author.
	ErrTaskForbidden = errors.New("email does not match task author")
	// ErrDuplicateUser is returned when the upsert races the unique email index.
	ErrDuplicateUser = errors.New("user already exists")
)

// ValidationError carries a field-specific message for a 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognized
// collapses to a generic 500 so store failures never leak details.
func MapErrorToHTTP(err error) *HTTPError {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return NewHTTPError(http.StatusBadRequest, ve.Message, "INVALID_INPUT")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TASK_NOT_FOUND")
	case errors.Is(err, ErrTaskForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrDuplicateUser):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_USER")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}
}
