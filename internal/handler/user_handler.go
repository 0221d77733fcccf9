package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"taskboard/internal/errors"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

// UserHandler handles user endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpsertUserRequest represents a user create-or-refresh request.
type UpsertUserRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email" validate:"required"`
	Photo        string `json:"photo"`
	Bio          string `json:"bio"`
	AuthProvider string `json:"authProvider"`
}

// UpsertUserResponse represents the upsert outcome.
type UpsertUserResponse struct {
	OK      bool   `json:"ok"`
	Created bool   `json:"created"`
	Email   string `json:"email"`
}

// UpsertUser godoc
// @Summary Create or refresh a user profile
// @Tags users
// @Accept json
// @Produce json
// @Param user body UpsertUserRequest true "User payload"
// @Success 200 {object} UpsertUserResponse
// @Success 201 {object} UpsertUserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) UpsertUser(c echo.Context) error {
	var req UpsertUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "email is required",
			Code:  "VALIDATION_ERROR",
		})
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Photo:        req.Photo,
		Bio:          req.Bio,
		AuthProvider: req.AuthProvider,
	}

	created, err := h.userService.UpsertUser(c.Request().Context(), user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, UpsertUserResponse{
		OK:      true,
		Created: created,
		Email:   user.Email,
	})
}

// GetUser godoc
// @Summary Get user by email
// @Tags users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{email} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	// PathUnescape, not QueryUnescape: a literal + in a path segment is not
	// a space, and plus-addressed emails are common.
	email := c.Param("email")
	if decoded, err := url.PathUnescape(email); err == nil {
		email = decoded
	}

	user, err := h.userService.GetUserByEmail(c.Request().Context(), email)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, user)
}
