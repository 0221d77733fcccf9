package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskboard/internal/errors"
	"taskboard/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTaskRequest represents a task creation request. Deadline and budget
// are loosely typed: clients send dates as strings or epoch milliseconds and
// budgets as numbers or numeric strings.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Deadline    any    `json:"deadline"`
	Budget      any    `json:"budget"`
	UserEmail   string `json:"userEmail"`
	UserName    string `json:"userName"`
}

// UpdateTaskRequest represents a task update request.
type UpdateTaskRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Deadline    any    `json:"deadline"`
	Budget      any    `json:"budget"`
}

// TaskMutationResponse represents the outcome of a create, update or delete.
type TaskMutationResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

// BidResponse represents the outcome of placing a bid.
type BidResponse struct {
	OK        bool  `json:"ok"`
	BidsCount int64 `json:"bidsCount"`
}

// CreateTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body CreateTaskRequest true "Task payload"
// @Success 201 {object} TaskMutationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	id, err := h.taskService.CreateTask(c.Request().Context(), service.CreateTaskInput{
		TaskInput: service.TaskInput{
			Title:       req.Title,
			Category:    req.Category,
			Description: req.Description,
			Deadline:    req.Deadline,
			Budget:      req.Budget,
		},
		UserEmail: req.UserEmail,
		UserName:  req.UserName,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}

	return c.JSON(http.StatusCreated, TaskMutationResponse{OK: true, ID: id.Hex()})
}

// ListTasks godoc
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Param email query string false "Filter by author email"
// @Param category query string false "Filter by category"
// @Success 200 {array} model.Task
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.ListTasks(
		c.Request().Context(),
		c.QueryParam("email"),
		c.QueryParam("category"),
	)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// GetTask godoc
// @Summary Get task by id
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	task, err := h.taskService.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, task)
}

// UpdateTask godoc
// @Summary Update a task's fields
// @Description Replaces title, category, description, deadline and budget.
// @Description Only the task author, identified by the email query parameter, may update.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param email query string true "Author email"
// @Param task body UpdateTaskRequest true "Task fields"
// @Success 200 {object} TaskMutationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	id := c.Param("id")
	err := h.taskService.UpdateTask(c.Request().Context(), id, c.QueryParam("email"), service.TaskInput{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Deadline:    req.Deadline,
		Budget:      req.Budget,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}

	return c.JSON(http.StatusOK, TaskMutationResponse{OK: true, ID: id})
}

// DeleteTask godoc
// @Summary Delete a task
// @Description Only the task author, identified by the email query parameter, may delete.
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Param email query string true "Author email"
// @Success 200 {object} TaskMutationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id := c.Param("id")
	if err := h.taskService.DeleteTask(c.Request().Context(), id, c.QueryParam("email")); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, TaskMutationResponse{OK: true, ID: id})
}

// PlaceBid godoc
// @Summary Place a bid on a task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} BidResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id}/bid [post]
func (h *TaskHandler) PlaceBid(c echo.Context) error {
	bids, err := h.taskService.PlaceBid(c.Request().Context(), c.Param("id"))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
	}
	return c.JSON(http.StatusOK, BidResponse{OK: true, BidsCount: bids})
}
