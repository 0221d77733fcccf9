package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"taskboard/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	userHandler *handler.UserHandler,
	taskHandler *handler.TaskHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewCustomValidator()

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Task board API is running")
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/api-docs/*", echoSwagger.WrapHandler)

	e.POST("/users", userHandler.UpsertUser)
	e.GET("/users/:email", userHandler.GetUser)

	e.POST("/tasks", taskHandler.CreateTask)
	e.GET("/tasks", taskHandler.ListTasks)
	e.GET("/tasks/:id", taskHandler.GetTask)
	e.PATCH("/tasks/:id", taskHandler.UpdateTask)
	e.DELETE("/tasks/:id", taskHandler.DeleteTask)
	e.POST("/tasks/:id/bid", taskHandler.PlaceBid)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewCustomValidator builds the request validator.
func NewCustomValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
