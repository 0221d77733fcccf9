package main

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"taskboard/docs"
	"taskboard/internal/cache"
	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/handler"
	"taskboard/internal/repository"
	"taskboard/internal/router"
	"taskboard/internal/service"
)

// @title Task Board API
// @version 1.0
// @description REST backend for task postings: user profiles, task CRUD with author-email authorization, and bid counting.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	cfg := config.Load()

	ctx := context.Background()

	client, err := db.NewMongo(ctx, cfg)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("mongo disconnect: %v", err)
		}
	}()

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	taskRepo := repository.NewTaskRepository(database)

	// Initialize services
	userService := service.NewUserService(userRepo, cacheClient)
	taskService := service.NewTaskService(taskRepo, cacheClient)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService)
	taskHandler := handler.NewTaskHandler(taskService)

	e := echo.New()
	router.Register(e, userHandler, taskHandler)

	swaggerURL := "http://localhost:" + cfg.ServerPort + "/api-docs"
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
		swaggerURL = "http://" + cfg.SwaggerHost + "/api-docs"
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	log.Printf("server starting on %s", addr)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
