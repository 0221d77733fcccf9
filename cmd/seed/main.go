package main

import (
	"context"
	"log"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

var seedUsers = []model.User{
	{Name: "Maya Ortiz", Email: "maya@example.com", Bio: "Full-stack tinkerer", AuthProvider: "password"},
	{Name: "Jonas Weber", Email: "jonas@example.com", Photo: "https://example.com/jonas.png", AuthProvider: "google"},
	{Name: "Priya Nair", Email: "priya@example.com", Bio: "Copywriter and editor", AuthProvider: "password"},
}

var seedTasks = []model.Task{
	{
		Title:       "Build a landing page",
		Category:    "web",
		Description: "Single-page marketing site with a contact form",
		Budget:      350,
		Author:      model.TaskAuthor{Email: "maya@example.com", Name: "Maya Ortiz"},
	},
	{
		Title:       "Translate product brochure",
		Category:    "writing",
		Description: "English to German, about 2000 words",
		Budget:      120.5,
		Author:      model.TaskAuthor{Email: "jonas@example.com", Name: "Jonas Weber"},
	},
	{
		Title:       "Logo refresh",
		Category:    "design",
		Description: "Modernize an existing logo, deliver vector files",
		Budget:      200,
		Author:      model.TaskAuthor{Email: "priya@example.com", Name: "Priya Nair"},
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()
	ctx := context.Background()

	client, err := db.NewMongo(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer client.Disconnect(context.Background())
	log.Println("Connected to database")

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	taskRepo := repository.NewTaskRepository(database)

	created, updated := 0, 0
	for i := range seedUsers {
		wasCreated, err := userRepo.Upsert(ctx, &seedUsers[i])
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", seedUsers[i].Email, err)
		}
		if wasCreated {
			created++
		} else {
			updated++
		}
	}

	inserted := 0
	now := time.Now().UTC()
	for i := range seedTasks {
		task := seedTasks[i]
		task.Deadline = now.AddDate(0, 0, 14+7*i)
		task.Status = model.StatusOpen
		task.CreatedAt = now
		task.UpdatedAt = now
		if _, err := taskRepo.Insert(ctx, &task); err != nil {
			log.Fatalf("Failed to seed task %q: %v", task.Title, err)
		}
		inserted++
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users refreshed: %d", updated)
	log.Printf("  - Tasks inserted: %d", inserted)
}
