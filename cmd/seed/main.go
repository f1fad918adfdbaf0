package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"tasktracker/internal/config"
	"tasktracker/internal/database"
	"tasktracker/internal/domain"
	"tasktracker/internal/logger"
	"tasktracker/internal/pkg/password"
	"tasktracker/internal/repository"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "password123"
)

type seedTask struct {
	title    string
	status   domain.TaskStatus
	priority domain.TaskPriority
	dueIn    time.Duration
}

var demoTasks = []seedTask{
	{"Buy milk", domain.TaskStatusPending, domain.TaskPriorityLow, 24 * time.Hour},
	{"Write quarterly report", domain.TaskStatusInProgress, domain.TaskPriorityHigh, 72 * time.Hour},
	{"Book dentist appointment", domain.TaskStatusPending, domain.TaskPriorityMedium, 0},
	{"Renew passport", domain.TaskStatusCompleted, domain.TaskPriorityHigh, 0},
	{"Fix 100% CPU_usage alert", domain.TaskStatusPending, domain.TaskPriorityMedium, 48 * time.Hour},
	{"Call grandma", domain.TaskStatusCompleted, domain.TaskPriorityLow, 0},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("invalid configuration", "error", err)
	}
	log := logger.New(cfg.LogLevel)
	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed", "error", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("migrate failed", "error", err)
	}

	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)

	user, err := users.GetByEmail(ctx, demoEmail)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := password.NewHasher(cfg.BcryptCost).Hash(ctx, demoPassword)
		if err != nil {
			log.Fatal("hash failed", "error", err)
		}
		user = &domain.User{Email: demoEmail, PasswordHash: hash, Name: "Demo User"}
		if err := users.Create(ctx, user); err != nil {
			log.Fatal("create demo user failed", "error", err)
		}
		log.Info("created demo user", "email", demoEmail, "password", demoPassword)
	case err != nil:
		log.Fatal("lookup demo user failed", "error", err)
	default:
		log.Info("demo user already exists", "email", demoEmail)
	}

	_, existing, err := tasks.List(ctx, user.ID, repository.TaskFilter{Limit: 1})
	if err != nil {
		log.Fatal("count tasks failed", "error", err)
	}
	if existing > 0 {
		log.Info("demo tasks already present, skipping", "count", existing)
		return
	}

	now := time.Now().UTC()
	for _, st := range demoTasks {
		t := &domain.Task{
			UserID:   user.ID,
			Title:    st.title,
			Status:   st.status,
			Priority: st.priority,
		}
		if st.dueIn > 0 {
			due := now.Add(st.dueIn).Truncate(24 * time.Hour)
			t.DueDate = &due
		}
		if err := tasks.Create(ctx, t); err != nil {
			log.Fatal("create task failed", "title", st.title, "error", err)
		}
	}
	log.Info("seed completed", "tasks", len(demoTasks))
}
