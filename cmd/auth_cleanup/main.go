package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"tasktracker/internal/config"
	"tasktracker/internal/database"
	"tasktracker/internal/logger"
	"tasktracker/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("invalid configuration", "error", err)
	}
	log := logger.New(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db connect failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := repository.NewRefreshTokenRepository(db).DeleteExpired(ctx)
	if err != nil {
		log.Fatal("cleanup refresh_tokens failed", "error", err)
	}

	log.Info("auth cleanup completed", "refresh_tokens", n)
}
