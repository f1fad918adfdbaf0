// Package app assembles the HTTP router from configuration and a database.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tasktracker/internal/config"
	"tasktracker/internal/database"
	"tasktracker/internal/logger"
	"tasktracker/internal/middleware"
	"tasktracker/internal/modules/auth"
	"tasktracker/internal/modules/task"
	"tasktracker/internal/pkg/jwt"
	"tasktracker/internal/pkg/password"
	"tasktracker/internal/pkg/response"
	"tasktracker/internal/repository"
)

const healthTimeout = 2 * time.Second

// NewRouter wires repositories, services and handlers onto a gin engine.
func NewRouter(cfg *config.Config, db *gorm.DB, log *logger.Logger) *gin.Engine {
	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokens := jwt.New(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	hasher := password.NewHasher(cfg.BcryptCost)

	authHandler := auth.NewHandler(auth.NewService(userRepo, refreshRepo, tokens, hasher))
	taskHandler := task.NewHandler(task.NewService(taskRepo))

	r := gin.New()
	r.Use(middleware.ErrorLogger(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()
		if err := database.Ping(ctx, db); err != nil {
			_ = c.Error(err)
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// public
	authHandler.RegisterPublicRoutes(r)

	protected := r.Group("")
	protected.Use(middleware.JWTAuth(tokens))
	{
		authHandler.RegisterProtectedRoutes(protected)
		taskHandler.RegisterRoutes(protected)
	}

	return r
}
