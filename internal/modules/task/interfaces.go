package task

import (
	"context"

	"tasktracker/internal/domain"
	"tasktracker/internal/repository"
)

type TaskRepositoryInterface interface {
	List(ctx context.Context, userID int64, f repository.TaskFilter) ([]domain.Task, int64, error)
	Count(ctx context.Context, userID int64, f repository.TaskFilter) (int64, error)
	GetByID(ctx context.Context, userID, id int64) (*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, userID, id int64, updates map[string]any) error
	Toggle(ctx context.Context, userID, id int64) error
	Delete(ctx context.Context, userID, id int64) error
}
