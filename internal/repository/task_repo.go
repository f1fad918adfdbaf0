package repository

import (
	"context"
	"strings"

	"tasktracker/internal/domain"

	"gorm.io/gorm"
)

// TaskFilter narrows a user's task list. Limit and Offset are expected to be
// normalised by the caller.
type TaskFilter struct {
	Status string
	Search string
	Limit  int
	Offset int
}

// TaskRepository runs every statement with user_id in its WHERE clause, so a
// task owned by someone else behaves exactly like a missing one.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) scoped(ctx context.Context, userID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Task{}).Where("user_id = ?", userID)
}

func (r *TaskRepository) filtered(ctx context.Context, userID int64, f TaskFilter) *gorm.DB {
	q := r.scoped(ctx, userID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(s))+"%")
	}
	return q
}

// Count reports how many of the user's tasks match the filter. Limit and
// Offset are ignored.
func (r *TaskRepository) Count(ctx context.Context, userID int64, f TaskFilter) (int64, error) {
	var total int64
	err := r.filtered(ctx, userID, f).Count(&total).Error
	return total, err
}

// List returns one page of the user's tasks, newest first, and the number of
// tasks matching the same filter.
func (r *TaskRepository) List(ctx context.Context, userID int64, f TaskFilter) ([]domain.Task, int64, error) {
	q := r.filtered(ctx, userID, f)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := make([]domain.Task, 0, f.Limit)
	err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, userID, id int64) (*domain.Task, error) {
	var t domain.Task
	if err := r.scoped(ctx, userID).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// Update applies column updates to the user's task. It reports
// gorm.ErrRecordNotFound when nothing matched.
func (r *TaskRepository) Update(ctx context.Context, userID, id int64, updates map[string]any) error {
	res := r.scoped(ctx, userID).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Toggle flips completion in a single statement: completed becomes pending,
// any other status becomes completed.
func (r *TaskRepository) Toggle(ctx context.Context, userID, id int64) error {
	return r.Update(ctx, userID, id, map[string]any{
		"status": gorm.Expr("CASE WHEN status = ? THEN ? ELSE ? END",
			string(domain.TaskStatusCompleted), string(domain.TaskStatusPending), string(domain.TaskStatusCompleted)),
	})
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
