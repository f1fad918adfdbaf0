package task

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"tasktracker/internal/domain"
	"tasktracker/internal/pkg/validator"
	"tasktracker/internal/repository"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var (
	errInvalidStatus   = validator.Fail("status", "status must be one of: pending, in_progress, completed")
	errInvalidPriority = validator.Fail("priority", "priority must be one of: low, medium, high")
)

type Service struct {
	repo TaskRepositoryInterface
}

func NewService(repo TaskRepositoryInterface) *Service {
	return &Service{repo: repo}
}

// NormalizePage applies list defaults: page is floored at 1, limit is
// clamped to [1, MaxLimit] and defaults to DefaultLimit when unset.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	switch {
	case limit == 0:
		limit = DefaultLimit
	case limit < 1:
		limit = 1
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return page, limit
}

func (s *Service) List(ctx context.Context, userID int64, p ListParams) (*ListResult, error) {
	page, limit := NormalizePage(p.Page, p.Limit)
	filter := repository.TaskFilter{
		Status: strings.TrimSpace(p.Status),
		Search: p.Search,
		Limit:  limit,
	}

	var (
		items []domain.Task
		total int64
		err   error
	)
	if page-1 > math.MaxInt/limit {
		// offset would overflow; nothing can live that far out
		items = []domain.Task{}
		total, err = s.repo.Count(ctx, userID, filter)
	} else {
		filter.Offset = (page - 1) * limit
		items, total, err = s.repo.List(ctx, userID, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (s *Service) Create(ctx context.Context, userID int64, req CreateTaskRequest) (*domain.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	t := &domain.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatusPending,
		Priority:    domain.TaskPriorityMedium,
	}
	if req.Status != "" {
		t.Status = domain.TaskStatus(req.Status)
		if !t.Status.Valid() {
			return nil, errInvalidStatus
		}
	}
	if req.Priority != "" {
		t.Priority = domain.TaskPriority(req.Priority)
		if !t.Priority.Valid() {
			return nil, errInvalidPriority
		}
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := ParseDueDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		t.DueDate = &due
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, userID, id int64) (*domain.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// Update merges the fields present in req into the task. Null clears
// description and due_date and is rejected for the other fields.
func (s *Service) Update(ctx context.Context, userID, id int64, req UpdateTaskRequest) (*domain.Task, error) {
	updates, err := buildUpdates(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, userID, id, updates); err != nil {
		return nil, notFound(err)
	}
	return s.Get(ctx, userID, id)
}

func (s *Service) Toggle(ctx context.Context, userID, id int64) (*domain.Task, error) {
	if err := s.repo.Toggle(ctx, userID, id); err != nil {
		return nil, notFound(err)
	}
	return s.Get(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return notFound(s.repo.Delete(ctx, userID, id))
}

func buildUpdates(req UpdateTaskRequest) (map[string]any, error) {
	updates := map[string]any{}

	if req.Title.Set {
		if req.Title.Null {
			return nil, validator.Fail("title", "title cannot be null")
		}
		title := strings.TrimSpace(req.Title.Value)
		if err := validator.Var("title", title, "required,max=255"); err != nil {
			return nil, err
		}
		updates["title"] = title
	}

	if req.Description.Set {
		if req.Description.Null {
			updates["description"] = nil
		} else {
			updates["description"] = req.Description.Value
		}
	}

	if req.Status.Set {
		if req.Status.Null {
			return nil, validator.Fail("status", "status cannot be null")
		}
		if !domain.TaskStatus(req.Status.Value).Valid() {
			return nil, errInvalidStatus
		}
		updates["status"] = req.Status.Value
	}

	if req.Priority.Set {
		if req.Priority.Null {
			return nil, validator.Fail("priority", "priority cannot be null")
		}
		if !domain.TaskPriority(req.Priority.Value).Valid() {
			return nil, errInvalidPriority
		}
		updates["priority"] = req.Priority.Value
	}

	if req.DueDate.Set {
		if req.DueDate.Null || req.DueDate.Value == "" {
			updates["due_date"] = nil
		} else {
			due, err := ParseDueDate(req.DueDate.Value)
			if err != nil {
				return nil, err
			}
			updates["due_date"] = due
		}
	}

	if len(updates) == 0 {
		return nil, validator.Fail("", "no fields to update")
	}
	return updates, nil
}

// ParseDueDate accepts YYYY-MM-DD (midnight UTC) or an RFC 3339 timestamp.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseInLocation(time.DateOnly, s, time.UTC); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, validator.Fail("due_date", "due_date must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTaskNotFound
	}
	return err
}
