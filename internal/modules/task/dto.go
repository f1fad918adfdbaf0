package task

import (
	"bytes"
	"encoding/json"

	"tasktracker/internal/domain"
)

// Field is a PATCH field that distinguishes "absent", "null" and a value.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

type UpdateTaskRequest struct {
	Title       Field[string] `json:"title"`
	Description Field[string] `json:"description"`
	Status      Field[string] `json:"status"`
	Priority    Field[string] `json:"priority"`
	DueDate     Field[string] `json:"due_date"`
}

type ListParams struct {
	Page   int
	Limit  int
	Status string
	Search string
}

type ListResult struct {
	Items      []domain.Task
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}
