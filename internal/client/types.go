package client

import (
	"encoding/json"
	"time"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type TaskPage struct {
	Tasks      []Task
	Pagination Pagination
}

type ListTasksParams struct {
	Page   int
	Limit  int
	Status string
	Search string
}

type CreateTaskInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	DueDate     string  `json:"due_date,omitempty"`
}

// UpdateTaskInput sends only the non-nil fields. ClearDescription and
// ClearDueDate send an explicit null.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	Status           *string
	Priority         *string
	DueDate          *string
	ClearDescription bool
	ClearDueDate     bool
}

func (u UpdateTaskInput) MarshalJSON() ([]byte, error) {
	body := map[string]any{}
	if u.Title != nil {
		body["title"] = *u.Title
	}
	if u.Description != nil {
		body["description"] = *u.Description
	}
	if u.ClearDescription {
		body["description"] = nil
	}
	if u.Status != nil {
		body["status"] = *u.Status
	}
	if u.Priority != nil {
		body["priority"] = *u.Priority
	}
	if u.DueDate != nil {
		body["due_date"] = *u.DueDate
	}
	if u.ClearDueDate {
		body["due_date"] = nil
	}
	return json.Marshal(body)
}

type authPayload struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Code       string          `json:"code"`
	Pagination *Pagination     `json:"pagination"`
}
