package domain

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Toggled flips completion: completed goes back to pending, everything else
// (including in_progress) becomes completed.
func (s TaskStatus) Toggled() TaskStatus {
	if s == TaskStatusCompleted {
		return TaskStatusPending
	}
	return TaskStatusCompleted
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID int64 `json:"id" gorm:"primaryKey;index:idx_tasks_user_created,priority:3,sort:desc"`

	UserID int64 `json:"user_id" gorm:"not null;index:idx_tasks_user_created,priority:1"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	Title       string       `json:"title" gorm:"size:255;not null"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status" gorm:"size:20;not null;default:pending"`
	Priority    TaskPriority `json:"priority" gorm:"size:10;not null;default:medium"`
	DueDate     *time.Time   `json:"due_date"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_tasks_user_created,priority:2,sort:desc"`
	UpdatedAt time.Time `json:"updated_at"`
}
