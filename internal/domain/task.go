package domain

import "time"

// Task status values. Terminal statuses are excluded from deadline alerts.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusReview     = "review"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

type Task struct {
	TaskID      string     `json:"id" dynamodbav:"task_id"`
	ProjectID   *string    `json:"project_id,omitempty" dynamodbav:"project_id"`
	Title       string     `json:"title" dynamodbav:"title"`
	Description string     `json:"description" dynamodbav:"description"`
	AssignedTo  string     `json:"assigned_to" dynamodbav:"assigned_to"`
	Status      string     `json:"status" dynamodbav:"status"`
	DueDate     *time.Time `json:"due_date,omitempty" dynamodbav:"due_date"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// Terminal reports whether the task is in a state that can no longer
// become overdue (completed or cancelled).
func (t *Task) Terminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusCancelled
}

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	AssignedTo  string  `json:"assigned_to"`
	ProjectID   *string `json:"project_id"`
	Status      string  `json:"status" validate:"omitempty,oneof=todo in-progress review completed cancelled"`
	DueDate     *string `json:"due_date"` // RFC 3339
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assigned_to"`
	ProjectID   *string `json:"project_id"`
	Status      *string `json:"status" validate:"omitempty,oneof=todo in-progress review completed cancelled"`
	DueDate     *string `json:"due_date"` // RFC 3339; empty string clears it
}
