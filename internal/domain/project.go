package domain

import (
	"strings"
	"time"
)

// Project status values. Historical data carries case variants
// ("Completed" vs "completed"), so completion checks are case-insensitive.
const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusReview     = "review"
	ProjectStatusCompleted  = "completed"
	ProjectStatusCancelled  = "cancelled"
)

type Project struct {
	ProjectID   string     `json:"id" dynamodbav:"project_id"`
	Name        string     `json:"name" dynamodbav:"name"`
	Description string     `json:"description" dynamodbav:"description"`
	Status      string     `json:"status" dynamodbav:"status"`
	Deadline    *time.Time `json:"deadline,omitempty" dynamodbav:"deadline"`
	CreatedBy   string     `json:"created_by" dynamodbav:"created_by"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// Completed reports whether the project status is "completed" in any casing.
func (p *Project) Completed() bool {
	return strings.EqualFold(p.Status, ProjectStatusCompleted)
}

type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Deadline    *string `json:"deadline"` // RFC 3339
	CreatedBy   string  `json:"created_by"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Deadline    *string `json:"deadline"` // RFC 3339; empty string clears it
}
