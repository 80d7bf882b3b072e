package task

import (
	"context"
	"fmt"
	"time"

	"github.com/taskboard-api/internal/domain"
	"github.com/taskboard-api/internal/infrastructure/dynamo"
	"github.com/taskboard-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateTaskRequest) (*domain.Task, error)
	Get(ctx context.Context, taskID string) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	Update(ctx context.Context, taskID string, req domain.UpdateTaskRequest) (*domain.Task, error)
	Delete(ctx context.Context, taskID string) error
}

type service struct {
	repo *dynamo.TaskRepo
}

func NewService(repo *dynamo.TaskRepo) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req domain.CreateTaskRequest) (*domain.Task, error) {
	due, err := parseDate(req.DueDate)
	if err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = domain.TaskStatusTodo
	}
	now := time.Now().UTC()
	t := &domain.Task{
		TaskID:      id.New(),
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      status,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *service) Get(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.repo.Get(ctx, taskID)
}

func (s *service) List(ctx context.Context) ([]domain.Task, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, taskID string, req domain.UpdateTaskRequest) (*domain.Task, error) {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.ProjectID != nil {
		updates["project_id"] = *req.ProjectID
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.DueDate != nil {
		due, err := parseDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		updates["due_date"] = due
	}
	if err := s.repo.Update(ctx, taskID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, taskID)
}

func (s *service) Delete(ctx context.Context, taskID string) error {
	return s.repo.Delete(ctx, taskID)
}

// parseDate accepts RFC 3339 or bare YYYY-MM-DD. An empty string clears the
// date (returns nil).
func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", *raw); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid date %q: %w", *raw, domain.ErrBadRequest)
}
