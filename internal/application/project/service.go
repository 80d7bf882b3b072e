package project

import (
	"context"
	"fmt"
	"time"

	"github.com/taskboard-api/internal/domain"
	"github.com/taskboard-api/internal/infrastructure/dynamo"
	"github.com/taskboard-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error)
	Get(ctx context.Context, projectID string) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	Update(ctx context.Context, projectID string, req domain.UpdateProjectRequest) (*domain.Project, error)
	Delete(ctx context.Context, projectID string) error
}

type service struct {
	repo *dynamo.ProjectRepo
}

func NewService(repo *dynamo.ProjectRepo) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error) {
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = domain.ProjectStatusPlanning
	}
	now := time.Now().UTC()
	p := &domain.Project{
		ProjectID:   id.New(),
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		Deadline:    deadline,
		CreatedBy:   req.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.repo.Get(ctx, projectID)
}

func (s *service) List(ctx context.Context) ([]domain.Project, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, projectID string, req domain.UpdateProjectRequest) (*domain.Project, error) {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Deadline != nil {
		deadline, err := parseDate(req.Deadline)
		if err != nil {
			return nil, err
		}
		updates["deadline"] = deadline
	}
	if err := s.repo.Update(ctx, projectID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, projectID)
}

func (s *service) Delete(ctx context.Context, projectID string) error {
	return s.repo.Delete(ctx, projectID)
}

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
