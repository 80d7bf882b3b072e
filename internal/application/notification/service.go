package notification

import (
	"context"
	"time"

	"github.com/taskboard-api/internal/domain"
	"github.com/taskboard-api/internal/infrastructure/dynamo"
	"github.com/taskboard-api/internal/pkg/id"
)

// Service creates persisted notifications. Reading and mutating them goes
// through the feed, which merges notifications with computed reminders.
type Service interface {
	Create(ctx context.Context, req domain.CreateNotificationRequest) (*domain.Notification, error)
}

type service struct {
	repo *dynamo.NotificationRepo
}

func NewService(repo *dynamo.NotificationRepo) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req domain.CreateNotificationRequest) (*domain.Notification, error) {
	typ := req.Type
	if typ == "" {
		typ = "info"
	}
	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}
	now := time.Now().UTC()
	n := &domain.Notification{
		NotificationID: id.New(),
		UserID:         req.UserID,
		Type:           typ,
		Title:          req.Title,
		Message:        req.Message,
		Priority:       priority,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}
