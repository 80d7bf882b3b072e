package user

import (
	"context"
	"errors"
	"time"

	"github.com/taskboard-api/internal/domain"
	"github.com/taskboard-api/internal/infrastructure/dynamo"
	"github.com/taskboard-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	Disable(ctx context.Context, userID string) error
}

type service struct {
	repo *dynamo.UserRepo
}

func NewService(repo *dynamo.UserRepo) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if existing, err := s.repo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, domain.ErrConflict
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:     id.New(),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		SMSCarrier: req.SMSCarrier,
		// New accounts opt in to email and out of SMS until a phone is
		// verified by the owner.
		Notifications: domain.NotificationPrefs{Email: true, SMS: false},
		Enable:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.SMSCarrier != nil {
		updates["sms_carrier"] = *req.SMSCarrier
	}
	if req.Notifications != nil {
		updates["notifications"] = *req.Notifications
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *service) Disable(ctx context.Context, userID string) error {
	return s.repo.Update(ctx, userID, map[string]interface{}{
		"enable":     false,
		"updated_at": time.Now().UTC(),
	})
}
