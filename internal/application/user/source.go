package user

import (
	"context"
	"errors"

	"github.com/taskboard-api/internal/domain"
	"github.com/taskboard-api/internal/infrastructure/dynamo"
)

// Source resolves the account the reminder engine notifies. The engine is
// single-tenant: one configured user per installation.
type Source struct {
	repo   *dynamo.UserRepo
	userID string
}

func NewSource(repo *dynamo.UserRepo, userID string) *Source {
	return &Source{repo: repo, userID: userID}
}

// CurrentUser returns the configured user, or nil when no user is configured,
// the account is missing, or it has been disabled.
func (s *Source) CurrentUser(ctx context.Context) (*domain.User, error) {
	if s.userID == "" {
		return nil, nil
	}
	u, err := s.repo.Get(ctx, s.userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !u.Enable {
		return nil, nil
	}
	return u, nil
}
