package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/payment-portal/internal"
	"github.com/frahmantamala/payment-portal/internal/core/datamodel/user"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListUsers(ctx context.Context) ([]*user.User, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to fetch users", err)
	}
	return users, nil
}
