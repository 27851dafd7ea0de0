package usecase

import (
	"cotecsa-backend/internal/data/repository"
	"cotecsa-backend/internal/notifier"
	"cotecsa-backend/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth AuthService
	User UserService
}

func NewService(
	repo *repository.Repository,
	notifier notifier.Notifier,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth: NewAuthService(repo, notifier, config, log),
		User: NewUserService(repo.User, log),
	}
}
