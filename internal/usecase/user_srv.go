package usecase

import (
	"context"

	"cotecsa-backend/internal/data/entity"
	"cotecsa-backend/internal/data/repository"
	"cotecsa-backend/internal/dto/response"
	apperrors "cotecsa-backend/internal/errors"

	"go.uber.org/zap"
)

type UserService interface {
	ListUsers(ctx context.Context) ([]response.UserListItem, error)
	ChangeRole(ctx context.Context, id int64, role string) error
	DeleteUser(ctx context.Context, id int64) error
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log,
	}
}

func (s *userService) ListUsers(ctx context.Context) ([]response.UserListItem, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return response.UsersToList(users), nil
}

// ChangeRole updates a user's role. The repository runs the last-admin guard
// and the update as one transaction, so the admin set can never become empty.
func (s *userService) ChangeRole(ctx context.Context, id int64, role string) error {
	newRole := entity.UserRole(role)
	if !newRole.IsValid() {
		return apperrors.ErrInvalidRole
	}

	if err := s.userRepo.ChangeRoleGuarded(ctx, id, newRole); err != nil {
		return err
	}

	s.log.Info("Role updated",
		zap.Int64("user_id", id),
		zap.String("role", role),
	)

	return nil
}

// DeleteUser removes a user, rejecting the deletion of the last admin.
func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	return s.userRepo.DeleteGuarded(ctx, id)
}
