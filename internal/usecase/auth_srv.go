package usecase

import (
	"context"
	"time"

	"cotecsa-backend/internal/data/entity"
	"cotecsa-backend/internal/data/repository"
	"cotecsa-backend/internal/dto/request"
	"cotecsa-backend/internal/dto/response"
	apperrors "cotecsa-backend/internal/errors"
	"cotecsa-backend/internal/notifier"
	"cotecsa-backend/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.MessageResponse, error)
	VerifyCode(ctx context.Context, req *request.VerifyCodeRequest) error
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
}

type authService struct {
	repo     *repository.Repository
	notifier notifier.Notifier
	config   *utils.Config
	log      *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	notifier notifier.Notifier,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		notifier: notifier,
		config:   config,
		log:      log,
	}
}

// Register creates a new account. With verification enabled the account
// starts unverified with a pending 6-digit code that is emailed to the user;
// with verification disabled the account is immediately usable.
func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.MessageResponse, error) {
	// Pre-check duplicate email. The insert below maps the unique
	// constraint to the same error kind, covering the check-insert race.
	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicateEmail
	}

	hash, err := utils.HashPassword(req.Password, s.config.Auth.BcryptCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	user := &entity.User{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         entity.RoleClient,
		Verified:     !s.config.Auth.RequireVerification,
	}

	var code string
	if s.config.Auth.RequireVerification {
		code = utils.GenerateVerificationCode()
		user.VerificationCode = &code
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
		zap.Bool("verification_pending", !user.Verified),
	)

	if !s.config.Auth.RequireVerification {
		return &response.MessageResponse{Message: "Usuario registrado correctamente"}, nil
	}

	// The row is durably created; a failed send is logged, not rolled back.
	go s.sendVerificationCode(user.Email, code)

	return &response.MessageResponse{Message: "Código enviado al correo"}, nil
}

// VerifyCode moves an account from pending to verified when the submitted
// code matches the pending one exactly. The code is single-use: verification
// clears it, so a second attempt with the same code fails.
func (s *authService) VerifyCode(ctx context.Context, req *request.VerifyCodeRequest) error {
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}

	if user.VerificationCode == nil || *user.VerificationCode != req.Code {
		s.log.Warn("Verification code mismatch",
			zap.String("email", req.Email),
			zap.Bool("code_pending", user.VerificationCode != nil),
		)
		return apperrors.ErrInvalidCode
	}

	if err := s.repo.User.MarkVerified(ctx, user.ID); err != nil {
		return err
	}

	s.log.Info("Email verified",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return nil
}

// Login validates credentials and returns the public projection of the user.
func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.log.Warn("Login for unknown email", zap.String("email", req.Email))
		return nil, apperrors.ErrUserNotFound
	}

	if s.config.Auth.RequireVerification && !user.Verified {
		return nil, apperrors.ErrUnverifiedAccount
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.Int64("user_id", user.ID))
		return nil, apperrors.ErrInvalidCredentials
	}

	s.log.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return &response.LoginResponse{
		Message: "Login correcto",
		User:    response.UserToInfo(user),
	}, nil
}

func (s *authService) sendVerificationCode(email, code string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.notifier.SendCode(ctx, email, code); err != nil {
		s.log.Error("Failed to send verification code",
			zap.Error(err),
			zap.String("email", email),
		)
	}
}
