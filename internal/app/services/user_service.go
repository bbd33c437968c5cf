package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
)

// UserService defines the interface for account administration
type UserService interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsers(ctx context.Context, role string) ([]*models.User, error)
}

// userServiceImpl implements UserService
type userServiceImpl struct {
	userRepo *repositories.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repositories.UserRepository, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetUserByID retrieves an account by ID
func (s *userServiceImpl) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetUsers lists accounts, optionally of one role ("0" admin, "1" teacher)
func (s *userServiceImpl) GetUsers(ctx context.Context, role string) ([]*models.User, error) {
	if role == "" {
		return s.userRepo.GetAll(ctx, nil)
	}
	r := models.Role(role)
	if !r.Valid() {
		return nil, apperrors.NewValidationError("Vai trò không hợp lệ", map[string]string{"role": "Vai trò không hợp lệ"})
	}
	users, err := s.userRepo.GetAll(ctx, &r)
	if err != nil {
		s.logger.Error().Err(err).Str("role", role).Msg("Failed to list users")
		return nil, err
	}
	return users, nil
}
