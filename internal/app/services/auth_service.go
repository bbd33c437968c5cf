package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/auth"
	"github.com/edumanage/educenter/internal/pkg/helpers"
	"github.com/edumanage/educenter/internal/pkg/validation"
)

// maxIDAttempts bounds the retries after a generated user ID collides
const maxIDAttempts = 10

// UserStore is the account storage used by AuthService
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id string) error
	IsUsernameExists(ctx context.Context, username string) (bool, error)
	IsEmailExists(ctx context.Context, email string) (bool, error)
	IsAdminExists(ctx context.Context) (bool, error)
}

// TeacherProfileStore creates the teaching profile of a new teacher account
type TeacherProfileStore interface {
	Insert(ctx context.Context, teacher *models.Teacher) error
}

// AuthService handles registration, login and password changes
type AuthService struct {
	users    UserStore
	teachers TeacherProfileStore
	jwt      *auth.JWTService
	newID    func(models.Role) (string, error)
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, teachers TeacherProfileStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		teachers: teachers,
		jwt:      jwtService,
		newID:    auth.GenerateUserID,
		logger:   logger,
	}
}

// Register creates an account. Validation runs before any storage access. The
// existence checks give friendly errors in the common case; the unique indexes
// decide races between concurrent registrations.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	if req.Role == models.RoleAdmin {
		exists, err := s.users.IsAdminExists(ctx)
		if err != nil {
			return nil, fmt.Errorf("error checking admin account: %w", err)
		}
		if exists {
			return nil, apperrors.ErrAdminAlreadyExists
		}
	}

	exists, err := s.users.IsUsernameExists(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("error checking if username exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrUsernameExists
	}

	exists, err = s.users.IsEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		DateOfBirth:  dob,
		Gender:       req.Gender,
		CreatedAt:    time.Now(),
	}
	if err := s.insertWithFreshID(ctx, user); err != nil {
		return nil, err
	}

	if user.Role == models.RoleTeacher {
		teacher := &models.Teacher{
			UserID:  user.ID,
			Status:  models.StatusActive,
			HiredAt: helpers.Ptr(helpers.TruncateDay(user.CreatedAt)),
		}
		// Teachers without a profile row are still listed with defaults.
		if err := s.teachers.Insert(ctx, teacher); err != nil && !errors.Is(err, apperrors.ErrTeacherExists) {
			s.logger.Warn().Err(err).Str("userID", user.ID).Msg("Teacher profile not created")
		}
	}

	s.logger.Info().
		Str("userID", user.ID).
		Str("username", user.Username).
		Str("role", user.Role.String()).
		Msg("Account registered")
	return user, nil
}

func (s *AuthService) insertWithFreshID(ctx context.Context, user *models.User) error {
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id, err := s.newID(user.Role)
		if err != nil {
			return fmt.Errorf("error generating user id: %w", err)
		}
		user.ID = id

		err = s.users.Insert(ctx, user)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrUserIDTaken) {
			return err
		}
		s.logger.Debug().Str("userID", id).Int("attempt", attempt).Msg("Generated user id already taken, retrying")
	}
	return apperrors.ErrIDGenerationFailed
}

// Login checks credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info().Str("username", req.Username).Msg("Login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("userID", user.ID).Msg("Failed to update last login time")
	} else {
		now := time.Now()
		user.LastLoginAt = &now
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: user,
	}, nil
}

// ChangePassword replaces the password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return apperrors.ErrCurrentPasswordBad
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	s.logger.Info().Str("userID", userID).Msg("Password changed")
	return nil
}

// GetProfile returns the signed-in account
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile changes the contact data of an account
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.FullName = req.FullName
	user.Email = req.Email
	user.Phone = req.Phone
	user.DateOfBirth = dob
	user.Gender = req.Gender

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
