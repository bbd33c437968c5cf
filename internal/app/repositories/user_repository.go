package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/db"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/dberrors"
	"github.com/edumanage/educenter/internal/pkg/helpers"
	"github.com/edumanage/educenter/internal/pkg/logger"
)

// Unique keys on users
const (
	constraintUsername    = "uq_users_username"
	constraintEmail       = "uq_users_email"
	constraintSingleAdmin = "uq_users_single_admin"
)

var userColumns = []string{
	"id", "username", "password_hash", "role", "full_name", "email",
	"phone", "date_of_birth", "gender", "created_at", "last_login_at",
}

// UserRepository handles database operations for accounts
type UserRepository struct {
	db *db.Provider
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(provider *db.Provider) *UserRepository {
	return &UserRepository{db: provider}
}

func scanUser(s db.Scanner) (*models.User, error) {
	var (
		u         models.User
		role      string
		lastLogin sql.NullTime
	)
	if err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.FullName, &u.Email,
		&u.Phone, &u.DateOfBirth, &u.Gender, &u.CreatedAt, &lastLogin); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	u.LastLoginAt = helpers.TimePtr(lastLogin)
	return &u, nil
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	var user *models.User
	err := r.db.QueryOne(ctx, r.db.Builder().Select(userColumns...).From("users").Where(where),
		func(s db.Scanner) (err error) {
			user, err = scanUser(s)
			return err
		})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

// GetAll retrieves all users, optionally restricted to one role
func (r *UserRepository) GetAll(ctx context.Context, role *models.Role) ([]*models.User, error) {
	q := r.db.Builder().Select(userColumns...).From("users").OrderBy("full_name")
	if role != nil {
		q = q.Where(squirrel.Eq{"role": string(*role)})
	}

	var users []*models.User
	err := r.db.QueryAll(ctx, q, func(s db.Scanner) error {
		u, err := scanUser(s)
		if err != nil {
			return err
		}
		users = append(users, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// Insert stores a new account. Unique violations are mapped to the matching
// conflict error; a taken primary key yields ErrUserIDTaken so callers can retry
// with a fresh ID.
func (r *UserRepository) Insert(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(ctx, r.db.Builder().Insert("users").
		Columns("id", "username", "password_hash", "role", "full_name", "email",
			"phone", "date_of_birth", "gender", "created_at").
		Values(user.ID, user.Username, user.PasswordHash, string(user.Role), user.FullName, user.Email,
			user.Phone, user.DateOfBirth, user.Gender, user.CreatedAt))
	if err != nil {
		if mapped := mapUserConflict(err); mapped != nil {
			logger.Warn().Str("username", user.Username).Err(mapped).Msg("User insert rejected by unique constraint")
			return mapped
		}
		logger.Error().Err(err).Str("username", user.Username).Msg("Error executing insert user query")
		return fmt.Errorf("error creating user: %w", err)
	}

	logger.Info().Str("userID", user.ID).Str("role", user.Role.String()).Msg("User created successfully")
	return nil
}

func mapUserConflict(err error) error {
	switch {
	case !dberrors.IsDuplicateKeyError(err):
		return nil
	case dberrors.IsDuplicateConstraintError(err, constraintSingleAdmin):
		return apperrors.ErrAdminAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, constraintUsername):
		return apperrors.ErrUsernameExists
	case dberrors.IsDuplicateConstraintError(err, constraintEmail):
		return apperrors.ErrEmailAlreadyExists
	case dberrors.IsDuplicateConstraintError(err, "PRIMARY"),
		dberrors.IsDuplicateConstraintError(err, "users_pkey"):
		return apperrors.ErrUserIDTaken
	default:
		return apperrors.ErrConflict
	}
}

// UpdateProfile updates the contact fields of an account
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Update("users").
		Set("full_name", user.FullName).
		Set("email", user.Email).
		Set("phone", user.Phone).
		Set("date_of_birth", user.DateOfBirth).
		Set("gender", user.Gender).
		Where(squirrel.Eq{"id": user.ID}))
	if err != nil {
		if mapped := mapUserConflict(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	if n == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces the password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Update("users").
		Set("password_hash", passwordHash).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if n == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, r.db.Builder().Update("users").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("failed to update last login time: %w", err)
	}
	return nil
}

func (r *UserRepository) exists(ctx context.Context, where squirrel.Sqlizer) (bool, error) {
	found, err := r.db.Exists(ctx, r.db.Builder().Select("1").From("users").Where(where))
	if err != nil {
		return false, fmt.Errorf("error checking user existence: %w", err)
	}
	return found, nil
}

// IsUsernameExists checks if a username is taken
func (r *UserRepository) IsUsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"username": username})
}

// IsEmailExists checks if an email is taken
func (r *UserRepository) IsEmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"email": email})
}

// IsAdminExists checks if the admin account was created
func (r *UserRepository) IsAdminExists(ctx context.Context) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"role": string(models.RoleAdmin)})
}

// IsIDExists checks if a user ID is taken
func (r *UserRepository) IsIDExists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"id": id})
}
