package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/config"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/auth"
)

// AdminStore is the account storage needed to create the administrator
type AdminStore interface {
	IsAdminExists(ctx context.Context) (bool, error)
	IsIDExists(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, user *models.User) error
}

// CreateDefaultAdmin creates the administrator account from the admin config
// section when no administrator exists yet. An empty username or password
// disables it.
func CreateDefaultAdmin(ctx context.Context, users AdminStore, cfg *config.Config, lgr zerolog.Logger) error {
	username := strings.TrimSpace(cfg.Admin.Username)
	if username == "" || cfg.Admin.Password == "" {
		lgr.Debug().Msg("No default admin configured, skipping")
		return nil
	}

	exists, err := users.IsAdminExists(ctx)
	if err != nil {
		return fmt.Errorf("error checking admin account: %w", err)
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	lgr.Info().Str("username", username).Msg("Creating default admin user...")
	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	id, err := auth.GenerateUserID(models.RoleAdmin)
	if err != nil {
		return err
	}
	if taken, err := users.IsIDExists(ctx, id); err != nil {
		return fmt.Errorf("error checking admin id: %w", err)
	} else if taken {
		return apperrors.ErrUserIDTaken
	}

	fullName := cfg.Admin.FullName
	if fullName == "" {
		fullName = "Quản trị viên"
	}
	admin := &models.User{
		ID:           id,
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		FullName:     fullName,
		Email:        cfg.Admin.Email,
		Gender:       models.GenderOther,
		CreatedAt:    time.Now(),
	}
	if err := users.Insert(ctx, admin); err != nil {
		// Another instance won the race.
		if errors.Is(err, apperrors.ErrAdminAlreadyExists) {
			return nil
		}
		return fmt.Errorf("error creating admin user: %w", err)
	}

	lgr.Info().Str("adminID", admin.ID).Msg("Default admin user created successfully")
	return nil
}
