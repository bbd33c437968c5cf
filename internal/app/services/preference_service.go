package services

import (
	"context"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/validation"
)

var allowedPreferences = map[string]func(string) bool{
	models.PrefTheme:        func(v string) bool { return v == models.ThemeLight || v == models.ThemeDark },
	models.PrefLanguage:     func(v string) bool { return v == "vi" || v == "en" },
	models.PrefOpenSubmenu:  func(string) bool { return true },
	models.PrefSelectedView: func(string) bool { return true },
}

// PreferenceService keeps per-user UI state such as the theme
type PreferenceService struct {
	store repositories.PreferenceStore
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(store repositories.PreferenceStore) *PreferenceService {
	return &PreferenceService{store: store}
}

// GetAll returns the user's preferences merged over the defaults
func (s *PreferenceService) GetAll(ctx context.Context, userID string) (map[string]string, error) {
	stored, err := s.store.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	prefs := make(map[string]string, len(models.DefaultPreferences)+len(stored))
	for k, v := range models.DefaultPreferences {
		prefs[k] = v
	}
	for k, v := range stored {
		prefs[k] = v
	}
	return prefs, nil
}

// Get returns one preference, falling back to its default
func (s *PreferenceService) Get(ctx context.Context, userID, key string) (string, error) {
	if _, ok := allowedPreferences[key]; !ok {
		return "", apperrors.NewResourceNotFoundError("unknown preference " + key)
	}
	value, ok, err := s.store.Get(ctx, userID, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return models.DefaultPreferences[key], nil
	}
	return value, nil
}

// Set stores one preference
func (s *PreferenceService) Set(ctx context.Context, userID, key string, req *dto.PreferenceRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	valid, ok := allowedPreferences[key]
	if !ok {
		return apperrors.NewResourceNotFoundError("unknown preference " + key)
	}
	if !valid(req.Value) {
		msg := "Giá trị không hợp lệ"
		return apperrors.NewValidationError(msg, map[string]string{key: msg})
	}
	return s.store.Set(ctx, userID, key, req.Value)
}

// ToggleTheme switches between light and dark and returns the new theme
func (s *PreferenceService) ToggleTheme(ctx context.Context, userID string) (string, error) {
	current, err := s.Get(ctx, userID, models.PrefTheme)
	if err != nil {
		return "", err
	}
	next := models.ThemeDark
	if current == models.ThemeDark {
		next = models.ThemeLight
	}
	if err := s.store.Set(ctx, userID, models.PrefTheme, next); err != nil {
		return "", err
	}
	return next, nil
}
