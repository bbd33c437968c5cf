package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
)

func newPreferenceService(t *testing.T) *PreferenceService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewPreferenceService(repositories.NewRedisPreferenceRepository(client))
}

func TestPreferenceService_DefaultsAndSet(t *testing.T) {
	ctx := context.Background()
	svc := newPreferenceService(t)

	prefs, err := svc.GetAll(ctx, "104823")
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, prefs[models.PrefTheme])
	assert.Equal(t, "vi", prefs[models.PrefLanguage])

	require.NoError(t, svc.Set(ctx, "104823", models.PrefLanguage, &dto.PreferenceRequest{Value: "en"}))
	v, err := svc.Get(ctx, "104823", models.PrefLanguage)
	require.NoError(t, err)
	assert.Equal(t, "en", v)

	// Other users keep the defaults
	v, err = svc.Get(ctx, "100001", models.PrefLanguage)
	require.NoError(t, err)
	assert.Equal(t, "vi", v)
}

func TestPreferenceService_RejectsUnknownAndInvalid(t *testing.T) {
	ctx := context.Background()
	svc := newPreferenceService(t)

	err := svc.Set(ctx, "104823", "font_size", &dto.PreferenceRequest{Value: "12"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	err = svc.Set(ctx, "104823", models.PrefTheme, &dto.PreferenceRequest{Value: "purple"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = svc.Set(ctx, "104823", models.PrefTheme, &dto.PreferenceRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestPreferenceService_ToggleTheme(t *testing.T) {
	ctx := context.Background()
	svc := newPreferenceService(t)

	theme, err := svc.ToggleTheme(ctx, "104823")
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, theme)

	theme, err = svc.ToggleTheme(ctx, "104823")
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, theme)
}
