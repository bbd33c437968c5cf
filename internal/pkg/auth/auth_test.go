package auth

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumanage/educenter/internal/app/models"
)

func TestGenerateUserID(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for _, role := range []models.Role{models.RoleAdmin, models.RoleTeacher} {
		for i := 0; i < 50; i++ {
			id, err := GenerateUserID(role)
			require.NoError(t, err)
			assert.Regexp(t, pattern, id)
			assert.Equal(t, string(role), id[:1])
		}
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	BcryptCost = 4
	hash, err := HashPassword("matkhau123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "matkhau123"))
	assert.False(t, CheckPassword(hash, "matkhau124"))
}

func TestJWT(t *testing.T) {
	svc := NewJWTService(JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "educenter"})
	user := &models.User{ID: "104823", Username: "nguyenvan", Role: models.RoleTeacher}

	token, expiresIn, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "104823", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "educenter"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewJWTService(JWTConfig{SecretKey: "secret", AccessTokenExp: -time.Minute, TokenIssuer: "educenter"})
	stale, _, err := expired.GenerateAccessToken(user)
	require.NoError(t, err)
	_, err = svc.ValidateToken(stale)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
