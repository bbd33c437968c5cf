package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/auth"
)

// fakeUsers is an in-memory UserStore that counts every call
type fakeUsers struct {
	mu       sync.Mutex
	byID     map[string]*models.User
	calls    int
	takenIDs map[string]bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*models.User{}, takenIDs: map[string]bool{}}
}

func (f *fakeUsers) touch() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.touch()
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.touch()
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) Insert(_ context.Context, user *models.User) error {
	f.touch()
	if f.takenIDs[user.ID] {
		return apperrors.ErrUserIDTaken
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, user *models.User) error {
	f.touch()
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	f.touch()
	f.byID[id].PasswordHash = hash
	return nil
}

func (f *fakeUsers) UpdateLastLogin(context.Context, string) error {
	f.touch()
	return nil
}

func (f *fakeUsers) IsUsernameExists(_ context.Context, username string) (bool, error) {
	f.touch()
	for _, u := range f.byID {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) IsEmailExists(_ context.Context, email string) (bool, error) {
	f.touch()
	for _, u := range f.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) IsAdminExists(context.Context) (bool, error) {
	f.touch()
	for _, u := range f.byID {
		if u.Role == models.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

type fakeTeachers struct {
	inserted []*models.Teacher
}

func (f *fakeTeachers) Insert(_ context.Context, t *models.Teacher) error {
	f.inserted = append(f.inserted, t)
	return nil
}

func newAuthService(t *testing.T) (*AuthService, *fakeUsers, *fakeTeachers) {
	t.Helper()
	auth.BcryptCost = bcrypt.MinCost
	users, teachers := newFakeUsers(), &fakeTeachers{}
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "educenter"})
	return NewAuthService(users, teachers, jwtService, zerolog.Nop()), users, teachers
}

func registerRequest(role models.Role, username string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username:        username,
		Password:        "matkhau123",
		ConfirmPassword: "matkhau123",
		Role:            role,
		FullName:        "Nguyễn Văn An",
		Email:           username + "@educenter.vn",
		Phone:           "0912345678",
		DateOfBirth:     "1990-05-20",
		Gender:          models.GenderMale,
	}
}

func TestRegister_ShortPasswordNeverTouchesStore(t *testing.T) {
	svc, users, _ := newAuthService(t)
	req := registerRequest(models.RoleTeacher, "nguyenvan")
	req.Password, req.ConfirmPassword = "short", "short"

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	msg, ok := apperrors.UserMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Mật khẩu phải có ít nhất 8 ký tự", msg)
	assert.Zero(t, users.calls)
}

func TestRegister_Teacher(t *testing.T) {
	svc, users, teachers := newAuthService(t)

	user, err := svc.Register(context.Background(), registerRequest(models.RoleTeacher, "nguyenvan"))
	require.NoError(t, err)
	assert.Regexp(t, `^1\d{5}$`, user.ID)
	assert.NotEqual(t, "matkhau123", user.PasswordHash)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "matkhau123"))
	assert.Contains(t, users.byID, user.ID)

	require.Len(t, teachers.inserted, 1)
	assert.Equal(t, user.ID, teachers.inserted[0].UserID)
	assert.Equal(t, models.StatusActive, teachers.inserted[0].Status)
}

func TestRegister_SecondAdminRejected(t *testing.T) {
	svc, _, teachers := newAuthService(t)
	ctx := context.Background()

	admin, err := svc.Register(ctx, registerRequest(models.RoleAdmin, "quantri"))
	require.NoError(t, err)
	assert.Regexp(t, `^0\d{5}$`, admin.ID)
	assert.Empty(t, teachers.inserted)

	_, err = svc.Register(ctx, registerRequest(models.RoleAdmin, "quantri2"))
	assert.ErrorIs(t, err, apperrors.ErrAdminAlreadyExists)
}

func TestRegister_DuplicateUsernameAndEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerRequest(models.RoleTeacher, "nguyenvan"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest(models.RoleTeacher, "nguyenvan"))
	assert.ErrorIs(t, err, apperrors.ErrUsernameExists)

	req := registerRequest(models.RoleTeacher, "tranbinh")
	req.Email = "nguyenvan@educenter.vn"
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegister_RetriesTakenIDs(t *testing.T) {
	svc, users, _ := newAuthService(t)
	users.takenIDs["100001"] = true
	users.takenIDs["100002"] = true

	ids := []string{"100001", "100002", "100003"}
	svc.newID = func(models.Role) (string, error) {
		id := ids[0]
		ids = ids[1:]
		return id, nil
	}

	user, err := svc.Register(context.Background(), registerRequest(models.RoleTeacher, "nguyenvan"))
	require.NoError(t, err)
	assert.Equal(t, "100003", user.ID)
}

func TestRegister_GivesUpAfterMaxAttempts(t *testing.T) {
	svc, users, _ := newAuthService(t)
	users.takenIDs["100001"] = true
	attempts := 0
	svc.newID = func(models.Role) (string, error) {
		attempts++
		return "100001", nil
	}

	_, err := svc.Register(context.Background(), registerRequest(models.RoleTeacher, "nguyenvan"))
	assert.ErrorIs(t, err, apperrors.ErrIDGenerationFailed)
	assert.Equal(t, maxIDAttempts, attempts)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, registerRequest(models.RoleTeacher, "nguyenvan"))
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "nguyenvan", Password: "matkhau123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotNil(t, resp.User.LastLoginAt)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "nguyenvan", Password: "sai-mat-khau"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "khongco", Password: "matkhau123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, registerRequest(models.RoleTeacher, "nguyenvan"))
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong-one", NewPassword: "matkhaumoi1", ConfirmPassword: "matkhaumoi1",
	})
	assert.ErrorIs(t, err, apperrors.ErrCurrentPasswordBad)

	err = svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "matkhau123", NewPassword: "matkhaumoi1", ConfirmPassword: "matkhaumoi1",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "nguyenvan", Password: "matkhaumoi1"})
	assert.NoError(t, err)
}
