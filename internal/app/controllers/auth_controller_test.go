package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/app/services"
	"github.com/edumanage/educenter/internal/db"
	"github.com/edumanage/educenter/internal/pkg/auth"
)

func newAuthEngine(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	repos := repositories.NewRepositories(db.NewProviderFromDB(sqlDB, db.DialectMySQL))
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "educenter"})
	authService := services.NewAuthService(repos.UserRepository, repos.TeacherRepository, jwtService, zerolog.Nop())
	c := NewAuthController(authService, zerolog.Nop())

	r := gin.New()
	r.POST("/api/v1/auth/register", c.Register)
	r.POST("/api/v1/auth/login", c.Login)
	return r, mock
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorDetail {
	t.Helper()
	var body struct {
		Success bool            `json:"success"`
		Error   dto.ErrorDetail `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error
}

func TestRegister_ShortPasswordRejectedBeforeStorage(t *testing.T) {
	r, mock := newAuthEngine(t)

	w := postJSON(r, "/api/v1/auth/register", `{
		"username": "nguyenvan",
		"password": "short",
		"confirmPassword": "short",
		"role": "1",
		"fullName": "Nguyễn Văn An",
		"email": "an@educenter.vn",
		"phone": "0912345678",
		"dateOfBirth": "1990-05-20",
		"gender": "male"
	}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	detail := errorOf(t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "Mật khẩu phải có ít nhất 8 ký tự", detail.Message)
	assert.Equal(t, "password", detail.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_MalformedBody(t *testing.T) {
	r, mock := newAuthEngine(t)

	w := postJSON(r, "/api/v1/auth/register", `{"username":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Dữ liệu gửi lên không đúng định dạng", errorOf(t, w).Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_UnknownUser(t *testing.T) {
	r, mock := newAuthEngine(t)
	mock.ExpectPrepare(`SELECT (.+) FROM users WHERE username = \?`).
		ExpectQuery().WithArgs("khongco").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "password_hash", "role", "full_name", "email",
			"phone", "date_of_birth", "gender", "created_at", "last_login_at",
		}))

	w := postJSON(r, "/api/v1/auth/login", `{"username":"khongco","password":"matkhau123"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	detail := errorOf(t, w)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, detail.Code)
	assert.Equal(t, "Tên đăng nhập hoặc mật khẩu không đúng", detail.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}
