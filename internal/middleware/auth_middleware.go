package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextRole     = "role"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// JWTAuth validates the bearer token. Browsers cannot set headers on a
// websocket handshake, so the token is also read from the token query parameter.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			authHeader = c.Query("token")
		}
		if authHeader == "" {
			Abort(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, msgUnauthorized)
			return
		}

		tokenString, err := auth.ExtractBearerToken(strings.TrimSpace(authHeader))
		if err != nil {
			Abort(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, msgUnauthorized)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			msg := "Phiên đăng nhập không hợp lệ"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrorCodeExpiredToken
				msg = "Phiên đăng nhập đã hết hạn"
			}
			Abort(c, http.StatusUnauthorized, code, msg)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RoleRequired lets only users of role through
func (m *AuthMiddleware) RoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, ok := c.Get(ContextRole)
		if !ok {
			Abort(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, msgUnauthorized)
			return
		}
		if r, _ := current.(models.Role); r != role {
			Abort(c, http.StatusForbidden, dto.ErrorCodeForbidden, msgForbidden)
			return
		}
		c.Next()
	}
}

// AdminOnly lets only the administrator through
func (m *AuthMiddleware) AdminOnly() gin.HandlerFunc {
	return m.RoleRequired(models.RoleAdmin)
}

// CurrentUser returns the signed-in user's ID and role
func CurrentUser(c *gin.Context) (string, models.Role) {
	role, _ := c.Get(ContextRole)
	r, _ := role.(models.Role)
	return c.GetString(ContextUserID), r
}
