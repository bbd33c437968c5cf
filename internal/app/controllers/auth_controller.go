package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/services"
	"github.com/edumanage/educenter/internal/middleware"
)

// AuthController handles registration, login and the signed-in profile
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles POST /auth/register
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("username", req.Username).Msg("Registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	created(ctx, user, "Đăng ký thành công")
}

// Login handles POST /auth/login
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("username", req.Username).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("userID", resp.User.ID).Msg("User logged in successfully")
	ok(ctx, resp)
}

// Profile handles GET /auth/me
func (c *AuthController) Profile(ctx *gin.Context) {
	userID, _ := middleware.CurrentUser(ctx)
	user, err := c.authService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, user)
}

// UpdateProfile handles PUT /auth/me
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	userID, _ := middleware.CurrentUser(ctx)
	user, err := c.authService.UpdateProfile(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, user)
}

// ChangePassword handles PUT /auth/password
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	userID, _ := middleware.CurrentUser(ctx)
	if err := c.authService.ChangePassword(ctx.Request.Context(), userID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Đổi mật khẩu thành công")
}
