package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/edumanage/educenter/internal/app/services"
	"github.com/edumanage/educenter/internal/middleware"
)

// UserController lists accounts for the administrator
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetUsers handles GET /users?role=
func (c *UserController) GetUsers(ctx *gin.Context) {
	users, err := c.userService.GetUsers(ctx.Request.Context(), ctx.Query("role"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	paged(ctx, users)
}

// GetUserByID handles GET /users/:id
func (c *UserController) GetUserByID(ctx *gin.Context) {
	user, err := c.userService.GetUserByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, user)
}
