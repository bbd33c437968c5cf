package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/edumanage/educenter/internal/app/auth"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/services"
	"github.com/edumanage/educenter/internal/middleware"
)

// SessionController handles class sessions
type SessionController struct {
	sessionService *services.SessionService
	authz          *auth.AuthorizationService
	logger         zerolog.Logger
}

// NewSessionController creates a new SessionController
func NewSessionController(sessionService *services.SessionService, authz *auth.AuthorizationService, logger zerolog.Logger) *SessionController {
	return &SessionController{
		sessionService: sessionService,
		authz:          authz,
		logger:         logger,
	}
}

// List handles GET /sessions?keyword=&dayOfWeek=&from=&to=&classId=&teacherId=
func (c *SessionController) List(ctx *gin.Context) {
	var filter dto.SessionFilter
	if !middleware.BindQuery(ctx, &filter) {
		return
	}
	sessions, err := c.sessionService.List(ctx.Request.Context(), &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	paged(ctx, sessions)
}

// GetByID handles GET /sessions/:id
func (c *SessionController) GetByID(ctx *gin.Context) {
	session, err := c.sessionService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, session)
}

// Create handles POST /sessions
func (c *SessionController) Create(ctx *gin.Context) {
	var req dto.SessionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	session, err := c.sessionService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, session, "Tạo buổi học thành công")
}

// Update handles PUT /sessions/:id
func (c *SessionController) Update(ctx *gin.Context) {
	var req dto.SessionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	session, err := c.sessionService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, session)
}

// UpdateStatus handles PATCH /sessions/:id/status. A teacher may change the
// status of sessions they teach.
func (c *SessionController) UpdateStatus(ctx *gin.Context) {
	id := ctx.Param("id")
	userID, role := middleware.CurrentUser(ctx)
	if err := c.authz.RequireSession(ctx.Request.Context(), userID, role, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var req dto.SessionStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	session, err := c.sessionService.UpdateStatus(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, session)
}

// Delete handles DELETE /sessions/:id
func (c *SessionController) Delete(ctx *gin.Context) {
	if err := c.sessionService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Xóa buổi học thành công")
}

// Generate handles POST /sessions/generate
func (c *SessionController) Generate(ctx *gin.Context) {
	var req dto.GenerateSessionsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	result, err := c.sessionService.Generate(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("from", req.From).Str("to", req.To).Msg("Session generation failed")
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, result, "Tạo lịch học thành công")
}
