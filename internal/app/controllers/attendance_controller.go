package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/edumanage/educenter/internal/app/auth"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/services"
	"github.com/edumanage/educenter/internal/middleware"
)

// AttendanceController handles attendance taking and parent calls
type AttendanceController struct {
	attendanceService *services.AttendanceService
	authz             *auth.AuthorizationService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService *services.AttendanceService, authz *auth.AuthorizationService) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
		authz:             authz,
	}
}

type markCalledRequest struct {
	Called bool `json:"called"`
}

func (c *AttendanceController) requireSession(ctx *gin.Context) (string, bool) {
	sessionID := ctx.Param("id")
	userID, role := middleware.CurrentUser(ctx)
	if err := c.authz.RequireSession(ctx.Request.Context(), userID, role, sessionID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return "", false
	}
	return sessionID, true
}

// GetBySession handles GET /sessions/:id/attendance
func (c *AttendanceController) GetBySession(ctx *gin.Context) {
	sessionID, allowed := c.requireSession(ctx)
	if !allowed {
		return
	}
	records, err := c.attendanceService.GetBySession(ctx.Request.Context(), sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, records)
}

// Take handles POST /sessions/:id/attendance
func (c *AttendanceController) Take(ctx *gin.Context) {
	sessionID, allowed := c.requireSession(ctx)
	if !allowed {
		return
	}
	var req dto.TakeAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	records, err := c.attendanceService.Take(ctx.Request.Context(), sessionID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, records)
}

// Seed handles POST /sessions/:id/attendance/seed
func (c *AttendanceController) Seed(ctx *gin.Context) {
	sessionID, allowed := c.requireSession(ctx)
	if !allowed {
		return
	}
	n, err := c.attendanceService.Seed(ctx.Request.Context(), sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, gin.H{"created": n}, "")
}

// Status handles GET /sessions/:id/attendance/status
func (c *AttendanceController) Status(ctx *gin.Context) {
	sessionID, allowed := c.requireSession(ctx)
	if !allowed {
		return
	}
	status, err := c.attendanceService.Status(ctx.Request.Context(), sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, status)
}

// MarkCalled handles PATCH /attendance/:id/called
func (c *AttendanceController) MarkCalled(ctx *gin.Context) {
	id := ctx.Param("id")
	userID, role := middleware.CurrentUser(ctx)
	if err := c.authz.RequireAttendance(ctx.Request.Context(), userID, role, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	var req markCalledRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	record, err := c.attendanceService.MarkCalled(ctx.Request.Context(), id, req.Called)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, record)
}

// GetByStudent handles GET /students/:id/attendance
func (c *AttendanceController) GetByStudent(ctx *gin.Context) {
	records, err := c.attendanceService.GetByStudent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, records)
}
