package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/edumanage/educenter/internal/app/auth"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/services"
	"github.com/edumanage/educenter/internal/middleware"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
)

// ClassController handles classes and their enrolment
type ClassController struct {
	classService *services.ClassService
	authz        *auth.AuthorizationService
}

// NewClassController creates a new ClassController
func NewClassController(classService *services.ClassService, authz *auth.AuthorizationService) *ClassController {
	return &ClassController{
		classService: classService,
		authz:        authz,
	}
}

// GetAll handles GET /classes?keyword=&teacherId=
func (c *ClassController) GetAll(ctx *gin.Context) {
	classes, err := c.classService.GetAll(ctx.Request.Context(), ctx.Query("keyword"), ctx.Query("teacherId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	paged(ctx, classes)
}

// GetByID handles GET /classes/:id
func (c *ClassController) GetByID(ctx *gin.Context) {
	class, err := c.classService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, class)
}

// Create handles POST /classes
func (c *ClassController) Create(ctx *gin.Context) {
	var req dto.ClassRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	class, err := c.classService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, class, "Tạo lớp học thành công")
}

// Update handles PUT /classes/:id
func (c *ClassController) Update(ctx *gin.Context) {
	var req dto.ClassRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	class, err := c.classService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, class)
}

// Delete handles DELETE /classes/:id
func (c *ClassController) Delete(ctx *gin.Context) {
	if err := c.classService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Xóa lớp học thành công")
}

// GetStudents handles GET /classes/:id/students. Teachers only see their own classes.
func (c *ClassController) GetStudents(ctx *gin.Context) {
	classID := ctx.Param("id")
	userID, role := middleware.CurrentUser(ctx)
	allowed, err := c.authz.CanManageClass(ctx.Request.Context(), userID, role, classID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !allowed {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}
	students, err := c.classService.GetStudents(ctx.Request.Context(), classID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, students)
}

// Enroll handles POST /classes/:id/students
func (c *ClassController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := c.classService.Enroll(ctx.Request.Context(), ctx.Param("id"), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, nil, "Ghi danh học viên thành công")
}

// RemoveStudent handles DELETE /classes/:id/students/:studentId
func (c *ClassController) RemoveStudent(ctx *gin.Context) {
	if err := c.classService.RemoveStudent(ctx.Request.Context(), ctx.Param("id"), ctx.Param("studentId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Đã xóa học viên khỏi lớp")
}

// ScheduleController handles weekly schedule slots
type ScheduleController struct {
	scheduleService *services.ScheduleService
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(scheduleService *services.ScheduleService) *ScheduleController {
	return &ScheduleController{scheduleService: scheduleService}
}

// GetAll handles GET /schedules?classId=&dayOfWeek=
func (c *ScheduleController) GetAll(ctx *gin.Context) {
	schedules, err := c.scheduleService.GetAll(ctx.Request.Context(), ctx.Query("classId"), queryInt(ctx, "dayOfWeek"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, schedules)
}

// GetByID handles GET /schedules/:id
func (c *ScheduleController) GetByID(ctx *gin.Context) {
	schedule, err := c.scheduleService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, schedule)
}

// Create handles POST /schedules
func (c *ScheduleController) Create(ctx *gin.Context) {
	var req dto.ScheduleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	schedule, err := c.scheduleService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, schedule, "Tạo lịch học thành công")
}

// Update handles PUT /schedules/:id
func (c *ScheduleController) Update(ctx *gin.Context) {
	var req dto.ScheduleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	schedule, err := c.scheduleService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, schedule)
}

// Delete handles DELETE /schedules/:id
func (c *ScheduleController) Delete(ctx *gin.Context) {
	if err := c.scheduleService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Xóa lịch học thành công")
}
