package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/services"
	"github.com/edumanage/educenter/internal/middleware"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
)

// StudentController handles student records
type StudentController struct {
	studentService *services.StudentService
	parentService  *services.ParentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, parentService *services.ParentService) *StudentController {
	return &StudentController{
		studentService: studentService,
		parentService:  parentService,
	}
}

// GetAll handles GET /students?keyword=
func (c *StudentController) GetAll(ctx *gin.Context) {
	students, err := c.studentService.GetAll(ctx.Request.Context(), ctx.Query("keyword"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	paged(ctx, students)
}

// GetByID handles GET /students/:id
func (c *StudentController) GetByID(ctx *gin.Context) {
	student, err := c.studentService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, student)
}

// GetParent handles GET /students/:id/parent
func (c *StudentController) GetParent(ctx *gin.Context) {
	parent, err := c.parentService.GetByStudent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, parent)
}

// Create handles POST /students
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	student, err := c.studentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, student, "Thêm học viên thành công")
}

// Update handles PUT /students/:id
func (c *StudentController) Update(ctx *gin.Context) {
	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	student, err := c.studentService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, student)
}

// Delete handles DELETE /students/:id
func (c *StudentController) Delete(ctx *gin.Context) {
	if err := c.studentService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Xóa học viên thành công")
}

// ParentController handles parents
type ParentController struct {
	parentService *services.ParentService
}

// NewParentController creates a new ParentController
func NewParentController(parentService *services.ParentService) *ParentController {
	return &ParentController{parentService: parentService}
}

// GetAll handles GET /parents
func (c *ParentController) GetAll(ctx *gin.Context) {
	parents, err := c.parentService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	paged(ctx, parents)
}

// GetByID handles GET /parents/:id
func (c *ParentController) GetByID(ctx *gin.Context) {
	parent, err := c.parentService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, parent)
}

// Create handles POST /parents
func (c *ParentController) Create(ctx *gin.Context) {
	var req dto.ParentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	parent, err := c.parentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, parent, "Thêm phụ huynh thành công")
}

// Update handles PUT /parents/:id
func (c *ParentController) Update(ctx *gin.Context) {
	var req dto.ParentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	parent, err := c.parentService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, parent)
}

// Delete handles DELETE /parents/:id
func (c *ParentController) Delete(ctx *gin.Context) {
	if err := c.parentService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Xóa phụ huynh thành công")
}

// TeacherController handles teaching profiles and timetables
type TeacherController struct {
	teacherService *services.TeacherService
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(teacherService *services.TeacherService) *TeacherController {
	return &TeacherController{teacherService: teacherService}
}

// GetAll handles GET /teachers?keyword=
func (c *TeacherController) GetAll(ctx *gin.Context) {
	teachers, err := c.teacherService.GetAll(ctx.Request.Context(), ctx.Query("keyword"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	paged(ctx, teachers)
}

// GetByID handles GET /teachers/:id
func (c *TeacherController) GetByID(ctx *gin.Context) {
	teacher, err := c.teacherService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, teacher)
}

// UpdateProfile handles PUT /teachers/:id. Teachers may only edit themselves.
func (c *TeacherController) UpdateProfile(ctx *gin.Context) {
	id := ctx.Param("id")
	if userID, role := middleware.CurrentUser(ctx); role != models.RoleAdmin && userID != id {
		middleware.HandleAPIError(ctx, apperrors.ErrPermissionDenied)
		return
	}
	var req dto.TeacherRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	teacher, err := c.teacherService.UpdateProfile(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, teacher)
}

// MySchedule handles GET /teachers/me/schedule?from=&to=
func (c *TeacherController) MySchedule(ctx *gin.Context) {
	var q dto.PeriodQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}
	userID, _ := middleware.CurrentUser(ctx)
	sessions, err := c.teacherService.GetSchedule(ctx.Request.Context(), userID, &q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, sessions)
}
