package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/services"
	"github.com/edumanage/educenter/internal/middleware"
	"github.com/edumanage/educenter/internal/pkg/helpers"
)

// StatisticsController serves teaching hour and attendance figures
type StatisticsController struct {
	stats *services.StatisticsService
}

// NewStatisticsController creates a new StatisticsController
func NewStatisticsController(stats *services.StatisticsService) *StatisticsController {
	return &StatisticsController{stats: stats}
}

// TeachingHours handles GET /statistics/teaching-hours?from=&to=&teacherId=.
// Teachers only get their own figures.
func (c *StatisticsController) TeachingHours(ctx *gin.Context) {
	var q dto.PeriodQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}
	teacherID := ctx.Query("teacherId")
	if userID, role := middleware.CurrentUser(ctx); role != models.RoleAdmin {
		teacherID = userID
	}
	hours, err := c.stats.TeachingHours(ctx.Request.Context(), &q, teacherID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, hours)
}

// Attendance handles GET /statistics/attendance?from=&to=
func (c *StatisticsController) Attendance(ctx *gin.Context) {
	var q dto.PeriodQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}
	summaries, err := c.stats.AttendanceSummary(ctx.Request.Context(), &q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, summaries)
}

// ReportController generates and serves exported reports
type ReportController struct {
	reportService *services.ReportService
}

// NewReportController creates a new ReportController
func NewReportController(reportService *services.ReportService) *ReportController {
	return &ReportController{reportService: reportService}
}

// GetAll handles GET /reports?type=
func (c *ReportController) GetAll(ctx *gin.Context) {
	reports, err := c.reportService.GetAll(ctx.Request.Context(), ctx.Query("type"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	paged(ctx, reports)
}

// GetByID handles GET /reports/:id
func (c *ReportController) GetByID(ctx *gin.Context) {
	report, err := c.reportService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, report)
}

// Generate handles POST /reports
func (c *ReportController) Generate(ctx *gin.Context) {
	var req dto.GenerateReportRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	userID, _ := middleware.CurrentUser(ctx)
	report, err := c.reportService.Generate(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, report, "Tạo báo cáo thành công")
}

// Download handles GET /reports/:id/file
func (c *ReportController) Download(ctx *gin.Context) {
	path, report, err := c.reportService.FilePath(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if path == "" {
		middleware.Abort(ctx, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Báo cáo chưa có tệp xuất")
		return
	}
	name := fmt.Sprintf("%s_%s.%s", report.Type, report.PeriodStart.Format("20060102"), helpers.Deref(report.FileFormat))
	ctx.FileAttachment(path, name)
}

// Delete handles DELETE /reports/:id
func (c *ReportController) Delete(ctx *gin.Context) {
	if err := c.reportService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Xóa báo cáo thành công")
}
