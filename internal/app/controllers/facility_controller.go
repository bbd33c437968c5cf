package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/services"
	"github.com/edumanage/educenter/internal/middleware"
	"github.com/edumanage/educenter/internal/pkg/helpers"
)

// ClassroomController handles rooms
type ClassroomController struct {
	roomService *services.ClassroomService
}

// NewClassroomController creates a new ClassroomController
func NewClassroomController(roomService *services.ClassroomService) *ClassroomController {
	return &ClassroomController{roomService: roomService}
}

// GetAll handles GET /classrooms?keyword=
func (c *ClassroomController) GetAll(ctx *gin.Context) {
	rooms, err := c.roomService.GetAll(ctx.Request.Context(), ctx.Query("keyword"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	paged(ctx, rooms)
}

// GetAvailable handles GET /classrooms/available?date=&startTime=&endTime=
func (c *ClassroomController) GetAvailable(ctx *gin.Context) {
	var q dto.AvailableRoomsQuery
	if !middleware.BindQuery(ctx, &q) {
		return
	}
	rooms, err := c.roomService.GetAvailable(ctx.Request.Context(), &q)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, rooms)
}

// GetByID handles GET /classrooms/:id
func (c *ClassroomController) GetByID(ctx *gin.Context) {
	room, err := c.roomService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, room)
}

// Create handles POST /classrooms
func (c *ClassroomController) Create(ctx *gin.Context) {
	var req dto.ClassroomRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	room, err := c.roomService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, room, "Thêm phòng học thành công")
}

// Update handles PUT /classrooms/:id
func (c *ClassroomController) Update(ctx *gin.Context) {
	var req dto.ClassroomRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	room, err := c.roomService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, room)
}

// Delete handles DELETE /classrooms/:id
func (c *ClassroomController) Delete(ctx *gin.Context) {
	if err := c.roomService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Xóa phòng học thành công")
}

// HolidayController handles days off
type HolidayController struct {
	holidayService *services.HolidayService
}

// NewHolidayController creates a new HolidayController
func NewHolidayController(holidayService *services.HolidayService) *HolidayController {
	return &HolidayController{holidayService: holidayService}
}

// GetAll handles GET /holidays?from=&to=
func (c *HolidayController) GetAll(ctx *gin.Context) {
	holidays, err := c.holidayService.GetAll(ctx.Request.Context(), ctx.Query("from"), ctx.Query("to"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, holidays)
}

// Check handles GET /holidays/check?date=
func (c *HolidayController) Check(ctx *gin.Context) {
	date, err := helpers.ParseDate(ctx.Query("date"))
	if err != nil {
		middleware.Abort(ctx, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Ngày không hợp lệ")
		return
	}
	holiday, err := c.holidayService.IsHoliday(ctx.Request.Context(), date)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, gin.H{"date": ctx.Query("date"), "holiday": holiday})
}

// GetByID handles GET /holidays/:id
func (c *HolidayController) GetByID(ctx *gin.Context) {
	holiday, err := c.holidayService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, holiday)
}

// Create handles POST /holidays
func (c *HolidayController) Create(ctx *gin.Context) {
	var req dto.HolidayRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	holiday, err := c.holidayService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	created(ctx, holiday, "Thêm ngày nghỉ thành công")
}

// Update handles PUT /holidays/:id
func (c *HolidayController) Update(ctx *gin.Context) {
	var req dto.HolidayRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	holiday, err := c.holidayService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, holiday)
}

// Delete handles DELETE /holidays/:id
func (c *HolidayController) Delete(ctx *gin.Context) {
	if err := c.holidayService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Xóa ngày nghỉ thành công")
}
