package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/services"
	"github.com/edumanage/educenter/internal/middleware"
	"github.com/edumanage/educenter/internal/pkg/helpers"
)

// NotificationController serves the signed-in user's notifications
type NotificationController struct {
	notificationService *services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// List handles GET /notifications?unread=true&limit=
func (c *NotificationController) List(ctx *gin.Context) {
	userID, _ := middleware.CurrentUser(ctx)
	limit := queryInt(ctx, "limit")
	if limit < 0 {
		limit = 0
	}
	list, err := c.notificationService.List(ctx.Request.Context(), userID, ctx.Query("unread") == "true", uint64(limit))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, list)
}

// Count handles GET /notifications/count
func (c *NotificationController) Count(ctx *gin.Context) {
	userID, _ := middleware.CurrentUser(ctx)
	n, err := c.notificationService.CountUnread(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, dto.NotificationCountResponse{Unread: n})
}

// MarkRead handles PATCH /notifications/:id/read
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	userID, _ := middleware.CurrentUser(ctx)
	if err := c.notificationService.MarkRead(ctx.Request.Context(), ctx.Param("id"), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleted(ctx, "Đã đánh dấu đã đọc")
}

// Sweep handles POST /notifications/absences/sweep?since=YYYY-MM-DD. It
// defaults to today.
func (c *NotificationController) Sweep(ctx *gin.Context) {
	since := helpers.TruncateDay(time.Now())
	if raw := ctx.Query("since"); raw != "" {
		parsed, err := helpers.ParseDate(raw)
		if err != nil {
			middleware.Abort(ctx, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Ngày không hợp lệ")
			return
		}
		since = parsed
	}
	result, err := c.notificationService.SweepAbsences(ctx.Request.Context(), since)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, result)
}

// PreferenceController handles per-user UI preferences
type PreferenceController struct {
	preferenceService *services.PreferenceService
}

// NewPreferenceController creates a new PreferenceController
func NewPreferenceController(preferenceService *services.PreferenceService) *PreferenceController {
	return &PreferenceController{preferenceService: preferenceService}
}

// GetAll handles GET /preferences
func (c *PreferenceController) GetAll(ctx *gin.Context) {
	userID, _ := middleware.CurrentUser(ctx)
	prefs, err := c.preferenceService.GetAll(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, prefs)
}

// Get handles GET /preferences/:key
func (c *PreferenceController) Get(ctx *gin.Context) {
	userID, _ := middleware.CurrentUser(ctx)
	key := ctx.Param("key")
	value, err := c.preferenceService.Get(ctx.Request.Context(), userID, key)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, gin.H{"key": key, "value": value})
}

// Set handles PUT /preferences/:key
func (c *PreferenceController) Set(ctx *gin.Context) {
	var req dto.PreferenceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	userID, _ := middleware.CurrentUser(ctx)
	key := ctx.Param("key")
	if err := c.preferenceService.Set(ctx.Request.Context(), userID, key, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, gin.H{"key": key, "value": req.Value})
}

// ToggleTheme handles POST /preferences/theme/toggle
func (c *PreferenceController) ToggleTheme(ctx *gin.Context) {
	userID, _ := middleware.CurrentUser(ctx)
	theme, err := c.preferenceService.ToggleTheme(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ok(ctx, gin.H{"theme": theme})
}
