// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/pkg/helpers"
)

func ok(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data, ""))
}

func created(ctx *gin.Context, data interface{}, message string) {
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(data, message))
}

func deleted(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, message))
}

// paged slices items by the page and size query parameters
func paged[T any](ctx *gin.Context, items []T) {
	if ctx.Query("page") == "" && ctx.Query("size") == "" {
		ok(ctx, items)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)
	pageItems, info := helpers.Paginate(items, page, size)
	ok(ctx, dto.PaginatedResponse{Items: pageItems, Pagination: info})
}

func queryInt(ctx *gin.Context, key string) int {
	n, _ := strconv.Atoi(ctx.Query(key))
	return n
}
