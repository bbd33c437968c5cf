package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/pkg/logger"
)

const msgMalformed = "Dữ liệu gửi lên không đúng định dạng"

// BindJSON decodes the request body into obj. On failure it writes a 400
// response and returns false. Field rules are checked by the services.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Malformed request body")
		Abort(c, http.StatusBadRequest, dto.ErrorCodeBadRequest, msgMalformed)
		return false
	}
	return true
}

// BindQuery decodes query parameters into obj. On failure it writes a 400
// response and returns false.
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Malformed query")
		Abort(c, http.StatusBadRequest, dto.ErrorCodeBadRequest, msgMalformed)
		return false
	}
	return true
}
