package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/logger"
)

// Fallback messages when an error carries no Vietnamese text of its own
const (
	msgNotFound     = "Không tìm thấy dữ liệu"
	msgConflict     = "Dữ liệu bị trùng hoặc xung đột"
	msgBadRequest   = "Yêu cầu không hợp lệ"
	msgUnauthorized = "Vui lòng đăng nhập"
	msgForbidden    = "Bạn không có quyền thực hiện thao tác này"
	msgInternal     = "Lỗi hệ thống, vui lòng thử lại sau"
)

type errorMapping struct {
	status int
	code   dto.ErrorCode
	msg    string
}

var (
	notFoundErrors = []error{
		apperrors.ErrResourceNotFound, apperrors.ErrUserNotFound, apperrors.ErrStudentNotFound,
		apperrors.ErrTeacherNotFound, apperrors.ErrParentNotFound, apperrors.ErrClassNotFound,
		apperrors.ErrSessionNotFound, apperrors.ErrAttendanceNotFound, apperrors.ErrClassroomNotFound,
		apperrors.ErrHolidayNotFound, apperrors.ErrScheduleNotFound, apperrors.ErrReportNotFound,
		apperrors.ErrNotificationNotFound,
	}
	conflictErrors = []error{
		apperrors.ErrResourceAlreadyExists, apperrors.ErrConflict, apperrors.ErrUsernameExists,
		apperrors.ErrEmailAlreadyExists, apperrors.ErrAdminAlreadyExists, apperrors.ErrTeacherExists,
		apperrors.ErrAttendanceExists, apperrors.ErrClassroomExists, apperrors.ErrRoomConflict,
		apperrors.ErrAlreadyEnrolled, apperrors.ErrClassFull, apperrors.ErrHolidayDate,
		apperrors.ErrTeacherBusy,
	}
	badRequestErrors = []error{
		apperrors.ErrBadRequest, apperrors.ErrPasswordMismatch, apperrors.ErrInvalidTimeRange,
		apperrors.ErrInvalidDateRange, apperrors.ErrNotEnrolled, apperrors.ErrCurrentPasswordBad,
	}
)

func classify(err error) errorMapping {
	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return errorMapping{http.StatusBadRequest, dto.ErrorCodeValidationFailed, msgBadRequest}
	case apperrors.Is(err, notFoundErrors[0], notFoundErrors[1:]...):
		return errorMapping{http.StatusNotFound, dto.ErrorCodeResourceNotFound, msgNotFound}
	case errors.Is(err, apperrors.ErrResourceAlreadyExists), errors.Is(err, apperrors.ErrUsernameExists),
		errors.Is(err, apperrors.ErrEmailAlreadyExists), errors.Is(err, apperrors.ErrAdminAlreadyExists):
		return errorMapping{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, msgConflict}
	case apperrors.Is(err, conflictErrors[0], conflictErrors[1:]...):
		return errorMapping{http.StatusConflict, dto.ErrorCodeConflict, msgConflict}
	case apperrors.Is(err, badRequestErrors[0], badRequestErrors[1:]...):
		return errorMapping{http.StatusBadRequest, dto.ErrorCodeBadRequest, msgBadRequest}
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, msgUnauthorized}
	case errors.Is(err, apperrors.ErrTokenExpired):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeExpiredToken, msgUnauthorized}
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeInvalidToken, msgUnauthorized}
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return errorMapping{http.StatusForbidden, dto.ErrorCodeForbidden, msgForbidden}
	default:
		return errorMapping{http.StatusInternalServerError, dto.ErrorCodeInternalServer, msgInternal}
	}
}

// HandleAPIError writes the error response for err. Known errors carry their
// Vietnamese message; validation errors list every failing field.
func HandleAPIError(c *gin.Context, err error) {
	m := classify(err)

	message := m.msg
	if userMsg, ok := apperrors.UserMessage(err); ok {
		message = userMsg
	}
	detail := dto.NewErrorDetail(m.code, message)

	var ce *apperrors.CustomError
	if errors.As(err, &ce) && len(ce.Details) > 0 {
		detail = detail.WithDetails(ce.Details)
		if len(ce.Details) == 1 {
			for field := range ce.Details {
				detail = detail.WithField(field)
			}
		}
	}

	if m.status >= http.StatusInternalServerError {
		detail = detail.WithSeverity(dto.ErrorSeverityCritical)
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		if gin.Mode() == gin.DebugMode {
			detail = detail.WithDebugInfo("%v", err)
		}
	} else {
		logger.Debug().Err(err).Int("status", m.status).Str("path", c.Request.URL.Path).Msg("Request rejected")
	}

	c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
}

// Abort writes an error response without an underlying error
func Abort(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
