package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")

	ErrPermissionDenied = errors.New("permission denied")

	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Account errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrAdminAlreadyExists = errors.New("an admin account already exists")
	ErrIDGenerationFailed = errors.New("could not generate a unique user id")
	ErrUserIDTaken        = errors.New("user id already taken")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
	ErrCurrentPasswordBad = errors.New("current password is incorrect")
)

// Entity errors
var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrTeacherNotFound      = errors.New("teacher not found")
	ErrTeacherExists        = errors.New("teacher profile already exists")
	ErrParentNotFound       = errors.New("parent not found")
	ErrClassNotFound        = errors.New("class not found")
	ErrSessionNotFound      = errors.New("class session not found")
	ErrAttendanceNotFound   = errors.New("attendance record not found")
	ErrAttendanceExists     = errors.New("attendance already recorded for this student and session")
	ErrClassroomNotFound    = errors.New("classroom not found")
	ErrClassroomExists      = errors.New("classroom with this name already exists")
	ErrRoomConflict         = errors.New("classroom is already booked for this time")
	ErrHolidayNotFound      = errors.New("holiday not found")
	ErrScheduleNotFound     = errors.New("schedule not found")
	ErrReportNotFound       = errors.New("report not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadyEnrolled      = errors.New("student already enrolled in class")
	ErrClassFull            = errors.New("class has reached its student limit")
	ErrNotEnrolled          = errors.New("student is not enrolled in class")
	ErrInvalidTimeRange     = errors.New("end time must be after start time")
	ErrHolidayDate          = errors.New("date falls on a holiday")
	ErrTeacherBusy          = errors.New("teacher already has a session at this time")
	ErrInvalidDateRange     = errors.New("end date must not be before start date")
)

// Vietnamese user-facing messages for the errors shown directly to center staff.
var userMessages = map[error]string{
	ErrUsernameExists:     "Tên đăng nhập đã tồn tại",
	ErrEmailAlreadyExists: "Email đã được sử dụng",
	ErrAdminAlreadyExists: "Hệ thống đã có tài khoản quản trị viên",
	ErrInvalidCredentials: "Tên đăng nhập hoặc mật khẩu không đúng",
	ErrPasswordMismatch:   "Mật khẩu xác nhận không khớp",
	ErrCurrentPasswordBad: "Mật khẩu hiện tại không đúng",
	ErrClassroomExists:    "Tên phòng học đã tồn tại",
	ErrRoomConflict:       "Phòng học đã có lịch vào thời gian này",
	ErrAttendanceExists:   "Học viên đã được điểm danh cho buổi học này",
	ErrAlreadyEnrolled:    "Học viên đã có trong lớp",
	ErrClassFull:          "Lớp đã đủ số lượng học viên",
	ErrNotEnrolled:        "Học viên không thuộc lớp này",
	ErrInvalidTimeRange:   "Giờ kết thúc phải sau giờ bắt đầu",
	ErrHolidayDate:        "Ngày học trùng với ngày nghỉ",
	ErrTeacherBusy:        "Giáo viên đã có buổi dạy vào thời gian này",
	ErrInvalidDateRange:   "Ngày kết thúc không được trước ngày bắt đầu",
	ErrPermissionDenied:   "Bạn không có quyền thực hiện thao tác này",
}

// UserMessage returns the Vietnamese message registered for err (or anything it wraps).
func UserMessage(err error) (string, bool) {
	var ce *CustomError
	if errors.As(err, &ce) && ce.StatusMsg != "" {
		return ce.StatusMsg, true
	}
	for target, msg := range userMessages {
		if errors.Is(err, target) {
			return msg, true
		}
	}
	return "", false
}

// NewResourceNotFoundError creates a not-found error with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a conflict error with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying a user-facing message
// and optional per-field details.
func NewValidationError(userMsg string, fields map[string]string) *CustomError {
	details := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	return &CustomError{
		Err:       ErrValidationFailed,
		Message:   "validation failed: " + userMsg,
		StatusMsg: userMsg,
		Details:   details,
	}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Details   map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}
