package dto

// ClassRequest creates or updates a class
type ClassRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Subject     string  `json:"subject" validate:"required,max=100"`
	TeacherID   *string `json:"teacherId" validate:"omitempty,len=6,numeric"`
	ClassroomID *string `json:"classroomId" validate:"omitempty,uuid"`
	StartDate   string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	MaxStudents int     `json:"maxStudents" validate:"gte=0,lte=500"`
	Status      string  `json:"status" validate:"omitempty,oneof=open closed"`
}

// EnrollRequest adds a student to a class
type EnrollRequest struct {
	StudentID string `json:"studentId" validate:"required,uuid"`
}

// SessionRequest creates or updates a class session
type SessionRequest struct {
	ClassID     string  `json:"classId" validate:"required,uuid"`
	TeacherID   *string `json:"teacherId" validate:"omitempty,len=6,numeric"`
	ClassroomID *string `json:"classroomId" validate:"omitempty,uuid"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string  `json:"startTime" validate:"required,clock"`
	EndTime     string  `json:"endTime" validate:"required,clock"`
	Topic       *string `json:"topic" validate:"omitempty,max=200"`
	Notes       *string `json:"notes" validate:"omitempty,max=255"`
}

// SessionStatusRequest moves a session to another status
type SessionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled completed cancelled"`
}

// SessionFilter narrows a session listing. Empty fields are ignored.
type SessionFilter struct {
	Keyword   string `form:"keyword"`
	DayOfWeek int    `form:"dayOfWeek" validate:"gte=0,lte=7"`
	From      string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	ClassID   string `form:"classId" validate:"omitempty,uuid"`
	TeacherID string `form:"teacherId" validate:"omitempty,len=6,numeric"`
}

// ScheduleRequest creates or updates a weekly schedule slot
type ScheduleRequest struct {
	ClassID       string  `json:"classId" validate:"required,uuid"`
	DayOfWeek     int     `json:"dayOfWeek" validate:"required,min=1,max=7"`
	StartTime     string  `json:"startTime" validate:"required,clock"`
	EndTime       string  `json:"endTime" validate:"required,clock"`
	ClassroomID   *string `json:"classroomId" validate:"omitempty,uuid"`
	TeacherID     *string `json:"teacherId" validate:"omitempty,len=6,numeric"`
	EffectiveFrom string  `json:"effectiveFrom" validate:"required,datetime=2006-01-02"`
	EffectiveTo   string  `json:"effectiveTo" validate:"omitempty,datetime=2006-01-02"`
}

// GenerateSessionsRequest expands weekly schedules into sessions
type GenerateSessionsRequest struct {
	ClassID string `json:"classId" validate:"omitempty,uuid"`
	From    string `json:"from" validate:"required,datetime=2006-01-02"`
	To      string `json:"to" validate:"required,datetime=2006-01-02"`
}

// GenerateSessionsResponse reports what generation did
type GenerateSessionsResponse struct {
	Created         int `json:"created"`
	SkippedHolidays int `json:"skippedHolidays"`
	SkippedExisting int `json:"skippedExisting"`
	SkippedConflict int `json:"skippedConflict"`
}
