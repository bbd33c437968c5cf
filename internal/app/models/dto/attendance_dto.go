package dto

// AttendanceEntry is the mark of one student in a session
type AttendanceEntry struct {
	StudentID string  `json:"studentId" validate:"required,uuid"`
	Present   bool    `json:"present"`
	Excused   bool    `json:"excused"`
	Note      *string `json:"note" validate:"omitempty,max=255"`
}

// TakeAttendanceRequest records attendance for a whole session
type TakeAttendanceRequest struct {
	Entries []AttendanceEntry `json:"entries" validate:"required,min=1,unique=StudentID,dive"`
}

// AttendanceStatusResponse summarizes the notification state of a session
type AttendanceStatusResponse struct {
	SessionID           string `json:"sessionId"`
	Total               int    `json:"total"`
	Absent              int    `json:"absent"`
	Unnotified          int    `json:"unnotified"`
	AllAbsencesNotified bool   `json:"allAbsencesNotified"`
}
