package models

import "time"

// Attendance is the record of one student in one session
type Attendance struct {
	ID         string        `json:"id"`
	SessionID  string        `json:"sessionId"`
	StudentID  string        `json:"studentId"`
	Present    bool          `json:"present"`
	Excused    bool          `json:"excused"`
	Called     bool          `json:"called"`
	Note       *string       `json:"note,omitempty"`
	RecordedAt time.Time     `json:"recordedAt"`
	Student    *Student      `json:"student,omitempty"`
	Session    *ClassSession `json:"session,omitempty"`
}

// IsUnnotifiedAbsence reports whether the student missed the session and the
// parent has not been called yet.
func (a *Attendance) IsUnnotifiedAbsence() bool {
	return !a.Present && !a.Called
}

// AbsenceNotice is an unnotified absence joined with the data needed to contact
// the parent.
type AbsenceNotice struct {
	AttendanceID string    `json:"attendanceId"`
	StudentID    string    `json:"studentId"`
	StudentName  string    `json:"studentName"`
	SessionID    string    `json:"sessionId"`
	SessionDate  time.Time `json:"sessionDate"`
	StartTime    string    `json:"startTime"`
	ClassName    string    `json:"className"`
	TeacherID    *string   `json:"teacherId,omitempty"`
	ParentName   *string   `json:"parentName,omitempty"`
	ParentEmail  *string   `json:"parentEmail,omitempty"`
	ParentPhone  *string   `json:"parentPhone,omitempty"`
}
