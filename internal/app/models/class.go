package models

import "time"

// Class is a course group taught by one teacher
type Class struct {
	ID           string     `json:"id"`
	Name         string     `json:"name" example:"IELTS 6.5 - K12"`
	Subject      string     `json:"subject" example:"English"`
	TeacherID    *string    `json:"teacherId,omitempty"`
	ClassroomID  *string    `json:"classroomId,omitempty"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	MaxStudents  int        `json:"maxStudents" example:"20"`
	Status       string     `json:"status" example:"open"`
	CreatedAt    time.Time  `json:"createdAt"`
	StudentCount int        `json:"studentCount"`
}

// ClassSession is one scheduled occurrence of a class
type ClassSession struct {
	ID          string        `json:"id"`
	ClassID     string        `json:"classId"`
	TeacherID   *string       `json:"teacherId,omitempty"`
	ClassroomID *string       `json:"classroomId,omitempty"`
	Date        time.Time     `json:"date"`
	StartTime   string        `json:"startTime" example:"18:00"`
	EndTime     string        `json:"endTime" example:"19:30"`
	Topic       *string       `json:"topic,omitempty"`
	Status      SessionStatus `json:"status" example:"scheduled"`
	Notes       *string       `json:"notes,omitempty"`
	ClassName   string        `json:"className,omitempty"`
	TeacherName string        `json:"teacherName,omitempty"`
	RoomName    string        `json:"roomName,omitempty"`
}

// Schedule is a weekly recurring slot of a class. DayOfWeek runs 1..7 from Monday.
type Schedule struct {
	ID            string     `json:"id"`
	ClassID       string     `json:"classId"`
	DayOfWeek     int        `json:"dayOfWeek" example:"1"`
	StartTime     string     `json:"startTime" example:"18:00"`
	EndTime       string     `json:"endTime" example:"19:30"`
	ClassroomID   *string    `json:"classroomId,omitempty"`
	TeacherID     *string    `json:"teacherId,omitempty"`
	EffectiveFrom time.Time  `json:"effectiveFrom"`
	EffectiveTo   *time.Time `json:"effectiveTo,omitempty"`
}

// ActiveOn reports whether the schedule applies on date
func (s *Schedule) ActiveOn(date time.Time) bool {
	day := truncateDay(date)
	if day.Before(truncateDay(s.EffectiveFrom)) {
		return false
	}
	if s.EffectiveTo != nil && day.After(truncateDay(*s.EffectiveTo)) {
		return false
	}
	return IsoWeekday(day) == s.DayOfWeek
}

// IsoWeekday maps time.Weekday to 1..7 with Monday = 1
func IsoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
