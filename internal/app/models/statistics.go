package models

import "time"

// TaughtSession is a completed session with the data needed for hour totals
type TaughtSession struct {
	SessionID   string    `json:"sessionId"`
	TeacherID   string    `json:"teacherId"`
	TeacherName string    `json:"teacherName"`
	ClassName   string    `json:"className"`
	Date        time.Time `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
}

// TeachingHours is the total teaching time of one teacher in a period
type TeachingHours struct {
	TeacherID    string  `json:"teacherId"`
	TeacherName  string  `json:"teacherName"`
	SessionCount int     `json:"sessionCount"`
	Minutes      int     `json:"minutes"`
	Hours        float64 `json:"hours"`
	HourlyRate   int64   `json:"hourlyRate"`
	Salary       int64   `json:"salary"`
}

// AttendanceSummary counts attendance of one class in a period
type AttendanceSummary struct {
	ClassID   string  `json:"classId"`
	ClassName string  `json:"className"`
	Sessions  int     `json:"sessions"`
	Records   int     `json:"records"`
	Present   int     `json:"present"`
	Absent    int     `json:"absent"`
	Excused   int     `json:"excused"`
	Rate      float64 `json:"rate"`
}
