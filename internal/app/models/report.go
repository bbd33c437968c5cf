package models

import "time"

// ReportType identifies what a report aggregates
type ReportType string

const (
	ReportTeachingHours ReportType = "teaching_hours"
	ReportAttendance    ReportType = "attendance"
	ReportSessions      ReportType = "sessions"
)

// Valid reports whether t is a known report type
func (t ReportType) Valid() bool {
	switch t {
	case ReportTeachingHours, ReportAttendance, ReportSessions:
		return true
	}
	return false
}

// Export formats
const (
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
)

// Report is a generated report persisted with its exported file
type Report struct {
	ID          string     `json:"id"`
	Type        ReportType `json:"type"`
	Title       string     `json:"title"`
	PeriodStart time.Time  `json:"periodStart"`
	PeriodEnd   time.Time  `json:"periodEnd"`
	GeneratedBy *string    `json:"generatedBy,omitempty"`
	Summary     *string    `json:"summary,omitempty"`
	FilePath    *string    `json:"filePath,omitempty"`
	FileFormat  *string    `json:"fileFormat,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Notification is a message addressed to a user
type Notification struct {
	ID               string    `json:"id"`
	RecipientID      string    `json:"recipientId"`
	Title            string    `json:"title"`
	Message          string    `json:"message"`
	IsRead           bool      `json:"isRead"`
	RelatedStudentID *string   `json:"relatedStudentId,omitempty"`
	RelatedSessionID *string   `json:"relatedSessionId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
