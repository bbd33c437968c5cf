package models

import "time"

// Holiday is an inclusive range of days without classes
type Holiday struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" example:"Tết Nguyên Đán"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Description *string   `json:"description,omitempty"`
}

// Covers reports whether date falls within the holiday
func (h *Holiday) Covers(date time.Time) bool {
	day := truncateDay(date)
	return !day.Before(truncateDay(h.StartDate)) && !day.After(truncateDay(h.EndDate))
}
