package dto

// ClassroomRequest creates or updates a classroom
type ClassroomRequest struct {
	Name      string  `json:"name" validate:"required,max=50"`
	Capacity  int     `json:"capacity" validate:"required,min=1,max=500"`
	Location  *string `json:"location" validate:"omitempty,max=100"`
	Equipment *string `json:"equipment" validate:"omitempty,max=255"`
	Status    string  `json:"status" validate:"omitempty,oneof=available maintenance"`
}

// AvailableRoomsQuery searches rooms free in a time slot
type AvailableRoomsQuery struct {
	Date      string `form:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `form:"startTime" validate:"required,clock"`
	EndTime   string `form:"endTime" validate:"required,clock"`
}

// HolidayRequest creates or updates a holiday
type HolidayRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	StartDate   string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"endDate" validate:"required,datetime=2006-01-02"`
	Description *string `json:"description" validate:"omitempty,max=255"`
}
