package dto

// PeriodQuery selects a date range
type PeriodQuery struct {
	From string `form:"from" validate:"required,datetime=2006-01-02"`
	To   string `form:"to" validate:"required,datetime=2006-01-02"`
}

// GenerateReportRequest builds and exports a report
type GenerateReportRequest struct {
	Type   string `json:"type" validate:"required,oneof=teaching_hours attendance sessions"`
	From   string `json:"from" validate:"required,datetime=2006-01-02"`
	To     string `json:"to" validate:"required,datetime=2006-01-02"`
	Format string `json:"format" validate:"required,oneof=xlsx pdf"`
	Title  string `json:"title" validate:"omitempty,max=200"`
}

// PreferenceRequest sets one preference
type PreferenceRequest struct {
	Value string `json:"value" validate:"required,max=255"`
}

// NotificationCountResponse is the unread badge count
type NotificationCountResponse struct {
	Unread int64 `json:"unread"`
}
