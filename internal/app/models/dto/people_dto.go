package dto

// StudentRequest creates or updates a student
type StudentRequest struct {
	FullName    string  `json:"fullName" validate:"required,max=100"`
	DateOfBirth string  `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02,pastdate"`
	Gender      string  `json:"gender" validate:"required,oneof=male female other"`
	Phone       *string `json:"phone" validate:"omitempty,vnphone"`
	Email       *string `json:"email" validate:"omitempty,email,max=100"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
	ParentID    *string `json:"parentId" validate:"omitempty,uuid"`
	Status      string  `json:"status" validate:"omitempty,oneof=active inactive"`
	EnrolledAt  string  `json:"enrolledAt" validate:"omitempty,datetime=2006-01-02"`
	Notes       *string `json:"notes" validate:"omitempty,max=255"`
}

// ParentRequest creates or updates a parent
type ParentRequest struct {
	FullName     string  `json:"fullName" validate:"required,max=100"`
	Phone        string  `json:"phone" validate:"required,vnphone"`
	Email        *string `json:"email" validate:"omitempty,email,max=100"`
	Relationship string  `json:"relationship" validate:"required,max=30"`
	Address      *string `json:"address" validate:"omitempty,max=255"`
}

// TeacherRequest creates or updates the teaching profile of a teacher account
type TeacherRequest struct {
	Specialization *string `json:"specialization" validate:"omitempty,max=100"`
	HourlyRate     int64   `json:"hourlyRate" validate:"gte=0"`
	Status         string  `json:"status" validate:"omitempty,oneof=active inactive"`
	HiredAt        string  `json:"hiredAt" validate:"omitempty,datetime=2006-01-02"`
}
