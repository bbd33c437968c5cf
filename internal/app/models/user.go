package models

import "time"

// User is an account that can sign in: the single admin or a teacher
type User struct {
	ID           string     `json:"id" example:"104823"`
	Username     string     `json:"username" example:"nguyenvan"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role" example:"1"`
	FullName     string     `json:"fullName" example:"Nguyễn Văn An"`
	Email        string     `json:"email" example:"an.nguyen@educenter.vn"`
	Phone        string     `json:"phone" example:"0912345678"`
	DateOfBirth  time.Time  `json:"dateOfBirth"`
	Gender       string     `json:"gender" example:"male"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// Teacher extends a teacher account with employment details
type Teacher struct {
	UserID         string     `json:"userId" example:"104823"`
	Specialization *string    `json:"specialization,omitempty" example:"IELTS"`
	HourlyRate     int64      `json:"hourlyRate" example:"250000"`
	Status         string     `json:"status" example:"active"`
	HiredAt        *time.Time `json:"hiredAt,omitempty"`
	User           *User      `json:"user,omitempty"`
}
