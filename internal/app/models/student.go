package models

import "time"

// Student is a learner enrolled at the center
type Student struct {
	ID          string     `json:"id"`
	FullName    string     `json:"fullName" example:"Trần Thị Bình"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender" example:"female"`
	Phone       *string    `json:"phone,omitempty"`
	Email       *string    `json:"email,omitempty"`
	Address     *string    `json:"address,omitempty"`
	ParentID    *string    `json:"parentId,omitempty"`
	Status      string     `json:"status" example:"active"`
	EnrolledAt  time.Time  `json:"enrolledAt"`
	Notes       *string    `json:"notes,omitempty"`
	Parent      *Parent    `json:"parent,omitempty"`
}

// Parent is the contact person notified about a student's absences
type Parent struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName" example:"Trần Văn Cường"`
	Phone        string    `json:"phone" example:"0987654321"`
	Email        *string   `json:"email,omitempty"`
	Relationship string    `json:"relationship" example:"father"`
	Address      *string   `json:"address,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
