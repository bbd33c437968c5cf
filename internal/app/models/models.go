package models

// Role is encoded as the first digit of a user ID
type Role string

const (
	RoleAdmin   Role = "0"
	RoleTeacher Role = "1"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// String returns the role name used in tokens and logs
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "ADMIN"
	case RoleTeacher:
		return "TEACHER"
	default:
		return "UNKNOWN"
	}
}

// Gender values accepted on profiles
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// SessionStatus is the lifecycle state of a class session
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Valid reports whether s is a known session status
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionScheduled, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

// Common record statuses
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusOpen      = "open"
	StatusClosed    = "closed"
	StatusAvailable = "available"
	StatusMaintain  = "maintenance"
)
