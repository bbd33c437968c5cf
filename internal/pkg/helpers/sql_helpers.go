package helpers

import (
	"database/sql"
	"time"
)

// GetNullString converts a string pointer to sql.NullString.
// Nil and blank strings are stored as NULL.
func GetNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// GetNullTime converts a time pointer to sql.NullTime.
func GetNullTime(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// StringPtr returns nil for a NULL column
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// TimePtr returns nil for a NULL column
func TimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the pointed value or the zero value for nil
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
