package helpers

import (
	"strings"
	"time"
)

// Filter returns the items keep accepts, preserving order
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// ContainsFold reports whether any field contains keyword, ignoring case.
// An empty keyword matches everything.
func ContainsFold(keyword string, fields ...string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), keyword) {
			return true
		}
	}
	return false
}

// InDateRange reports whether t falls within [from, to] by calendar day.
// A nil bound is open.
func InDateRange(t time.Time, from, to *time.Time) bool {
	day := TruncateDay(t)
	if from != nil && day.Before(TruncateDay(*from)) {
		return false
	}
	if to != nil && day.After(TruncateDay(*to)) {
		return false
	}
	return true
}

// LikePattern builds a case-insensitive SQL LIKE pattern for keyword
func LikePattern(keyword string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(keyword))) + "%"
}
