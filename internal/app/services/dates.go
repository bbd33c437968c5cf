package services

import (
	"time"

	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/helpers"
)

const msgInvalidDate = "Ngày không hợp lệ (định dạng YYYY-MM-DD)"

// parseDate parses a validated YYYY-MM-DD field
func parseDate(s string) (time.Time, error) {
	d, err := helpers.ParseDate(s)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(msgInvalidDate, nil)
	}
	return d, nil
}

// parseOptionalDate returns nil for an empty field
func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parsePeriod parses an inclusive date range
func parsePeriod(from, to string) (time.Time, time.Time, error) {
	start, err := parseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperrors.ErrInvalidDateRange
	}
	return start, end, nil
}

// checkClockRange ensures end is after start
func checkClockRange(start, end string) error {
	if _, err := helpers.MinutesBetween(start, end); err != nil {
		return apperrors.ErrInvalidTimeRange
	}
	return nil
}
