package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/db"
	"github.com/edumanage/educenter/internal/pkg/helpers"
)

// StatisticsRepository loads the raw rows aggregated by statistics and reports
type StatisticsRepository struct {
	db *db.Provider
}

// NewStatisticsRepository creates a new StatisticsRepository
func NewStatisticsRepository(provider *db.Provider) *StatisticsRepository {
	return &StatisticsRepository{db: provider}
}

// CompletedSessions lists completed sessions held in [from, to] that have a
// teacher, optionally for one teacher only.
func (r *StatisticsRepository) CompletedSessions(ctx context.Context, from, to time.Time, teacherID string) ([]*models.TaughtSession, error) {
	q := r.db.Builder().Select(
		"s.id", "s.teacher_id", "u.full_name", "c.name", "s.session_date", "s.start_time", "s.end_time").
		From("class_sessions s").
		Join("users u ON u.id = s.teacher_id").
		Join("classes c ON c.id = s.class_id").
		Where(squirrel.Eq{"s.status": string(models.SessionCompleted)}).
		Where(squirrel.GtOrEq{"s.session_date": helpers.TruncateDay(from)}).
		Where(squirrel.LtOrEq{"s.session_date": helpers.TruncateDay(to)}).
		OrderBy("u.full_name", "s.session_date", "s.start_time")
	if teacherID != "" {
		q = q.Where(squirrel.Eq{"s.teacher_id": teacherID})
	}

	var sessions []*models.TaughtSession
	err := r.db.QueryAll(ctx, q, func(s db.Scanner) error {
		var ts models.TaughtSession
		if err := s.Scan(&ts.SessionID, &ts.TeacherID, &ts.TeacherName, &ts.ClassName,
			&ts.Date, &ts.StartTime, &ts.EndTime); err != nil {
			return err
		}
		sessions = append(sessions, &ts)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error loading completed sessions: %w", err)
	}
	return sessions, nil
}

// HourlyRates returns the hourly rate of every teacher with a profile
func (r *StatisticsRepository) HourlyRates(ctx context.Context) (map[string]int64, error) {
	rates := make(map[string]int64)
	err := r.db.QueryAll(ctx, r.db.Builder().Select("user_id", "hourly_rate").From("teachers"),
		func(s db.Scanner) error {
			var (
				id   string
				rate int64
			)
			if err := s.Scan(&id, &rate); err != nil {
				return err
			}
			rates[id] = rate
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("error loading hourly rates: %w", err)
	}
	return rates, nil
}
