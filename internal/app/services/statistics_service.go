package services

import (
	"context"
	"math"
	"sort"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/pkg/helpers"
	"github.com/edumanage/educenter/internal/pkg/logger"
	"github.com/edumanage/educenter/internal/pkg/validation"
)

// StatisticsService aggregates teaching hours and attendance
type StatisticsService struct {
	statsRepo      *repositories.StatisticsRepository
	attendanceRepo *repositories.AttendanceRepository
}

// NewStatisticsService creates a new StatisticsService
func NewStatisticsService(repos *repositories.Repositories) *StatisticsService {
	return &StatisticsService{
		statsRepo:      repos.StatisticsRepository,
		attendanceRepo: repos.AttendanceRepository,
	}
}

// TeachingHours totals the completed sessions of each teacher in a period.
// teacherID narrows the result to one teacher.
func (s *StatisticsService) TeachingHours(ctx context.Context, query *dto.PeriodQuery, teacherID string) ([]*models.TeachingHours, error) {
	if err := validation.Struct(query); err != nil {
		return nil, err
	}
	from, to, err := parsePeriod(query.From, query.To)
	if err != nil {
		return nil, err
	}
	sessions, err := s.statsRepo.CompletedSessions(ctx, from, to, teacherID)
	if err != nil {
		return nil, err
	}
	rates, err := s.statsRepo.HourlyRates(ctx)
	if err != nil {
		return nil, err
	}
	return aggregateTeachingHours(sessions, rates), nil
}

// aggregateTeachingHours groups sessions by teacher. Sessions with an unusable
// time range are logged and left out. Salary is hours times the hourly rate,
// rounded to the nearest unit.
func aggregateTeachingHours(sessions []*models.TaughtSession, rates map[string]int64) []*models.TeachingHours {
	byTeacher := map[string]*models.TeachingHours{}
	for _, ts := range sessions {
		minutes, err := helpers.MinutesBetween(ts.StartTime, ts.EndTime)
		if err != nil {
			logger.Warn().Err(err).Str("sessionID", ts.SessionID).Msg("Skipping session with invalid time range")
			continue
		}
		th, ok := byTeacher[ts.TeacherID]
		if !ok {
			th = &models.TeachingHours{
				TeacherID:   ts.TeacherID,
				TeacherName: ts.TeacherName,
				HourlyRate:  rates[ts.TeacherID],
			}
			byTeacher[ts.TeacherID] = th
		}
		th.SessionCount++
		th.Minutes += minutes
	}

	out := make([]*models.TeachingHours, 0, len(byTeacher))
	for _, th := range byTeacher {
		th.Hours = math.Round(float64(th.Minutes)/60*100) / 100
		th.Salary = int64(math.Round(float64(th.Minutes) * float64(th.HourlyRate) / 60))
		out = append(out, th)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TeacherName != out[j].TeacherName {
			return out[i].TeacherName < out[j].TeacherName
		}
		return out[i].TeacherID < out[j].TeacherID
	})
	return out
}

// AttendanceSummary counts attendance per class in a period
func (s *StatisticsService) AttendanceSummary(ctx context.Context, query *dto.PeriodQuery) ([]*models.AttendanceSummary, error) {
	if err := validation.Struct(query); err != nil {
		return nil, err
	}
	from, to, err := parsePeriod(query.From, query.To)
	if err != nil {
		return nil, err
	}
	return s.attendanceRepo.SummaryByClass(ctx, from, to)
}
