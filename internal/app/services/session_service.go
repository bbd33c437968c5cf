package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/db"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/helpers"
	"github.com/edumanage/educenter/internal/pkg/logger"
	"github.com/edumanage/educenter/internal/pkg/validation"
)

// maxGenerateDays bounds one generation run
const maxGenerateDays = 366

// SessionService handles class sessions and their generation from schedules
type SessionService struct {
	provider     *db.Provider
	sessionRepo  *repositories.ClassSessionRepository
	classRepo    *repositories.ClassRepository
	scheduleRepo *repositories.ScheduleRepository
	holidayRepo  *repositories.HolidayRepository
}

// NewSessionService creates a new SessionService
func NewSessionService(provider *db.Provider, repos *repositories.Repositories) *SessionService {
	return &SessionService{
		provider:     provider,
		sessionRepo:  repos.ClassSessionRepository,
		classRepo:    repos.ClassRepository,
		scheduleRepo: repos.ScheduleRepository,
		holidayRepo:  repos.HolidayRepository,
	}
}

// GetByID returns a session
func (s *SessionService) GetByID(ctx context.Context, id string) (*models.ClassSession, error) {
	return s.sessionRepo.GetByID(ctx, id)
}

// List loads sessions of a class or a period and narrows them by the filter
func (s *SessionService) List(ctx context.Context, filter *dto.SessionFilter) ([]*models.ClassSession, error) {
	if err := validation.Struct(filter); err != nil {
		return nil, err
	}
	from, err := parseOptionalDate(filter.From)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate(filter.To)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, apperrors.ErrInvalidDateRange
	}

	var sessions []*models.ClassSession
	if filter.ClassID != "" {
		sessions, err = s.sessionRepo.GetByClassID(ctx, filter.ClassID)
	} else {
		sessions, err = s.sessionRepo.Search(ctx, "", from, to)
	}
	if err != nil {
		return nil, err
	}
	return filterSessions(sessions, filter.Keyword, filter.DayOfWeek, filter.TeacherID, from, to), nil
}

func (s *SessionService) apply(ctx context.Context, cs *models.ClassSession, req *dto.SessionRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	if err := checkClockRange(req.StartTime, req.EndTime); err != nil {
		return err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}
	class, err := s.classRepo.GetByID(ctx, req.ClassID)
	if err != nil {
		return err
	}

	teacher := req.TeacherID
	if teacher == nil || *teacher == "" {
		teacher = class.TeacherID
	}
	room := req.ClassroomID
	if room == nil || *room == "" {
		room = class.ClassroomID
	}

	holiday, err := s.holidayRepo.IsHoliday(ctx, date)
	if err != nil {
		return err
	}
	if holiday {
		return apperrors.ErrHolidayDate
	}

	if room != nil {
		taken, err := s.sessionRepo.HasRoomConflict(ctx, *room, date, req.StartTime, req.EndTime, cs.ID)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrRoomConflict
		}
	}

	if teacher != nil {
		sameDay, err := s.sessionRepo.GetByTeacherAndRange(ctx, *teacher, date, date)
		if err != nil {
			return err
		}
		for _, other := range sameDay {
			if other.ID != cs.ID && other.Status != models.SessionCancelled &&
				helpers.ClockRangesOverlap(other.StartTime, other.EndTime, req.StartTime, req.EndTime) {
				return apperrors.ErrTeacherBusy
			}
		}
	}

	cs.ClassID = req.ClassID
	cs.TeacherID = teacher
	cs.ClassroomID = room
	cs.Date = date
	cs.StartTime = req.StartTime
	cs.EndTime = req.EndTime
	cs.Topic = req.Topic
	cs.Notes = req.Notes
	cs.ClassName = class.Name
	return nil
}

// Create adds a session after checking holidays and room and teacher clashes
func (s *SessionService) Create(ctx context.Context, req *dto.SessionRequest) (*models.ClassSession, error) {
	cs := &models.ClassSession{Status: models.SessionScheduled}
	if err := s.apply(ctx, cs, req); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Insert(ctx, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// Update changes a session
func (s *SessionService) Update(ctx context.Context, id string, req *dto.SessionRequest) (*models.ClassSession, error) {
	cs, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, cs, req); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Update(ctx, cs); err != nil {
		return nil, err
	}
	return cs, nil
}

// UpdateStatus completes or cancels a session
func (s *SessionService) UpdateStatus(ctx context.Context, id string, req *dto.SessionStatusRequest) (*models.ClassSession, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.UpdateStatus(ctx, id, models.SessionStatus(req.Status)); err != nil {
		return nil, err
	}
	logger.Info().Str("sessionID", id).Str("status", req.Status).Msg("Session status changed")
	return s.sessionRepo.GetByID(ctx, id)
}

// Delete removes a session
func (s *SessionService) Delete(ctx context.Context, id string) error {
	return s.sessionRepo.Delete(ctx, id)
}

// Generate creates the sessions of the weekly schedules over a period. All new
// sessions are stored in one transaction.
func (s *SessionService) Generate(ctx context.Context, req *dto.GenerateSessionsRequest) (*dto.GenerateSessionsResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	from, to, err := parsePeriod(req.From, req.To)
	if err != nil {
		return nil, err
	}
	if to.Sub(from).Hours()/24 >= maxGenerateDays {
		msg := "Chỉ tạo lịch tối đa 1 năm mỗi lần"
		return nil, apperrors.NewValidationError(msg, map[string]string{"to": msg})
	}

	var schedules []*models.Schedule
	if req.ClassID != "" {
		if _, err := s.classRepo.GetByID(ctx, req.ClassID); err != nil {
			return nil, err
		}
		schedules, err = s.scheduleRepo.GetByClassID(ctx, req.ClassID)
	} else {
		schedules, err = s.scheduleRepo.GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	classList, err := s.classRepo.GetAll(ctx, "")
	if err != nil {
		return nil, err
	}
	classes := make(map[string]*models.Class, len(classList))
	for _, c := range classList {
		classes[c.ID] = c
	}

	holidays, err := s.holidayRepo.GetInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	existing, err := s.sessionRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	planned, result := planSessions(from, to, schedules, classes, holidays, existing)
	if len(planned) > 0 {
		err = s.provider.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
			for _, cs := range planned {
				if err := s.sessionRepo.InsertTx(ctx, tx, cs); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error storing generated sessions: %w", err)
		}
	}

	logger.Info().
		Str("from", req.From).
		Str("to", req.To).
		Int("created", result.Created).
		Int("skippedHolidays", result.SkippedHolidays).
		Int("skippedExisting", result.SkippedExisting).
		Int("skippedConflict", result.SkippedConflict).
		Msg("Sessions generated")
	return &result, nil
}
