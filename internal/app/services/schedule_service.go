package services

import (
	"context"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/validation"
)

// ScheduleService handles the weekly slots sessions are generated from
type ScheduleService struct {
	scheduleRepo *repositories.ScheduleRepository
	classRepo    *repositories.ClassRepository
	roomRepo     *repositories.ClassroomRepository
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(repos *repositories.Repositories) *ScheduleService {
	return &ScheduleService{
		scheduleRepo: repos.ScheduleRepository,
		classRepo:    repos.ClassRepository,
		roomRepo:     repos.ClassroomRepository,
	}
}

// GetByID returns a schedule slot
func (s *ScheduleService) GetByID(ctx context.Context, id string) (*models.Schedule, error) {
	return s.scheduleRepo.GetByID(ctx, id)
}

// GetAll lists slots of one class, one weekday, or all of them
func (s *ScheduleService) GetAll(ctx context.Context, classID string, dayOfWeek int) ([]*models.Schedule, error) {
	switch {
	case classID != "":
		return s.scheduleRepo.GetByClassID(ctx, classID)
	case dayOfWeek >= 1 && dayOfWeek <= 7:
		return s.scheduleRepo.GetByDayOfWeek(ctx, dayOfWeek)
	default:
		return s.scheduleRepo.GetAll(ctx)
	}
}

func (s *ScheduleService) apply(ctx context.Context, sc *models.Schedule, req *dto.ScheduleRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	if err := checkClockRange(req.StartTime, req.EndTime); err != nil {
		return err
	}
	from, err := parseDate(req.EffectiveFrom)
	if err != nil {
		return err
	}
	to, err := parseOptionalDate(req.EffectiveTo)
	if err != nil {
		return err
	}
	if to != nil && to.Before(from) {
		return apperrors.ErrInvalidDateRange
	}
	if _, err := s.classRepo.GetByID(ctx, req.ClassID); err != nil {
		return err
	}
	if req.ClassroomID != nil && *req.ClassroomID != "" {
		if _, err := s.roomRepo.GetByID(ctx, *req.ClassroomID); err != nil {
			return err
		}
	}

	sc.ClassID = req.ClassID
	sc.DayOfWeek = req.DayOfWeek
	sc.StartTime = req.StartTime
	sc.EndTime = req.EndTime
	sc.ClassroomID = req.ClassroomID
	sc.TeacherID = req.TeacherID
	sc.EffectiveFrom = from
	sc.EffectiveTo = to
	return nil
}

// Create adds a schedule slot
func (s *ScheduleService) Create(ctx context.Context, req *dto.ScheduleRequest) (*models.Schedule, error) {
	sc := &models.Schedule{}
	if err := s.apply(ctx, sc, req); err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.Insert(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// Update changes a schedule slot. Sessions generated earlier are left as they are.
func (s *ScheduleService) Update(ctx context.Context, id string, req *dto.ScheduleRequest) (*models.Schedule, error) {
	sc, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, sc, req); err != nil {
		return nil, err
	}
	if err := s.scheduleRepo.Update(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// Delete removes a schedule slot
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	return s.scheduleRepo.Delete(ctx, id)
}
