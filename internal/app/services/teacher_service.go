package services

import (
	"context"
	"errors"
	"strings"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/validation"
)

// TeacherService handles teaching profiles
type TeacherService struct {
	teacherRepo *repositories.TeacherRepository
	sessionRepo *repositories.ClassSessionRepository
}

// NewTeacherService creates a new TeacherService
func NewTeacherService(teacherRepo *repositories.TeacherRepository, sessionRepo *repositories.ClassSessionRepository) *TeacherService {
	return &TeacherService{
		teacherRepo: teacherRepo,
		sessionRepo: sessionRepo,
	}
}

// GetByID returns a teacher with account data
func (s *TeacherService) GetByID(ctx context.Context, userID string) (*models.Teacher, error) {
	return s.teacherRepo.GetByID(ctx, userID)
}

// GetAll lists teachers, narrowed by keyword when given
func (s *TeacherService) GetAll(ctx context.Context, keyword string) ([]*models.Teacher, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.teacherRepo.GetAll(ctx)
	}
	return s.teacherRepo.Search(ctx, keyword)
}

// UpdateProfile changes the teaching profile, creating it on first edit
func (s *TeacherService) UpdateProfile(ctx context.Context, userID string, req *dto.TeacherRequest) (*models.Teacher, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	hiredAt, err := parseOptionalDate(req.HiredAt)
	if err != nil {
		return nil, err
	}

	teacher, err := s.teacherRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	teacher.Specialization = req.Specialization
	teacher.HourlyRate = req.HourlyRate
	if req.Status != "" {
		teacher.Status = req.Status
	}
	if hiredAt != nil {
		teacher.HiredAt = hiredAt
	}

	err = s.teacherRepo.Update(ctx, teacher)
	if errors.Is(err, apperrors.ErrTeacherNotFound) {
		err = s.teacherRepo.Insert(ctx, teacher)
	}
	if err != nil {
		return nil, err
	}
	return teacher, nil
}

// GetSchedule lists a teacher's sessions in a period
func (s *TeacherService) GetSchedule(ctx context.Context, userID string, q *dto.PeriodQuery) ([]*models.ClassSession, error) {
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	from, to, err := parsePeriod(q.From, q.To)
	if err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByTeacherAndRange(ctx, userID, from, to)
}
