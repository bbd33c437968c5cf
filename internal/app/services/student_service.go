package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/logger"
	"github.com/edumanage/educenter/internal/pkg/validation"
)

// StudentService handles student records
type StudentService struct {
	studentRepo *repositories.StudentRepository
	parentRepo  *repositories.ParentRepository
}

// NewStudentService creates a new StudentService
func NewStudentService(studentRepo *repositories.StudentRepository, parentRepo *repositories.ParentRepository) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		parentRepo:  parentRepo,
	}
}

// GetByID returns a student with the parent filled in
func (s *StudentService) GetByID(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student.ParentID != nil {
		parent, err := s.parentRepo.GetByID(ctx, *student.ParentID)
		switch {
		case err == nil:
			student.Parent = parent
		case errors.Is(err, apperrors.ErrParentNotFound):
			logger.Warn().Str("studentID", id).Str("parentID", *student.ParentID).Msg("Student references a missing parent")
		default:
			return nil, err
		}
	}
	return student, nil
}

// GetAll lists students, narrowed by keyword when given
func (s *StudentService) GetAll(ctx context.Context, keyword string) ([]*models.Student, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.studentRepo.GetAll(ctx)
	}
	return s.studentRepo.Search(ctx, keyword)
}

func (s *StudentService) apply(ctx context.Context, student *models.Student, req *dto.StudentRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	dob, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		return err
	}
	if req.ParentID != nil && *req.ParentID != "" {
		if _, err := s.parentRepo.GetByID(ctx, *req.ParentID); err != nil {
			return err
		}
	}

	student.FullName = strings.TrimSpace(req.FullName)
	student.DateOfBirth = dob
	student.Gender = req.Gender
	student.Phone = req.Phone
	student.Email = req.Email
	student.Address = req.Address
	student.ParentID = req.ParentID
	student.Notes = req.Notes
	if req.Status != "" {
		student.Status = req.Status
	}
	if req.EnrolledAt != "" {
		enrolled, err := parseDate(req.EnrolledAt)
		if err != nil {
			return err
		}
		student.EnrolledAt = enrolled
	}
	return nil
}

// Create adds a student
func (s *StudentService) Create(ctx context.Context, req *dto.StudentRequest) (*models.Student, error) {
	student := &models.Student{Status: models.StatusActive, EnrolledAt: time.Now()}
	if err := s.apply(ctx, student, req); err != nil {
		return nil, err
	}
	if err := s.studentRepo.Insert(ctx, student); err != nil {
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	return student, nil
}

// Update changes a student
func (s *StudentService) Update(ctx context.Context, id string, req *dto.StudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, student, req); err != nil {
		return nil, err
	}
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Delete removes a student
func (s *StudentService) Delete(ctx context.Context, id string) error {
	return s.studentRepo.Delete(ctx, id)
}
