package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/db"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/helpers"
	"github.com/edumanage/educenter/internal/pkg/logger"
	"github.com/edumanage/educenter/internal/pkg/validation"
)

// ClassService handles classes and enrollments
type ClassService struct {
	provider       *db.Provider
	classRepo      *repositories.ClassRepository
	studentRepo    *repositories.StudentRepository
	teacherRepo    *repositories.TeacherRepository
	roomRepo       *repositories.ClassroomRepository
	sessionRepo    *repositories.ClassSessionRepository
	attendanceRepo *repositories.AttendanceRepository
}

// NewClassService creates a new ClassService
func NewClassService(provider *db.Provider, repos *repositories.Repositories) *ClassService {
	return &ClassService{
		provider:       provider,
		classRepo:      repos.ClassRepository,
		studentRepo:    repos.StudentRepository,
		teacherRepo:    repos.TeacherRepository,
		roomRepo:       repos.ClassroomRepository,
		sessionRepo:    repos.ClassSessionRepository,
		attendanceRepo: repos.AttendanceRepository,
	}
}

// GetByID returns a class
func (s *ClassService) GetByID(ctx context.Context, id string) (*models.Class, error) {
	return s.classRepo.GetByID(ctx, id)
}

// GetAll lists classes, narrowed by keyword or teacher when given
func (s *ClassService) GetAll(ctx context.Context, keyword, teacherID string) ([]*models.Class, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.classRepo.GetAll(ctx, teacherID)
	}
	classes, err := s.classRepo.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if teacherID == "" {
		return classes, nil
	}
	return helpers.Filter(classes, func(c *models.Class) bool {
		return c.TeacherID != nil && *c.TeacherID == teacherID
	}), nil
}

func (s *ClassService) apply(ctx context.Context, c *models.Class, req *dto.ClassRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return err
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return err
	}
	if end != nil && end.Before(start) {
		return apperrors.ErrInvalidDateRange
	}
	if req.TeacherID != nil && *req.TeacherID != "" {
		if _, err := s.teacherRepo.GetByID(ctx, *req.TeacherID); err != nil {
			return err
		}
	}
	if req.ClassroomID != nil && *req.ClassroomID != "" {
		if _, err := s.roomRepo.GetByID(ctx, *req.ClassroomID); err != nil {
			return err
		}
	}

	c.Name = strings.TrimSpace(req.Name)
	c.Subject = strings.TrimSpace(req.Subject)
	c.TeacherID = req.TeacherID
	c.ClassroomID = req.ClassroomID
	c.StartDate = start
	c.EndDate = end
	c.MaxStudents = req.MaxStudents
	if req.Status != "" {
		c.Status = req.Status
	}
	return nil
}

// Create adds a class
func (s *ClassService) Create(ctx context.Context, req *dto.ClassRequest) (*models.Class, error) {
	c := &models.Class{Status: models.StatusOpen}
	if err := s.apply(ctx, c, req); err != nil {
		return nil, err
	}
	if err := s.classRepo.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes a class
func (s *ClassService) Update(ctx context.Context, id string, req *dto.ClassRequest) (*models.Class, error) {
	c, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, c, req); err != nil {
		return nil, err
	}
	if err := s.classRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a class
func (s *ClassService) Delete(ctx context.Context, id string) error {
	return s.classRepo.Delete(ctx, id)
}

// Enroll adds a student to a class and creates attendance rows for the class's
// upcoming scheduled sessions, all in one transaction.
func (s *ClassService) Enroll(ctx context.Context, classID string, req *dto.EnrollRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return err
	}
	if class.Status == models.StatusClosed {
		return apperrors.NewConflictError("class is closed")
	}
	if _, err := s.studentRepo.GetByID(ctx, req.StudentID); err != nil {
		return err
	}

	upcoming, err := s.upcomingSessions(ctx, classID, req.StudentID, time.Now())
	if err != nil {
		return err
	}

	err = s.provider.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if class.MaxStudents > 0 {
			enrolled, err := s.classRepo.CountStudentsTx(ctx, tx, classID)
			if err != nil {
				return err
			}
			if enrolled >= int64(class.MaxStudents) {
				return apperrors.ErrClassFull
			}
		}
		if err := s.classRepo.EnrollStudentTx(ctx, tx, classID, req.StudentID, time.Now()); err != nil {
			return err
		}
		for _, session := range upcoming {
			a := &models.Attendance{SessionID: session.ID, StudentID: req.StudentID, Present: true}
			if err := s.attendanceRepo.InsertTx(ctx, tx, a); err != nil {
				return fmt.Errorf("error seeding attendance: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("classID", classID).
		Str("studentID", req.StudentID).
		Int("seededSessions", len(upcoming)).
		Msg("Student enrolled")
	return nil
}

// upcomingSessions returns the scheduled sessions from today on that have no
// attendance row for the student yet.
func (s *ClassService) upcomingSessions(ctx context.Context, classID, studentID string, now time.Time) ([]*models.ClassSession, error) {
	sessions, err := s.sessionRepo.GetByClassID(ctx, classID)
	if err != nil {
		return nil, err
	}
	existing, err := s.attendanceRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	recorded := make(map[string]bool, len(existing))
	for _, a := range existing {
		recorded[a.SessionID] = true
	}
	today := helpers.TruncateDay(now)
	return helpers.Filter(sessions, func(cs *models.ClassSession) bool {
		return cs.Status == models.SessionScheduled && !cs.Date.Before(today) && !recorded[cs.ID]
	}), nil
}

// RemoveStudent takes a student out of a class
func (s *ClassService) RemoveStudent(ctx context.Context, classID, studentID string) error {
	return s.classRepo.RemoveStudent(ctx, classID, studentID)
}

// GetStudents lists the students of a class
func (s *ClassService) GetStudents(ctx context.Context, classID string) ([]*models.Student, error) {
	if _, err := s.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return s.studentRepo.GetByClassID(ctx, classID)
}
