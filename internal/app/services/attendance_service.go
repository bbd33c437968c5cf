package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/db"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/logger"
	"github.com/edumanage/educenter/internal/pkg/validation"
)

// AttendanceService records who attended each session
type AttendanceService struct {
	provider       *db.Provider
	attendanceRepo *repositories.AttendanceRepository
	sessionRepo    *repositories.ClassSessionRepository
	studentRepo    *repositories.StudentRepository
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(provider *db.Provider, repos *repositories.Repositories) *AttendanceService {
	return &AttendanceService{
		provider:       provider,
		attendanceRepo: repos.AttendanceRepository,
		sessionRepo:    repos.ClassSessionRepository,
		studentRepo:    repos.StudentRepository,
	}
}

// GetBySession returns the records of a session with Student and Session filled in
func (s *AttendanceService) GetBySession(ctx context.Context, sessionID string) ([]*models.Attendance, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	records, err := s.attendanceRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, a := range records {
		a.Session = session
	}
	return records, nil
}

// GetByStudent returns the attendance history of a student
func (s *AttendanceService) GetByStudent(ctx context.Context, studentID string) ([]*models.Attendance, error) {
	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.attendanceRepo.GetByStudentID(ctx, studentID)
}

// Take records the marks of a session in one transaction. Existing records are
// updated, missing ones created. Every student must be enrolled in the session's
// class and appear at most once.
func (s *AttendanceService) Take(ctx context.Context, sessionID string, req *dto.TakeAttendanceRequest) ([]*models.Attendance, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCancelled {
		return nil, apperrors.NewConflictError("session is cancelled")
	}

	enrolled, err := s.enrolledIDs(ctx, session.ClassID)
	if err != nil {
		return nil, err
	}
	existing, err := s.attendanceRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[string]*models.Attendance, len(existing))
	for _, a := range existing {
		byStudent[a.StudentID] = a
	}

	for _, entry := range req.Entries {
		if !enrolled[entry.StudentID] {
			return nil, fmt.Errorf("student %s: %w", entry.StudentID, apperrors.ErrNotEnrolled)
		}
	}

	err = s.provider.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, entry := range req.Entries {
			a, ok := byStudent[entry.StudentID]
			if !ok {
				a = &models.Attendance{SessionID: sessionID, StudentID: entry.StudentID}
			}
			a.Present = entry.Present
			a.Excused = !entry.Present && entry.Excused
			a.Note = entry.Note

			write := s.attendanceRepo.InsertTx
			if ok {
				write = s.attendanceRepo.UpdateTx
			}
			if err := write(ctx, tx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("sessionID", sessionID).Int("entries", len(req.Entries)).Msg("Attendance taken")
	return s.GetBySession(ctx, sessionID)
}

// MarkCalled records whether the parent was contacted about an absence
func (s *AttendanceService) MarkCalled(ctx context.Context, id string, called bool) (*models.Attendance, error) {
	if err := s.attendanceRepo.MarkCalled(ctx, id, called); err != nil {
		return nil, err
	}
	return s.attendanceRepo.GetByID(ctx, id)
}

// Status reports how many absences of a session still need a parent call
func (s *AttendanceService) Status(ctx context.Context, sessionID string) (*dto.AttendanceStatusResponse, error) {
	records, err := s.attendanceRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
			return nil, err
		}
	}
	status := attendanceStatus(sessionID, records)
	return &status, nil
}

// attendanceStatus counts absences. AllAbsencesNotified holds when no absent
// student is left without a parent call, including when nobody was absent.
func attendanceStatus(sessionID string, records []*models.Attendance) dto.AttendanceStatusResponse {
	status := dto.AttendanceStatusResponse{SessionID: sessionID, Total: len(records)}
	for _, a := range records {
		if a.Present {
			continue
		}
		status.Absent++
		if a.IsUnnotifiedAbsence() {
			status.Unnotified++
		}
	}
	status.AllAbsencesNotified = status.Unnotified == 0
	return status
}

// Seed creates a present record for every enrolled student that has none yet.
// It returns the number of records created.
func (s *AttendanceService) Seed(ctx context.Context, sessionID string) (int, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	students, err := s.studentRepo.GetByClassID(ctx, session.ClassID)
	if err != nil {
		return 0, err
	}
	existing, err := s.attendanceRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	recorded := make(map[string]bool, len(existing))
	for _, a := range existing {
		recorded[a.StudentID] = true
	}

	created := 0
	err = s.provider.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, st := range students {
			if recorded[st.ID] {
				continue
			}
			a := &models.Attendance{SessionID: sessionID, StudentID: st.ID, Present: true}
			if err := s.attendanceRepo.InsertTx(ctx, tx, a); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAttendanceExists) {
			return 0, apperrors.NewConflictError("attendance was seeded concurrently")
		}
		return 0, err
	}
	return created, nil
}

func (s *AttendanceService) enrolledIDs(ctx context.Context, classID string) (map[string]bool, error) {
	students, err := s.studentRepo.GetByClassID(ctx, classID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(students))
	for _, st := range students {
		ids[st.ID] = true
	}
	return ids, nil
}
