package auth

import (
	"context"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/logger"
)

// AuthorizationService decides what a signed-in teacher may change. The admin
// may change everything.
type AuthorizationService struct {
	classRepo      *repositories.ClassRepository
	sessionRepo    *repositories.ClassSessionRepository
	attendanceRepo *repositories.AttendanceRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(repos *repositories.Repositories) *AuthorizationService {
	return &AuthorizationService{
		classRepo:      repos.ClassRepository,
		sessionRepo:    repos.ClassSessionRepository,
		attendanceRepo: repos.AttendanceRepository,
	}
}

// CanManageClass reports whether the user teaches the class
func (s *AuthorizationService) CanManageClass(ctx context.Context, userID string, role models.Role, classID string) (bool, error) {
	if role == models.RoleAdmin {
		return true, nil
	}
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return false, err
	}
	return class.TeacherID != nil && *class.TeacherID == userID, nil
}

// CanManageSession reports whether the user teaches the session or its class
func (s *AuthorizationService) CanManageSession(ctx context.Context, userID string, role models.Role, sessionID string) (bool, error) {
	if role == models.RoleAdmin {
		return true, nil
	}
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if session.TeacherID != nil && *session.TeacherID == userID {
		return true, nil
	}
	return s.CanManageClass(ctx, userID, role, session.ClassID)
}

// CanManageAttendance reports whether the user may edit an attendance record
func (s *AuthorizationService) CanManageAttendance(ctx context.Context, userID string, role models.Role, attendanceID string) (bool, error) {
	if role == models.RoleAdmin {
		return true, nil
	}
	a, err := s.attendanceRepo.GetByID(ctx, attendanceID)
	if err != nil {
		return false, err
	}
	return s.CanManageSession(ctx, userID, role, a.SessionID)
}

// RequireSession returns ErrPermissionDenied unless the user may manage the session
func (s *AuthorizationService) RequireSession(ctx context.Context, userID string, role models.Role, sessionID string) error {
	ok, err := s.CanManageSession(ctx, userID, role, sessionID)
	if err != nil {
		return err
	}
	if !ok {
		logger.Warn().Str("userID", userID).Str("sessionID", sessionID).Msg("Session access denied")
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// RequireAttendance returns ErrPermissionDenied unless the user may edit the record
func (s *AuthorizationService) RequireAttendance(ctx context.Context, userID string, role models.Role, attendanceID string) error {
	ok, err := s.CanManageAttendance(ctx, userID, role, attendanceID)
	if err != nil {
		return err
	}
	if !ok {
		logger.Warn().Str("userID", userID).Str("attendanceID", attendanceID).Msg("Attendance access denied")
		return apperrors.ErrPermissionDenied
	}
	return nil
}
