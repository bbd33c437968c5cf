package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/db"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/dberrors"
	"github.com/edumanage/educenter/internal/pkg/helpers"
	"github.com/edumanage/educenter/internal/pkg/logger"
)

// Teacher accounts without a profile row still list, with default rate and status.
var teacherColumns = []string{
	"u.id", "u.username", "u.full_name", "u.email", "u.phone", "u.gender",
	"u.date_of_birth", "u.created_at", "t.specialization",
	"COALESCE(t.hourly_rate, 0)", "COALESCE(t.status, 'active')", "t.hired_at",
}

// TeacherRepository handles teacher profiles joined with their accounts
type TeacherRepository struct {
	db *db.Provider
}

// NewTeacherRepository creates a new TeacherRepository
func NewTeacherRepository(provider *db.Provider) *TeacherRepository {
	return &TeacherRepository{db: provider}
}

func scanTeacher(s db.Scanner) (*models.Teacher, error) {
	var (
		t       models.Teacher
		u       models.User
		spec    sql.NullString
		hiredAt sql.NullTime
	)
	if err := s.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.Phone, &u.Gender,
		&u.DateOfBirth, &u.CreatedAt, &spec, &t.HourlyRate, &t.Status, &hiredAt); err != nil {
		return nil, err
	}
	u.Role = models.RoleTeacher
	t.UserID = u.ID
	t.Specialization = helpers.StringPtr(spec)
	t.HiredAt = helpers.TimePtr(hiredAt)
	t.User = &u
	return &t, nil
}

func (r *TeacherRepository) selectTeachers() squirrel.SelectBuilder {
	return r.db.Builder().Select(teacherColumns...).
		From("users u").
		LeftJoin("teachers t ON t.user_id = u.id").
		Where(squirrel.Eq{"u.role": string(models.RoleTeacher)})
}

func (r *TeacherRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Teacher, error) {
	var teachers []*models.Teacher
	err := r.db.QueryAll(ctx, q.OrderBy("u.full_name"), func(s db.Scanner) error {
		t, err := scanTeacher(s)
		if err != nil {
			return err
		}
		teachers = append(teachers, t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing teachers: %w", err)
	}
	return teachers, nil
}

// GetByID retrieves a teacher by account ID
func (r *TeacherRepository) GetByID(ctx context.Context, userID string) (*models.Teacher, error) {
	var teacher *models.Teacher
	err := r.db.QueryOne(ctx, r.selectTeachers().Where(squirrel.Eq{"u.id": userID}),
		func(s db.Scanner) (err error) {
			teacher, err = scanTeacher(s)
			return err
		})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrTeacherNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving teacher: %w", err)
	}
	return teacher, nil
}

// GetAll retrieves all teachers
func (r *TeacherRepository) GetAll(ctx context.Context) ([]*models.Teacher, error) {
	return r.list(ctx, r.selectTeachers())
}

// Search finds teachers whose name, email, phone or specialization contains keyword
func (r *TeacherRepository) Search(ctx context.Context, keyword string) ([]*models.Teacher, error) {
	pattern := helpers.LikePattern(keyword)
	return r.list(ctx, r.selectTeachers().Where(squirrel.Or{
		squirrel.Like{"LOWER(u.full_name)": pattern},
		squirrel.Like{"LOWER(u.email)": pattern},
		squirrel.Like{"u.phone": pattern},
		squirrel.Like{"LOWER(t.specialization)": pattern},
	}))
}

// Insert creates the teaching profile of an existing teacher account
func (r *TeacherRepository) Insert(ctx context.Context, teacher *models.Teacher) error {
	if teacher.Status == "" {
		teacher.Status = models.StatusActive
	}
	_, err := r.db.Exec(ctx, r.db.Builder().Insert("teachers").
		Columns("user_id", "specialization", "hourly_rate", "status", "hired_at").
		Values(teacher.UserID, helpers.GetNullString(teacher.Specialization), teacher.HourlyRate,
			teacher.Status, helpers.GetNullTime(teacher.HiredAt)))
	if err != nil {
		if dberrors.IsDuplicateKeyError(err) {
			return apperrors.ErrTeacherExists
		}
		logger.Error().Err(err).Str("userID", teacher.UserID).Msg("Error executing insert teacher query")
		return fmt.Errorf("error creating teacher: %w", err)
	}
	return nil
}

// Update changes the teaching profile
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Update("teachers").
		Set("specialization", helpers.GetNullString(teacher.Specialization)).
		Set("hourly_rate", teacher.HourlyRate).
		Set("status", teacher.Status).
		Set("hired_at", helpers.GetNullTime(teacher.HiredAt)).
		Where(squirrel.Eq{"user_id": teacher.UserID}))
	if err != nil {
		return fmt.Errorf("error updating teacher: %w", err)
	}
	if n == 0 {
		return apperrors.ErrTeacherNotFound
	}
	return nil
}
