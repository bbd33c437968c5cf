package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/db"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/helpers"
	"github.com/edumanage/educenter/internal/pkg/logger"
)

var studentColumns = []string{
	"s.id", "s.full_name", "s.date_of_birth", "s.gender", "s.phone", "s.email",
	"s.address", "s.parent_id", "s.status", "s.enrolled_at", "s.notes",
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *db.Provider
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(provider *db.Provider) *StudentRepository {
	return &StudentRepository{db: provider}
}

func scanStudent(s db.Scanner, extra ...interface{}) (*models.Student, error) {
	var (
		st                            models.Student
		dob                           sql.NullTime
		phone, email, address, parent sql.NullString
		notes                         sql.NullString
	)
	dest := []interface{}{&st.ID, &st.FullName, &dob, &st.Gender, &phone, &email,
		&address, &parent, &st.Status, &st.EnrolledAt, &notes}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	st.DateOfBirth = helpers.TimePtr(dob)
	st.Phone = helpers.StringPtr(phone)
	st.Email = helpers.StringPtr(email)
	st.Address = helpers.StringPtr(address)
	st.ParentID = helpers.StringPtr(parent)
	st.Notes = helpers.StringPtr(notes)
	return &st, nil
}

func (r *StudentRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Student, error) {
	var students []*models.Student
	err := r.db.QueryAll(ctx, q.OrderBy("s.full_name"), func(s db.Scanner) error {
		st, err := scanStudent(s)
		if err != nil {
			return err
		}
		students = append(students, st)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	return students, nil
}

func (r *StudentRepository) selectStudents() squirrel.SelectBuilder {
	return r.db.Builder().Select(studentColumns...).From("students s")
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*models.Student, error) {
	var student *models.Student
	err := r.db.QueryOne(ctx, r.selectStudents().Where(squirrel.Eq{"s.id": id}),
		func(s db.Scanner) (err error) {
			student, err = scanStudent(s)
			return err
		})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// GetAll retrieves all students
func (r *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	return r.list(ctx, r.selectStudents())
}

// Search finds students whose name, phone or email contains keyword
func (r *StudentRepository) Search(ctx context.Context, keyword string) ([]*models.Student, error) {
	pattern := helpers.LikePattern(keyword)
	return r.list(ctx, r.selectStudents().Where(squirrel.Or{
		squirrel.Like{"LOWER(s.full_name)": pattern},
		squirrel.Like{"s.phone": pattern},
		squirrel.Like{"LOWER(s.email)": pattern},
	}))
}

// GetByClassID retrieves the students enrolled in a class
func (r *StudentRepository) GetByClassID(ctx context.Context, classID string) ([]*models.Student, error) {
	return r.list(ctx, r.selectStudents().
		Join("class_students cs ON cs.student_id = s.id").
		Where(squirrel.Eq{"cs.class_id": classID}))
}

// Insert stores a new student and assigns its ID
func (r *StudentRepository) Insert(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.Status == "" {
		student.Status = models.StatusActive
	}
	if student.EnrolledAt.IsZero() {
		student.EnrolledAt = helpers.TruncateDay(time.Now())
	}

	_, err := r.db.Exec(ctx, r.db.Builder().Insert("students").
		Columns("id", "full_name", "date_of_birth", "gender", "phone", "email",
			"address", "parent_id", "status", "enrolled_at", "notes").
		Values(student.ID, student.FullName, helpers.GetNullTime(student.DateOfBirth), student.Gender,
			helpers.GetNullString(student.Phone), helpers.GetNullString(student.Email),
			helpers.GetNullString(student.Address), helpers.GetNullString(student.ParentID),
			student.Status, student.EnrolledAt, helpers.GetNullString(student.Notes)))
	if err != nil {
		logger.Error().Err(err).Str("studentName", student.FullName).Msg("Error executing insert student query")
		return fmt.Errorf("error creating student: %w", err)
	}
	return nil
}

// Update changes a student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Update("students").
		Set("full_name", student.FullName).
		Set("date_of_birth", helpers.GetNullTime(student.DateOfBirth)).
		Set("gender", student.Gender).
		Set("phone", helpers.GetNullString(student.Phone)).
		Set("email", helpers.GetNullString(student.Email)).
		Set("address", helpers.GetNullString(student.Address)).
		Set("parent_id", helpers.GetNullString(student.ParentID)).
		Set("status", student.Status).
		Set("enrolled_at", student.EnrolledAt).
		Set("notes", helpers.GetNullString(student.Notes)).
		Where(squirrel.Eq{"id": student.ID}))
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}
	if n == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student with its enrollments and attendance
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Delete("students").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if n == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
