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
	"github.com/edumanage/educenter/internal/pkg/dberrors"
	"github.com/edumanage/educenter/internal/pkg/helpers"
	"github.com/edumanage/educenter/internal/pkg/logger"
)

var classColumns = []string{
	"c.id", "c.name", "c.subject", "c.teacher_id", "c.classroom_id", "c.start_date",
	"c.end_date", "c.max_students", "c.status", "c.created_at",
	"(SELECT COUNT(*) FROM class_students cs WHERE cs.class_id = c.id) AS student_count",
}

// ClassRepository handles classes and their enrollments
type ClassRepository struct {
	db *db.Provider
}

// NewClassRepository creates a new ClassRepository
func NewClassRepository(provider *db.Provider) *ClassRepository {
	return &ClassRepository{db: provider}
}

func scanClass(s db.Scanner) (*models.Class, error) {
	var (
		c                    models.Class
		teacherID, classroom sql.NullString
		endDate              sql.NullTime
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Subject, &teacherID, &classroom, &c.StartDate,
		&endDate, &c.MaxStudents, &c.Status, &c.CreatedAt, &c.StudentCount); err != nil {
		return nil, err
	}
	c.TeacherID = helpers.StringPtr(teacherID)
	c.ClassroomID = helpers.StringPtr(classroom)
	c.EndDate = helpers.TimePtr(endDate)
	return &c, nil
}

func (r *ClassRepository) selectClasses() squirrel.SelectBuilder {
	return r.db.Builder().Select(classColumns...).From("classes c")
}

func (r *ClassRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Class, error) {
	var classes []*models.Class
	err := r.db.QueryAll(ctx, q.OrderBy("c.start_date DESC", "c.name"), func(s db.Scanner) error {
		c, err := scanClass(s)
		if err != nil {
			return err
		}
		classes = append(classes, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	return classes, nil
}

// GetByID retrieves a class by ID
func (r *ClassRepository) GetByID(ctx context.Context, id string) (*models.Class, error) {
	var class *models.Class
	err := r.db.QueryOne(ctx, r.selectClasses().Where(squirrel.Eq{"c.id": id}),
		func(s db.Scanner) (err error) {
			class, err = scanClass(s)
			return err
		})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrClassNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving class: %w", err)
	}
	return class, nil
}

// GetAll retrieves all classes, optionally only those of one teacher
func (r *ClassRepository) GetAll(ctx context.Context, teacherID string) ([]*models.Class, error) {
	q := r.selectClasses()
	if teacherID != "" {
		q = q.Where(squirrel.Eq{"c.teacher_id": teacherID})
	}
	return r.list(ctx, q)
}

// Search finds classes whose name or subject contains keyword
func (r *ClassRepository) Search(ctx context.Context, keyword string) ([]*models.Class, error) {
	pattern := helpers.LikePattern(keyword)
	return r.list(ctx, r.selectClasses().Where(squirrel.Or{
		squirrel.Like{"LOWER(c.name)": pattern},
		squirrel.Like{"LOWER(c.subject)": pattern},
	}))
}

// Insert stores a new class and assigns its ID
func (r *ClassRepository) Insert(ctx context.Context, c *models.Class) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.StatusOpen
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(ctx, r.db.Builder().Insert("classes").
		Columns("id", "name", "subject", "teacher_id", "classroom_id", "start_date",
			"end_date", "max_students", "status", "created_at").
		Values(c.ID, c.Name, c.Subject, helpers.GetNullString(c.TeacherID), helpers.GetNullString(c.ClassroomID),
			c.StartDate, helpers.GetNullTime(c.EndDate), c.MaxStudents, c.Status, c.CreatedAt))
	if err != nil {
		logger.Error().Err(err).Str("className", c.Name).Msg("Error executing insert class query")
		return fmt.Errorf("error creating class: %w", err)
	}
	return nil
}

// Update changes a class
func (r *ClassRepository) Update(ctx context.Context, c *models.Class) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Update("classes").
		Set("name", c.Name).
		Set("subject", c.Subject).
		Set("teacher_id", helpers.GetNullString(c.TeacherID)).
		Set("classroom_id", helpers.GetNullString(c.ClassroomID)).
		Set("start_date", c.StartDate).
		Set("end_date", helpers.GetNullTime(c.EndDate)).
		Set("max_students", c.MaxStudents).
		Set("status", c.Status).
		Where(squirrel.Eq{"id": c.ID}))
	if err != nil {
		return fmt.Errorf("error updating class: %w", err)
	}
	if n == 0 {
		return apperrors.ErrClassNotFound
	}
	return nil
}

// Delete removes a class with its sessions, schedules and enrollments
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Delete("classes").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting class: %w", err)
	}
	if n == 0 {
		return apperrors.ErrClassNotFound
	}
	return nil
}

func (r *ClassRepository) enrollQuery(classID, studentID string, enrolledAt time.Time) squirrel.InsertBuilder {
	return r.db.Builder().Insert("class_students").
		Columns("class_id", "student_id", "enrolled_at").
		Values(classID, studentID, helpers.TruncateDay(enrolledAt))
}

// EnrollStudent adds a student to a class
func (r *ClassRepository) EnrollStudent(ctx context.Context, classID, studentID string, enrolledAt time.Time) error {
	_, err := r.db.Exec(ctx, r.enrollQuery(classID, studentID, enrolledAt))
	return mapEnrollError(err)
}

// EnrollStudentTx adds a student to a class inside tx
func (r *ClassRepository) EnrollStudentTx(ctx context.Context, tx *sql.Tx, classID, studentID string, enrolledAt time.Time) error {
	_, err := db.ExecTx(ctx, tx, r.enrollQuery(classID, studentID, enrolledAt))
	return mapEnrollError(err)
}

func mapEnrollError(err error) error {
	if err == nil {
		return nil
	}
	if dberrors.IsDuplicateKeyError(err) {
		return apperrors.ErrAlreadyEnrolled
	}
	return fmt.Errorf("error enrolling student: %w", err)
}

// RemoveStudent takes a student out of a class
func (r *ClassRepository) RemoveStudent(ctx context.Context, classID, studentID string) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Delete("class_students").
		Where(squirrel.Eq{"class_id": classID, "student_id": studentID}))
	if err != nil {
		return fmt.Errorf("error removing student from class: %w", err)
	}
	if n == 0 {
		return apperrors.ErrNotEnrolled
	}
	return nil
}

// CountStudentsTx locks the class row until tx ends and returns the number of
// students enrolled in it. Concurrent enrollments into one class wait on the lock.
func (r *ClassRepository) CountStudentsTx(ctx context.Context, tx *sql.Tx, classID string) (int64, error) {
	var id string
	err := db.QueryRowTx(ctx, tx, r.db.Builder().Select("id").From("classes").
		Where(squirrel.Eq{"id": classID}).Suffix("FOR UPDATE"), &id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, apperrors.ErrClassNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("error locking class: %w", err)
	}

	var n int64
	if err := db.QueryRowTx(ctx, tx, r.db.Builder().Select("COUNT(*)").From("class_students").
		Where(squirrel.Eq{"class_id": classID}), &n); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return n, nil
}
