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

const constraintAttendance = "uq_attendance_session_student"

var attendanceColumns = []string{
	"a.id", "a.session_id", "a.student_id", "a.present", "a.excused", "a.called", "a.note", "a.recorded_at",
}

// AttendanceRepository handles attendance records
type AttendanceRepository struct {
	db *db.Provider
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(provider *db.Provider) *AttendanceRepository {
	return &AttendanceRepository{db: provider}
}

// attendanceDest returns scan targets for attendanceColumns and a finisher that
// copies nullable values into a.
func attendanceDest(a *models.Attendance) ([]interface{}, func()) {
	var note sql.NullString
	dest := []interface{}{&a.ID, &a.SessionID, &a.StudentID, &a.Present, &a.Excused, &a.Called, &note, &a.RecordedAt}
	return dest, func() { a.Note = helpers.StringPtr(note) }
}

func scanAttendance(s db.Scanner) (*models.Attendance, error) {
	var a models.Attendance
	dest, finish := attendanceDest(&a)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	finish()
	return &a, nil
}

func (r *AttendanceRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Attendance, error) {
	var records []*models.Attendance
	err := r.db.QueryAll(ctx, q, func(s db.Scanner) error {
		a, err := scanAttendance(s)
		if err != nil {
			return err
		}
		records = append(records, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing attendance: %w", err)
	}
	return records, nil
}

// GetByID retrieves an attendance record by ID
func (r *AttendanceRepository) GetByID(ctx context.Context, id string) (*models.Attendance, error) {
	var record *models.Attendance
	err := r.db.QueryOne(ctx, r.db.Builder().Select(attendanceColumns...).From("attendance a").
		Where(squirrel.Eq{"a.id": id}),
		func(s db.Scanner) (err error) {
			record, err = scanAttendance(s)
			return err
		})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrAttendanceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving attendance: %w", err)
	}
	return record, nil
}

// GetBySessionID retrieves the attendance of a session with each Student joined
func (r *AttendanceRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Attendance, error) {
	cols := append(append([]string{}, studentColumns...), attendanceColumns...)
	q := r.db.Builder().Select(cols...).
		From("attendance a").
		Join("students s ON s.id = a.student_id").
		Where(squirrel.Eq{"a.session_id": sessionID}).
		OrderBy("s.full_name")

	var records []*models.Attendance
	err := r.db.QueryAll(ctx, q, func(s db.Scanner) error {
		a := &models.Attendance{}
		dest, finish := attendanceDest(a)
		st, err := scanStudent(s, dest...)
		if err != nil {
			return err
		}
		finish()
		a.Student = st
		records = append(records, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing session attendance: %w", err)
	}
	return records, nil
}

// GetByStudentID retrieves a student's attendance history, newest first
func (r *AttendanceRepository) GetByStudentID(ctx context.Context, studentID string) ([]*models.Attendance, error) {
	return r.list(ctx, r.db.Builder().Select(attendanceColumns...).
		From("attendance a").
		Join("class_sessions s ON s.id = a.session_id").
		Where(squirrel.Eq{"a.student_id": studentID}).
		OrderBy("s.session_date DESC", "s.start_time DESC"))
}

func (r *AttendanceRepository) insertQuery(a *models.Attendance) squirrel.InsertBuilder {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.RecordedAt.IsZero() {
		a.RecordedAt = time.Now()
	}
	return r.db.Builder().Insert("attendance").
		Columns("id", "session_id", "student_id", "present", "excused", "called", "note", "recorded_at").
		Values(a.ID, a.SessionID, a.StudentID, a.Present, a.Excused, a.Called,
			helpers.GetNullString(a.Note), a.RecordedAt)
}

func mapAttendanceError(err error) error {
	if dberrors.IsDuplicateConstraintError(err, constraintAttendance) {
		return apperrors.ErrAttendanceExists
	}
	return fmt.Errorf("error creating attendance: %w", err)
}

// Insert stores a new record. A second record for the same session and student
// is rejected with ErrAttendanceExists.
func (r *AttendanceRepository) Insert(ctx context.Context, a *models.Attendance) error {
	if _, err := r.db.Exec(ctx, r.insertQuery(a)); err != nil {
		return mapAttendanceError(err)
	}
	return nil
}

// InsertTx stores a new record inside tx
func (r *AttendanceRepository) InsertTx(ctx context.Context, tx *sql.Tx, a *models.Attendance) error {
	if _, err := db.ExecTx(ctx, tx, r.insertQuery(a)); err != nil {
		return mapAttendanceError(err)
	}
	return nil
}

// UpdateTx changes the marks of a record inside tx
func (r *AttendanceRepository) UpdateTx(ctx context.Context, tx *sql.Tx, a *models.Attendance) error {
	n, err := db.ExecTx(ctx, tx, r.db.Builder().Update("attendance").
		Set("present", a.Present).
		Set("excused", a.Excused).
		Set("called", a.Called).
		Set("note", helpers.GetNullString(a.Note)).
		Set("recorded_at", time.Now()).
		Where(squirrel.Eq{"id": a.ID}))
	if err != nil {
		return fmt.Errorf("error updating attendance: %w", err)
	}
	if n == 0 {
		return apperrors.ErrAttendanceNotFound
	}
	return nil
}

// MarkCalled records whether the parent was contacted about the absence
func (r *AttendanceRepository) MarkCalled(ctx context.Context, id string, called bool) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Update("attendance").
		Set("called", called).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error marking attendance called: %w", err)
	}
	if n == 0 {
		return apperrors.ErrAttendanceNotFound
	}
	return nil
}

// GetUnnotifiedAbsences lists absences whose parent was not contacted yet, in
// sessions held on or after since.
func (r *AttendanceRepository) GetUnnotifiedAbsences(ctx context.Context, since time.Time) ([]*models.AbsenceNotice, error) {
	q := r.db.Builder().Select(
		"a.id", "st.id", "st.full_name", "s.id", "s.session_date", "s.start_time",
		"c.name", "s.teacher_id", "p.full_name", "p.email", "p.phone").
		From("attendance a").
		Join("students st ON st.id = a.student_id").
		Join("class_sessions s ON s.id = a.session_id").
		Join("classes c ON c.id = s.class_id").
		LeftJoin("parents p ON p.id = st.parent_id").
		Where(squirrel.Eq{"a.present": false, "a.called": false}).
		Where(squirrel.NotEq{"s.status": string(models.SessionCancelled)}).
		Where(squirrel.GtOrEq{"s.session_date": helpers.TruncateDay(since)}).
		OrderBy("s.session_date", "st.full_name")

	var notices []*models.AbsenceNotice
	err := r.db.QueryAll(ctx, q, func(s db.Scanner) error {
		var (
			n                            models.AbsenceNotice
			teacherID, pName, pMail, pTel sql.NullString
		)
		if err := s.Scan(&n.AttendanceID, &n.StudentID, &n.StudentName, &n.SessionID, &n.SessionDate,
			&n.StartTime, &n.ClassName, &teacherID, &pName, &pMail, &pTel); err != nil {
			return err
		}
		n.TeacherID = helpers.StringPtr(teacherID)
		n.ParentName = helpers.StringPtr(pName)
		n.ParentEmail = helpers.StringPtr(pMail)
		n.ParentPhone = helpers.StringPtr(pTel)
		notices = append(notices, &n)
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error loading unnotified absences")
		return nil, fmt.Errorf("error listing unnotified absences: %w", err)
	}
	return notices, nil
}

// SummaryByClass counts attendance per class for sessions held in [from, to]
func (r *AttendanceRepository) SummaryByClass(ctx context.Context, from, to time.Time) ([]*models.AttendanceSummary, error) {
	q := r.db.Builder().Select(
		"c.id", "c.name",
		"COUNT(DISTINCT s.id)",
		"COUNT(a.id)",
		"COALESCE(SUM(CASE WHEN a.present THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN NOT a.present AND NOT a.excused THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN NOT a.present AND a.excused THEN 1 ELSE 0 END), 0)").
		From("classes c").
		Join("class_sessions s ON s.class_id = c.id AND s.session_date >= ? AND s.session_date <= ?",
			helpers.TruncateDay(from), helpers.TruncateDay(to)).
		LeftJoin("attendance a ON a.session_id = s.id").
		Where(squirrel.NotEq{"s.status": string(models.SessionCancelled)}).
		GroupBy("c.id", "c.name").
		OrderBy("c.name")

	var summaries []*models.AttendanceSummary
	err := r.db.QueryAll(ctx, q, func(s db.Scanner) error {
		var sum models.AttendanceSummary
		if err := s.Scan(&sum.ClassID, &sum.ClassName, &sum.Sessions, &sum.Records,
			&sum.Present, &sum.Absent, &sum.Excused); err != nil {
			return err
		}
		if sum.Records > 0 {
			sum.Rate = float64(sum.Present) / float64(sum.Records)
		}
		summaries = append(summaries, &sum)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error summarizing attendance: %w", err)
	}
	return summaries, nil
}
