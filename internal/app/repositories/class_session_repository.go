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

var sessionColumns = []string{
	"s.id", "s.class_id", "s.teacher_id", "s.classroom_id", "s.session_date",
	"s.start_time", "s.end_time", "s.topic", "s.status", "s.notes",
	"c.name", "COALESCE(u.full_name, '')", "COALESCE(r.name, '')",
}

// ClassSessionRepository handles scheduled class sessions
type ClassSessionRepository struct {
	db *db.Provider
}

// NewClassSessionRepository creates a new ClassSessionRepository
func NewClassSessionRepository(provider *db.Provider) *ClassSessionRepository {
	return &ClassSessionRepository{db: provider}
}

func scanSession(s db.Scanner) (*models.ClassSession, error) {
	var (
		cs                   models.ClassSession
		teacherID, classroom sql.NullString
		topic, notes         sql.NullString
		status               string
	)
	if err := s.Scan(&cs.ID, &cs.ClassID, &teacherID, &classroom, &cs.Date,
		&cs.StartTime, &cs.EndTime, &topic, &status, &notes,
		&cs.ClassName, &cs.TeacherName, &cs.RoomName); err != nil {
		return nil, err
	}
	cs.TeacherID = helpers.StringPtr(teacherID)
	cs.ClassroomID = helpers.StringPtr(classroom)
	cs.Topic = helpers.StringPtr(topic)
	cs.Notes = helpers.StringPtr(notes)
	cs.Status = models.SessionStatus(status)
	return &cs, nil
}

func (r *ClassSessionRepository) selectSessions() squirrel.SelectBuilder {
	return r.db.Builder().Select(sessionColumns...).
		From("class_sessions s").
		Join("classes c ON c.id = s.class_id").
		LeftJoin("users u ON u.id = s.teacher_id").
		LeftJoin("classrooms r ON r.id = s.classroom_id")
}

func (r *ClassSessionRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.ClassSession, error) {
	var sessions []*models.ClassSession
	err := r.db.QueryAll(ctx, q.OrderBy("s.session_date", "s.start_time"), func(s db.Scanner) error {
		cs, err := scanSession(s)
		if err != nil {
			return err
		}
		sessions = append(sessions, cs)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	return sessions, nil
}

func dateRange(q squirrel.SelectBuilder, column string, from, to *time.Time) squirrel.SelectBuilder {
	if from != nil {
		q = q.Where(squirrel.GtOrEq{column: helpers.TruncateDay(*from)})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{column: helpers.TruncateDay(*to)})
	}
	return q
}

// GetByID retrieves a session by ID
func (r *ClassSessionRepository) GetByID(ctx context.Context, id string) (*models.ClassSession, error) {
	var session *models.ClassSession
	err := r.db.QueryOne(ctx, r.selectSessions().Where(squirrel.Eq{"s.id": id}),
		func(s db.Scanner) (err error) {
			session, err = scanSession(s)
			return err
		})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving session: %w", err)
	}
	return session, nil
}

// GetByClassID retrieves all sessions of a class
func (r *ClassSessionRepository) GetByClassID(ctx context.Context, classID string) ([]*models.ClassSession, error) {
	return r.list(ctx, r.selectSessions().Where(squirrel.Eq{"s.class_id": classID}))
}

// GetByDateRange retrieves sessions held in [from, to]
func (r *ClassSessionRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]*models.ClassSession, error) {
	return r.list(ctx, dateRange(r.selectSessions(), "s.session_date", &from, &to))
}

// GetByTeacherAndRange retrieves a teacher's sessions held in [from, to]
func (r *ClassSessionRepository) GetByTeacherAndRange(ctx context.Context, teacherID string, from, to time.Time) ([]*models.ClassSession, error) {
	return r.list(ctx, dateRange(r.selectSessions().Where(squirrel.Eq{"s.teacher_id": teacherID}),
		"s.session_date", &from, &to))
}

// Search finds sessions whose topic, class, teacher or room contains keyword,
// optionally bounded by date.
func (r *ClassSessionRepository) Search(ctx context.Context, keyword string, from, to *time.Time) ([]*models.ClassSession, error) {
	q := dateRange(r.selectSessions(), "s.session_date", from, to)
	if keyword != "" {
		pattern := helpers.LikePattern(keyword)
		q = q.Where(squirrel.Or{
			squirrel.Like{"LOWER(s.topic)": pattern},
			squirrel.Like{"LOWER(c.name)": pattern},
			squirrel.Like{"LOWER(u.full_name)": pattern},
			squirrel.Like{"LOWER(r.name)": pattern},
		})
	}
	return r.list(ctx, q)
}

func (r *ClassSessionRepository) insertQuery(cs *models.ClassSession) squirrel.InsertBuilder {
	if cs.ID == "" {
		cs.ID = uuid.NewString()
	}
	if cs.Status == "" {
		cs.Status = models.SessionScheduled
	}
	return r.db.Builder().Insert("class_sessions").
		Columns("id", "class_id", "teacher_id", "classroom_id", "session_date",
			"start_time", "end_time", "topic", "status", "notes").
		Values(cs.ID, cs.ClassID, helpers.GetNullString(cs.TeacherID), helpers.GetNullString(cs.ClassroomID),
			helpers.TruncateDay(cs.Date), cs.StartTime, cs.EndTime, helpers.GetNullString(cs.Topic),
			string(cs.Status), helpers.GetNullString(cs.Notes))
}

// Insert stores a new session and assigns its ID
func (r *ClassSessionRepository) Insert(ctx context.Context, cs *models.ClassSession) error {
	if _, err := r.db.Exec(ctx, r.insertQuery(cs)); err != nil {
		logger.Error().Err(err).Str("classID", cs.ClassID).Msg("Error executing insert session query")
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// InsertTx stores a new session inside tx
func (r *ClassSessionRepository) InsertTx(ctx context.Context, tx *sql.Tx, cs *models.ClassSession) error {
	if _, err := db.ExecTx(ctx, tx, r.insertQuery(cs)); err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// Update changes a session
func (r *ClassSessionRepository) Update(ctx context.Context, cs *models.ClassSession) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Update("class_sessions").
		Set("class_id", cs.ClassID).
		Set("teacher_id", helpers.GetNullString(cs.TeacherID)).
		Set("classroom_id", helpers.GetNullString(cs.ClassroomID)).
		Set("session_date", helpers.TruncateDay(cs.Date)).
		Set("start_time", cs.StartTime).
		Set("end_time", cs.EndTime).
		Set("topic", helpers.GetNullString(cs.Topic)).
		Set("status", string(cs.Status)).
		Set("notes", helpers.GetNullString(cs.Notes)).
		Where(squirrel.Eq{"id": cs.ID}))
	if err != nil {
		return fmt.Errorf("error updating session: %w", err)
	}
	if n == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// UpdateStatus moves a session to status
func (r *ClassSessionRepository) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Update("class_sessions").
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error updating session status: %w", err)
	}
	if n == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// Delete removes a session with its attendance
func (r *ClassSessionRepository) Delete(ctx context.Context, id string) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Delete("class_sessions").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	if n == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// HasRoomConflict reports whether another live session occupies roomID during
// [start, end) on date. excludeID skips the session being edited.
func (r *ClassSessionRepository) HasRoomConflict(ctx context.Context, roomID string, date time.Time, start, end, excludeID string) (bool, error) {
	q := r.db.Builder().Select("1").From("class_sessions").
		Where(squirrel.Eq{"classroom_id": roomID, "session_date": helpers.TruncateDay(date)}).
		Where(squirrel.NotEq{"status": string(models.SessionCancelled)}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start})
	if excludeID != "" {
		q = q.Where(squirrel.NotEq{"id": excludeID})
	}
	found, err := r.db.Exists(ctx, q)
	if err != nil {
		return false, fmt.Errorf("error checking room conflict: %w", err)
	}
	return found, nil
}
