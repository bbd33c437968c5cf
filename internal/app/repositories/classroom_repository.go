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
)

const constraintClassroomName = "uq_classrooms_name"

var classroomColumns = []string{"c.id", "c.name", "c.capacity", "c.location", "c.equipment", "c.status"}

// ClassroomRepository handles database operations for classrooms
type ClassroomRepository struct {
	db *db.Provider
}

// NewClassroomRepository creates a new ClassroomRepository
func NewClassroomRepository(provider *db.Provider) *ClassroomRepository {
	return &ClassroomRepository{db: provider}
}

func scanClassroom(s db.Scanner) (*models.Classroom, error) {
	var (
		c                   models.Classroom
		location, equipment sql.NullString
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Capacity, &location, &equipment, &c.Status); err != nil {
		return nil, err
	}
	c.Location = helpers.StringPtr(location)
	c.Equipment = helpers.StringPtr(equipment)
	return &c, nil
}

func (r *ClassroomRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Classroom, error) {
	var rooms []*models.Classroom
	err := r.db.QueryAll(ctx, q.OrderBy("c.name"), func(s db.Scanner) error {
		c, err := scanClassroom(s)
		if err != nil {
			return err
		}
		rooms = append(rooms, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing classrooms: %w", err)
	}
	return rooms, nil
}

func (r *ClassroomRepository) selectRooms() squirrel.SelectBuilder {
	return r.db.Builder().Select(classroomColumns...).From("classrooms c")
}

// GetByID retrieves a classroom by ID
func (r *ClassroomRepository) GetByID(ctx context.Context, id string) (*models.Classroom, error) {
	var room *models.Classroom
	err := r.db.QueryOne(ctx, r.selectRooms().Where(squirrel.Eq{"c.id": id}),
		func(s db.Scanner) (err error) {
			room, err = scanClassroom(s)
			return err
		})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrClassroomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving classroom: %w", err)
	}
	return room, nil
}

// GetAll retrieves all classrooms
func (r *ClassroomRepository) GetAll(ctx context.Context) ([]*models.Classroom, error) {
	return r.list(ctx, r.selectRooms())
}

// Search finds classrooms whose name, location or equipment contains keyword
func (r *ClassroomRepository) Search(ctx context.Context, keyword string) ([]*models.Classroom, error) {
	pattern := helpers.LikePattern(keyword)
	return r.list(ctx, r.selectRooms().Where(squirrel.Or{
		squirrel.Like{"LOWER(c.name)": pattern},
		squirrel.Like{"LOWER(c.location)": pattern},
		squirrel.Like{"LOWER(c.equipment)": pattern},
	}))
}

// GetAvailable lists usable classrooms without a live session overlapping
// [start, end) on date.
func (r *ClassroomRepository) GetAvailable(ctx context.Context, date time.Time, start, end string) ([]*models.Classroom, error) {
	return r.list(ctx, r.selectRooms().
		Where(squirrel.Eq{"c.status": models.StatusAvailable}).
		Where(`NOT EXISTS (SELECT 1 FROM class_sessions cs
			WHERE cs.classroom_id = c.id AND cs.session_date = ? AND cs.status <> ?
			AND cs.start_time < ? AND ? < cs.end_time)`,
			helpers.TruncateDay(date), string(models.SessionCancelled), end, start))
}

// IsNameExists checks if another classroom already uses name
func (r *ClassroomRepository) IsNameExists(ctx context.Context, name, excludeID string) (bool, error) {
	q := r.db.Builder().Select("1").From("classrooms").Where(squirrel.Eq{"name": name})
	if excludeID != "" {
		q = q.Where(squirrel.NotEq{"id": excludeID})
	}
	exists, err := r.db.Exists(ctx, q)
	if err != nil {
		return false, fmt.Errorf("error checking classroom name: %w", err)
	}
	return exists, nil
}

// Insert stores a new classroom and assigns its ID
func (r *ClassroomRepository) Insert(ctx context.Context, room *models.Classroom) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if room.Status == "" {
		room.Status = models.StatusAvailable
	}
	_, err := r.db.Exec(ctx, r.db.Builder().Insert("classrooms").
		Columns("id", "name", "capacity", "location", "equipment", "status").
		Values(room.ID, room.Name, room.Capacity, helpers.GetNullString(room.Location),
			helpers.GetNullString(room.Equipment), room.Status))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintClassroomName) {
			return apperrors.ErrClassroomExists
		}
		return fmt.Errorf("error creating classroom: %w", err)
	}
	return nil
}

// Update changes a classroom
func (r *ClassroomRepository) Update(ctx context.Context, room *models.Classroom) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Update("classrooms").
		Set("name", room.Name).
		Set("capacity", room.Capacity).
		Set("location", helpers.GetNullString(room.Location)).
		Set("equipment", helpers.GetNullString(room.Equipment)).
		Set("status", room.Status).
		Where(squirrel.Eq{"id": room.ID}))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, constraintClassroomName) {
			return apperrors.ErrClassroomExists
		}
		return fmt.Errorf("error updating classroom: %w", err)
	}
	if n == 0 {
		return apperrors.ErrClassroomNotFound
	}
	return nil
}

// Delete removes a classroom. Sessions booked in it lose their room.
func (r *ClassroomRepository) Delete(ctx context.Context, id string) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Delete("classrooms").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting classroom: %w", err)
	}
	if n == 0 {
		return apperrors.ErrClassroomNotFound
	}
	return nil
}
