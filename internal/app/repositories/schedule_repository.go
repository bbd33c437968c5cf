package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/db"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/helpers"
)

var scheduleColumns = []string{
	"id", "class_id", "day_of_week", "start_time", "end_time",
	"classroom_id", "teacher_id", "effective_from", "effective_to",
}

// ScheduleRepository handles weekly schedule slots
type ScheduleRepository struct {
	db *db.Provider
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(provider *db.Provider) *ScheduleRepository {
	return &ScheduleRepository{db: provider}
}

func scanSchedule(s db.Scanner) (*models.Schedule, error) {
	var (
		sc                   models.Schedule
		classroom, teacherID sql.NullString
		effectiveTo          sql.NullTime
	)
	if err := s.Scan(&sc.ID, &sc.ClassID, &sc.DayOfWeek, &sc.StartTime, &sc.EndTime,
		&classroom, &teacherID, &sc.EffectiveFrom, &effectiveTo); err != nil {
		return nil, err
	}
	sc.ClassroomID = helpers.StringPtr(classroom)
	sc.TeacherID = helpers.StringPtr(teacherID)
	sc.EffectiveTo = helpers.TimePtr(effectiveTo)
	return &sc, nil
}

func (r *ScheduleRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Schedule, error) {
	q := r.db.Builder().Select(scheduleColumns...).From("schedules").OrderBy("day_of_week", "start_time")
	if where != nil {
		q = q.Where(where)
	}

	var schedules []*models.Schedule
	err := r.db.QueryAll(ctx, q, func(s db.Scanner) error {
		sc, err := scanSchedule(s)
		if err != nil {
			return err
		}
		schedules = append(schedules, sc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing schedules: %w", err)
	}
	return schedules, nil
}

// GetByID retrieves a schedule by ID
func (r *ScheduleRepository) GetByID(ctx context.Context, id string) (*models.Schedule, error) {
	var schedule *models.Schedule
	err := r.db.QueryOne(ctx, r.db.Builder().Select(scheduleColumns...).From("schedules").
		Where(squirrel.Eq{"id": id}),
		func(s db.Scanner) (err error) {
			schedule, err = scanSchedule(s)
			return err
		})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving schedule: %w", err)
	}
	return schedule, nil
}

// GetAll retrieves every schedule
func (r *ScheduleRepository) GetAll(ctx context.Context) ([]*models.Schedule, error) {
	return r.list(ctx, nil)
}

// GetByClassID retrieves the weekly slots of a class
func (r *ScheduleRepository) GetByClassID(ctx context.Context, classID string) ([]*models.Schedule, error) {
	return r.list(ctx, squirrel.Eq{"class_id": classID})
}

// GetByDayOfWeek retrieves the slots on a weekday (1 = Monday)
func (r *ScheduleRepository) GetByDayOfWeek(ctx context.Context, day int) ([]*models.Schedule, error) {
	return r.list(ctx, squirrel.Eq{"day_of_week": day})
}

// Insert stores a new schedule and assigns its ID
func (r *ScheduleRepository) Insert(ctx context.Context, sc *models.Schedule) error {
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, r.db.Builder().Insert("schedules").
		Columns(scheduleColumns...).
		Values(sc.ID, sc.ClassID, sc.DayOfWeek, sc.StartTime, sc.EndTime,
			helpers.GetNullString(sc.ClassroomID), helpers.GetNullString(sc.TeacherID),
			helpers.TruncateDay(sc.EffectiveFrom), helpers.GetNullTime(sc.EffectiveTo)))
	if err != nil {
		return fmt.Errorf("error creating schedule: %w", err)
	}
	return nil
}

// Update changes a schedule
func (r *ScheduleRepository) Update(ctx context.Context, sc *models.Schedule) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Update("schedules").
		Set("class_id", sc.ClassID).
		Set("day_of_week", sc.DayOfWeek).
		Set("start_time", sc.StartTime).
		Set("end_time", sc.EndTime).
		Set("classroom_id", helpers.GetNullString(sc.ClassroomID)).
		Set("teacher_id", helpers.GetNullString(sc.TeacherID)).
		Set("effective_from", helpers.TruncateDay(sc.EffectiveFrom)).
		Set("effective_to", helpers.GetNullTime(sc.EffectiveTo)).
		Where(squirrel.Eq{"id": sc.ID}))
	if err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}
	if n == 0 {
		return apperrors.ErrScheduleNotFound
	}
	return nil
}

// Delete removes a schedule. Sessions already generated from it stay.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Delete("schedules").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting schedule: %w", err)
	}
	if n == 0 {
		return apperrors.ErrScheduleNotFound
	}
	return nil
}
