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
)

var holidayColumns = []string{"id", "name", "start_date", "end_date", "description"}

// HolidayRepository handles database operations for holidays
type HolidayRepository struct {
	db *db.Provider
}

// NewHolidayRepository creates a new HolidayRepository
func NewHolidayRepository(provider *db.Provider) *HolidayRepository {
	return &HolidayRepository{db: provider}
}

func scanHoliday(s db.Scanner) (*models.Holiday, error) {
	var (
		h    models.Holiday
		desc sql.NullString
	)
	if err := s.Scan(&h.ID, &h.Name, &h.StartDate, &h.EndDate, &desc); err != nil {
		return nil, err
	}
	h.Description = helpers.StringPtr(desc)
	return &h, nil
}

func (r *HolidayRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Holiday, error) {
	var holidays []*models.Holiday
	err := r.db.QueryAll(ctx, q.OrderBy("start_date"), func(s db.Scanner) error {
		h, err := scanHoliday(s)
		if err != nil {
			return err
		}
		holidays = append(holidays, h)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error listing holidays: %w", err)
	}
	return holidays, nil
}

// GetByID retrieves a holiday by ID
func (r *HolidayRepository) GetByID(ctx context.Context, id string) (*models.Holiday, error) {
	var holiday *models.Holiday
	err := r.db.QueryOne(ctx, r.db.Builder().Select(holidayColumns...).From("holidays").
		Where(squirrel.Eq{"id": id}),
		func(s db.Scanner) (err error) {
			holiday, err = scanHoliday(s)
			return err
		})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrHolidayNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving holiday: %w", err)
	}
	return holiday, nil
}

// GetAll retrieves all holidays
func (r *HolidayRepository) GetAll(ctx context.Context) ([]*models.Holiday, error) {
	return r.list(ctx, r.db.Builder().Select(holidayColumns...).From("holidays"))
}

// GetInRange retrieves holidays overlapping [from, to]
func (r *HolidayRepository) GetInRange(ctx context.Context, from, to time.Time) ([]*models.Holiday, error) {
	return r.list(ctx, r.db.Builder().Select(holidayColumns...).From("holidays").
		Where(squirrel.LtOrEq{"start_date": helpers.TruncateDay(to)}).
		Where(squirrel.GtOrEq{"end_date": helpers.TruncateDay(from)}))
}

// IsHoliday reports whether date falls in any holiday
func (r *HolidayRepository) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	day := helpers.TruncateDay(date)
	found, err := r.db.Exists(ctx, r.db.Builder().Select("1").From("holidays").
		Where(squirrel.LtOrEq{"start_date": day}).
		Where(squirrel.GtOrEq{"end_date": day}))
	if err != nil {
		return false, fmt.Errorf("error checking holiday: %w", err)
	}
	return found, nil
}

// Insert stores a new holiday and assigns its ID
func (r *HolidayRepository) Insert(ctx context.Context, h *models.Holiday) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, r.db.Builder().Insert("holidays").
		Columns(holidayColumns...).
		Values(h.ID, h.Name, h.StartDate, h.EndDate, helpers.GetNullString(h.Description)))
	if err != nil {
		return fmt.Errorf("error creating holiday: %w", err)
	}
	return nil
}

// Update changes a holiday
func (r *HolidayRepository) Update(ctx context.Context, h *models.Holiday) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Update("holidays").
		Set("name", h.Name).
		Set("start_date", h.StartDate).
		Set("end_date", h.EndDate).
		Set("description", helpers.GetNullString(h.Description)).
		Where(squirrel.Eq{"id": h.ID}))
	if err != nil {
		return fmt.Errorf("error updating holiday: %w", err)
	}
	if n == 0 {
		return apperrors.ErrHolidayNotFound
	}
	return nil
}

// Delete removes a holiday
func (r *HolidayRepository) Delete(ctx context.Context, id string) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Delete("holidays").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting holiday: %w", err)
	}
	if n == 0 {
		return apperrors.ErrHolidayNotFound
	}
	return nil
}
