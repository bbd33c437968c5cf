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

var parentColumns = []string{
	"p.id", "p.full_name", "p.phone", "p.email", "p.relationship", "p.address", "p.created_at",
}

// ParentRepository handles database operations for parents
type ParentRepository struct {
	db *db.Provider
}

// NewParentRepository creates a new ParentRepository
func NewParentRepository(provider *db.Provider) *ParentRepository {
	return &ParentRepository{db: provider}
}

func scanParent(s db.Scanner) (*models.Parent, error) {
	var (
		p              models.Parent
		email, address sql.NullString
	)
	if err := s.Scan(&p.ID, &p.FullName, &p.Phone, &email, &p.Relationship, &address, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Email = helpers.StringPtr(email)
	p.Address = helpers.StringPtr(address)
	return &p, nil
}

func (r *ParentRepository) getOne(ctx context.Context, q squirrel.SelectBuilder) (*models.Parent, error) {
	var parent *models.Parent
	err := r.db.QueryOne(ctx, q, func(s db.Scanner) (err error) {
		parent, err = scanParent(s)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrParentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving parent: %w", err)
	}
	return parent, nil
}

// GetByID retrieves a parent by ID
func (r *ParentRepository) GetByID(ctx context.Context, id string) (*models.Parent, error) {
	return r.getOne(ctx, r.db.Builder().Select(parentColumns...).From("parents p").
		Where(squirrel.Eq{"p.id": id}))
}

// GetByStudentID retrieves the parent linked to a student
func (r *ParentRepository) GetByStudentID(ctx context.Context, studentID string) (*models.Parent, error) {
	return r.getOne(ctx, r.db.Builder().Select(parentColumns...).From("parents p").
		Join("students s ON s.parent_id = p.id").
		Where(squirrel.Eq{"s.id": studentID}))
}

// GetAll retrieves all parents
func (r *ParentRepository) GetAll(ctx context.Context) ([]*models.Parent, error) {
	var parents []*models.Parent
	err := r.db.QueryAll(ctx, r.db.Builder().Select(parentColumns...).From("parents p").OrderBy("p.full_name"),
		func(s db.Scanner) error {
			p, err := scanParent(s)
			if err != nil {
				return err
			}
			parents = append(parents, p)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("error listing parents: %w", err)
	}
	return parents, nil
}

// Insert stores a new parent and assigns its ID
func (r *ParentRepository) Insert(ctx context.Context, parent *models.Parent) error {
	if parent.ID == "" {
		parent.ID = uuid.NewString()
	}
	if parent.CreatedAt.IsZero() {
		parent.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(ctx, r.db.Builder().Insert("parents").
		Columns("id", "full_name", "phone", "email", "relationship", "address", "created_at").
		Values(parent.ID, parent.FullName, parent.Phone, helpers.GetNullString(parent.Email),
			parent.Relationship, helpers.GetNullString(parent.Address), parent.CreatedAt))
	if err != nil {
		return fmt.Errorf("error creating parent: %w", err)
	}
	return nil
}

// Update changes a parent
func (r *ParentRepository) Update(ctx context.Context, parent *models.Parent) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Update("parents").
		Set("full_name", parent.FullName).
		Set("phone", parent.Phone).
		Set("email", helpers.GetNullString(parent.Email)).
		Set("relationship", parent.Relationship).
		Set("address", helpers.GetNullString(parent.Address)).
		Where(squirrel.Eq{"id": parent.ID}))
	if err != nil {
		return fmt.Errorf("error updating parent: %w", err)
	}
	if n == 0 {
		return apperrors.ErrParentNotFound
	}
	return nil
}

// Delete removes a parent. Linked students keep their record without a parent.
func (r *ParentRepository) Delete(ctx context.Context, id string) error {
	n, err := r.db.Exec(ctx, r.db.Builder().Delete("parents").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting parent: %w", err)
	}
	if n == 0 {
		return apperrors.ErrParentNotFound
	}
	return nil
}
