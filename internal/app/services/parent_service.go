package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/pkg/validation"
)

// ParentService handles parent contacts
type ParentService struct {
	parentRepo *repositories.ParentRepository
}

// NewParentService creates a new ParentService
func NewParentService(parentRepo *repositories.ParentRepository) *ParentService {
	return &ParentService{parentRepo: parentRepo}
}

// GetByID returns a parent
func (s *ParentService) GetByID(ctx context.Context, id string) (*models.Parent, error) {
	return s.parentRepo.GetByID(ctx, id)
}

// GetByStudent returns the parent of a student
func (s *ParentService) GetByStudent(ctx context.Context, studentID string) (*models.Parent, error) {
	return s.parentRepo.GetByStudentID(ctx, studentID)
}

// GetAll lists parents
func (s *ParentService) GetAll(ctx context.Context) ([]*models.Parent, error) {
	return s.parentRepo.GetAll(ctx)
}

func applyParent(parent *models.Parent, req *dto.ParentRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	parent.FullName = strings.TrimSpace(req.FullName)
	parent.Phone = req.Phone
	parent.Email = req.Email
	parent.Relationship = req.Relationship
	parent.Address = req.Address
	return nil
}

// Create adds a parent
func (s *ParentService) Create(ctx context.Context, req *dto.ParentRequest) (*models.Parent, error) {
	parent := &models.Parent{}
	if err := applyParent(parent, req); err != nil {
		return nil, err
	}
	if err := s.parentRepo.Insert(ctx, parent); err != nil {
		return nil, fmt.Errorf("error creating parent: %w", err)
	}
	return parent, nil
}

// Update changes a parent
func (s *ParentService) Update(ctx context.Context, id string, req *dto.ParentRequest) (*models.Parent, error) {
	parent, err := s.parentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyParent(parent, req); err != nil {
		return nil, err
	}
	if err := s.parentRepo.Update(ctx, parent); err != nil {
		return nil, err
	}
	return parent, nil
}

// Delete removes a parent
func (s *ParentService) Delete(ctx context.Context, id string) error {
	return s.parentRepo.Delete(ctx, id)
}
