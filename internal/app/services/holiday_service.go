package services

import (
	"context"
	"strings"
	"time"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/pkg/validation"
)

// HolidayService handles days off
type HolidayService struct {
	holidayRepo *repositories.HolidayRepository
}

// NewHolidayService creates a new HolidayService
func NewHolidayService(holidayRepo *repositories.HolidayRepository) *HolidayService {
	return &HolidayService{holidayRepo: holidayRepo}
}

// GetByID returns a holiday
func (s *HolidayService) GetByID(ctx context.Context, id string) (*models.Holiday, error) {
	return s.holidayRepo.GetByID(ctx, id)
}

// GetAll lists holidays, or those overlapping a period when one is given
func (s *HolidayService) GetAll(ctx context.Context, from, to string) ([]*models.Holiday, error) {
	if from == "" || to == "" {
		return s.holidayRepo.GetAll(ctx)
	}
	start, end, err := parsePeriod(from, to)
	if err != nil {
		return nil, err
	}
	return s.holidayRepo.GetInRange(ctx, start, end)
}

// IsHoliday reports whether date is a day off
func (s *HolidayService) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	return s.holidayRepo.IsHoliday(ctx, date)
}

func applyHoliday(h *models.Holiday, req *dto.HolidayRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	start, end, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}
	h.Name = strings.TrimSpace(req.Name)
	h.StartDate = start
	h.EndDate = end
	h.Description = req.Description
	return nil
}

// Create adds a holiday
func (s *HolidayService) Create(ctx context.Context, req *dto.HolidayRequest) (*models.Holiday, error) {
	h := &models.Holiday{}
	if err := applyHoliday(h, req); err != nil {
		return nil, err
	}
	if err := s.holidayRepo.Insert(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// Update changes a holiday
func (s *HolidayService) Update(ctx context.Context, id string, req *dto.HolidayRequest) (*models.Holiday, error) {
	h, err := s.holidayRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyHoliday(h, req); err != nil {
		return nil, err
	}
	if err := s.holidayRepo.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// Delete removes a holiday
func (s *HolidayService) Delete(ctx context.Context, id string) error {
	return s.holidayRepo.Delete(ctx, id)
}
