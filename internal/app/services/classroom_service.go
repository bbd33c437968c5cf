package services

import (
	"context"
	"strings"

	"github.com/edumanage/educenter/internal/app/models"
	"github.com/edumanage/educenter/internal/app/models/dto"
	"github.com/edumanage/educenter/internal/app/repositories"
	"github.com/edumanage/educenter/internal/pkg/apperrors"
	"github.com/edumanage/educenter/internal/pkg/validation"
)

// ClassroomService handles rooms and their availability
type ClassroomService struct {
	roomRepo *repositories.ClassroomRepository
}

// NewClassroomService creates a new ClassroomService
func NewClassroomService(roomRepo *repositories.ClassroomRepository) *ClassroomService {
	return &ClassroomService{roomRepo: roomRepo}
}

// GetByID returns a classroom
func (s *ClassroomService) GetByID(ctx context.Context, id string) (*models.Classroom, error) {
	return s.roomRepo.GetByID(ctx, id)
}

// GetAll lists classrooms, narrowed by keyword when given
func (s *ClassroomService) GetAll(ctx context.Context, keyword string) ([]*models.Classroom, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.roomRepo.GetAll(ctx)
	}
	return s.roomRepo.Search(ctx, keyword)
}

// GetAvailable lists rooms free for the whole requested slot
func (s *ClassroomService) GetAvailable(ctx context.Context, q *dto.AvailableRoomsQuery) ([]*models.Classroom, error) {
	if err := validation.Struct(q); err != nil {
		return nil, err
	}
	if err := checkClockRange(q.StartTime, q.EndTime); err != nil {
		return nil, err
	}
	date, err := parseDate(q.Date)
	if err != nil {
		return nil, err
	}
	return s.roomRepo.GetAvailable(ctx, date, q.StartTime, q.EndTime)
}

func (s *ClassroomService) apply(ctx context.Context, room *models.Classroom, req *dto.ClassroomRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	taken, err := s.roomRepo.IsNameExists(ctx, name, room.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.ErrClassroomExists
	}

	room.Name = name
	room.Capacity = req.Capacity
	room.Location = req.Location
	room.Equipment = req.Equipment
	if req.Status != "" {
		room.Status = req.Status
	}
	return nil
}

// Create adds a classroom
func (s *ClassroomService) Create(ctx context.Context, req *dto.ClassroomRequest) (*models.Classroom, error) {
	room := &models.Classroom{Status: models.StatusAvailable}
	if err := s.apply(ctx, room, req); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Insert(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Update changes a classroom
func (s *ClassroomService) Update(ctx context.Context, id string, req *dto.ClassroomRequest) (*models.Classroom, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, room, req); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Delete removes a classroom
func (s *ClassroomService) Delete(ctx context.Context, id string) error {
	return s.roomRepo.Delete(ctx, id)
}
