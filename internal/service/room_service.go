package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lecture-room-api/internal/dto"
	"github.com/noah-isme/lecture-room-api/internal/models"
	appErrors "github.com/noah-isme/lecture-room-api/pkg/errors"
)

type roomRepository interface {
	List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id string) error
}

type roomBookingCounter interface {
	CountByRoom(ctx context.Context, roomName string) (int, error)
}

// RoomService manages the room catalog.
type RoomService struct {
	repo      roomRepository
	bookings  roomBookingCounter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService creates a new room service.
func NewRoomService(repo roomRepository, bookings roomBookingCounter, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{repo: repo, bookings: bookings, validator: validate, logger: logger}
}

// List returns paginated rooms.
func (s *RoomService) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, *models.Pagination, error) {
	rooms, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, paginationFor(filter.Page, filter.PageSize, 20, total), nil
}

// Get returns a room by identifier.
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}

// Create registers a room. Names are unique regardless of case.
func (s *RoomService) Create(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error) {
	req.RoomName = strings.TrimSpace(req.RoomName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}

	if err := s.ensureUniqueName(ctx, req.RoomName, ""); err != nil {
		return nil, err
	}

	room := &models.Room{Name: req.RoomName, Capacity: req.Capacity}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	s.logger.Info("room created", zap.String("room", room.Name), zap.Int("capacity", room.Capacity))
	return room, nil
}

// Update changes a room. A room that holds bookings cannot be renamed.
func (s *RoomService) Update(ctx context.Context, id string, req dto.UpdateRoomRequest) (*models.Room, error) {
	req.RoomName = strings.TrimSpace(req.RoomName)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}

	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUniqueName(ctx, req.RoomName, id); err != nil {
		return nil, err
	}

	if room.Name != req.RoomName {
		booked, err := s.bookedCount(ctx, room.Name)
		if err != nil {
			return nil, err
		}
		if booked > 0 {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "room has scheduled lectures")
		}
	}

	room.Name = req.RoomName
	room.Capacity = req.Capacity
	if err := s.repo.Update(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update room")
	}
	return room, nil
}

// Delete removes a room when no stored booking references it.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	room, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	booked, err := s.bookedCount(ctx, room.Name)
	if err != nil {
		return err
	}
	if booked > 0 {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "room has scheduled lectures")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete room")
	}
	return nil
}

func (s *RoomService) ensureUniqueName(ctx context.Context, name, excludeID string) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room name")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "room name already exists")
	}
	return nil
}

func (s *RoomService) bookedCount(ctx context.Context, roomName string) (int, error) {
	if s.bookings == nil {
		return 0, nil
	}
	count, err := s.bookings.CountByRoom(ctx, roomName)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room bookings")
	}
	return count, nil
}

func paginationFor(page, size, defaultSize, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultSize
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
