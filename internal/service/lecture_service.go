package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lecture-room-api/internal/dto"
	"github.com/noah-isme/lecture-room-api/internal/models"
	"github.com/noah-isme/lecture-room-api/internal/scheduler"
	appErrors "github.com/noah-isme/lecture-room-api/pkg/errors"
)

type lectureRepository interface {
	List(ctx context.Context, filter models.LectureFilter) ([]models.Lecture, int, error)
	FindByID(ctx context.Context, id string) (*models.Lecture, error)
	Create(ctx context.Context, lecture *models.Lecture) error
	Update(ctx context.Context, lecture *models.Lecture) error
	Delete(ctx context.Context, id string) error
}

// LectureService manages the lecture catalog fed into scheduling runs.
type LectureService struct {
	repo      lectureRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLectureService creates a new lecture service.
func NewLectureService(repo lectureRepository, validate *validator.Validate, logger *zap.Logger) *LectureService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LectureService{repo: repo, validator: validate, logger: logger}
}

// NormalizeTime validates a slot time and returns its canonical decimal form,
// so "09" and "9.0" land in the same slot as "9".
func NormalizeTime(raw string) (string, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInvalidTime.Code, appErrors.ErrInvalidTime.Status, appErrors.ErrInvalidTime.Message)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", appErrors.Wrap(fmt.Errorf("time %q is not finite", raw), appErrors.ErrInvalidTime.Code, appErrors.ErrInvalidTime.Status, appErrors.ErrInvalidTime.Message)
	}
	return strconv.FormatFloat(value, 'f', -1, 64), nil
}

// List returns paginated lectures.
func (s *LectureService) List(ctx context.Context, filter models.LectureFilter) ([]models.Lecture, *models.Pagination, error) {
	lectures, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lectures")
	}
	return lectures, paginationFor(filter.Page, filter.PageSize, 20, total), nil
}

// Get returns a lecture by id.
func (s *LectureService) Get(ctx context.Context, id string) (*models.Lecture, error) {
	lecture, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecture not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecture")
	}
	return lecture, nil
}

// Create registers a lecture.
func (s *LectureService) Create(ctx context.Context, req dto.CreateLectureRequest) (*models.Lecture, error) {
	lecture := &models.Lecture{}
	if err := s.apply(lecture, dto.UpdateLectureRequest(req)); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, lecture); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lecture")
	}
	s.logger.Info("lecture created",
		zap.String("lecture_id", lecture.ID),
		zap.String("day", lecture.Day),
		zap.String("time", lecture.Time),
	)
	return lecture, nil
}

// Update replaces a lecture's fields.
func (s *LectureService) Update(ctx context.Context, id string, req dto.UpdateLectureRequest) (*models.Lecture, error) {
	lecture, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(lecture, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, lecture); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lecture")
	}
	return lecture, nil
}

// Delete removes a lecture. Stored bookings keep their copy of the lecture data
// until the next run replaces them.
func (s *LectureService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lecture")
	}
	return nil
}

func (s *LectureService) apply(lecture *models.Lecture, req dto.UpdateLectureRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecture payload")
	}

	mode, err := scheduler.ParseMode(req.Mode)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "mode must be FTF or VCR")
	}
	slot, err := NormalizeTime(req.Time)
	if err != nil {
		return err
	}

	lecture.Department = strings.TrimSpace(req.Department)
	lecture.Level = strings.TrimSpace(req.Level)
	lecture.GroupName = strings.TrimSpace(req.GroupName)
	lecture.SubjectName = strings.TrimSpace(req.SubjectName)
	lecture.StudentCount = req.StudentCount
	lecture.Mode = models.LectureMode(mode)
	lecture.Day = strings.TrimSpace(req.Day)
	lecture.Time = slot
	return nil
}
