package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lecture-room-api/internal/models"
)

const lectureColumns = "id, department, level, group_name, subject_name, student_count, mode, day, time, created_at, updated_at"

// LectureRepository provides persistence for lectures.
type LectureRepository struct {
	db *sqlx.DB
}

// NewLectureRepository creates a new lecture repository.
func NewLectureRepository(db *sqlx.DB) *LectureRepository {
	return &LectureRepository{db: db}
}

// List returns lectures with optional filtering and pagination.
func (r *LectureRepository) List(ctx context.Context, filter models.LectureFilter) ([]models.Lecture, int, error) {
	base := "FROM lectures WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Level != "" {
		conditions = append(conditions, fmt.Sprintf("level = $%d", len(args)+1))
		args = append(args, filter.Level)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}
	if filter.Mode != "" {
		conditions = append(conditions, fmt.Sprintf("mode = $%d", len(args)+1))
		args = append(args, strings.ToUpper(filter.Mode))
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"department":    true,
		"day":           true,
		"student_count": true,
		"created_at":    true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", lectureColumns, base, sortBy, order, size, offset)
	var lectures []models.Lecture
	if err := r.db.SelectContext(ctx, &lectures, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list lectures: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count lectures: %w", err)
	}
	return lectures, total, nil
}

// ListAll returns every lecture in registration order.
func (r *LectureRepository) ListAll(ctx context.Context) ([]models.Lecture, error) {
	query := fmt.Sprintf("SELECT %s FROM lectures ORDER BY created_at ASC, id ASC", lectureColumns)
	var lectures []models.Lecture
	if err := r.db.SelectContext(ctx, &lectures, query); err != nil {
		return nil, fmt.Errorf("list all lectures: %w", err)
	}
	return lectures, nil
}

// FindByID returns a lecture by id.
func (r *LectureRepository) FindByID(ctx context.Context, id string) (*models.Lecture, error) {
	query := fmt.Sprintf("SELECT %s FROM lectures WHERE id = $1", lectureColumns)
	var lecture models.Lecture
	if err := r.db.GetContext(ctx, &lecture, query, id); err != nil {
		return nil, err
	}
	return &lecture, nil
}

// Create persists a new lecture.
func (r *LectureRepository) Create(ctx context.Context, lecture *models.Lecture) error {
	if lecture.ID == "" {
		lecture.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lecture.CreatedAt.IsZero() {
		lecture.CreatedAt = now
	}
	lecture.UpdatedAt = now

	const query = `INSERT INTO lectures (id, department, level, group_name, subject_name, student_count, mode, day, time, created_at, updated_at)
VALUES (:id, :department, :level, :group_name, :subject_name, :student_count, :mode, :day, :time, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lecture); err != nil {
		return fmt.Errorf("create lecture: %w", err)
	}
	return nil
}

// Update modifies a lecture.
func (r *LectureRepository) Update(ctx context.Context, lecture *models.Lecture) error {
	lecture.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lectures SET department = :department, level = :level, group_name = :group_name, subject_name = :subject_name,
student_count = :student_count, mode = :mode, day = :day, time = :time, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, lecture); err != nil {
		return fmt.Errorf("update lecture: %w", err)
	}
	return nil
}

// Delete removes a lecture.
func (r *LectureRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM lectures WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete lecture: %w", err)
	}
	return nil
}
