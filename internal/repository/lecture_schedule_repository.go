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

const scheduleColumns = "id, run_id, lecture_id, department, level, subject_name, group_name, time, mode, room_name, day, created_at"

// LectureScheduleRepository stores the room bookings produced by scheduling runs.
type LectureScheduleRepository struct {
	db *sqlx.DB
}

// NewLectureScheduleRepository builds repository.
func NewLectureScheduleRepository(db *sqlx.DB) *LectureScheduleRepository {
	return &LectureScheduleRepository{db: db}
}

func (r *LectureScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// DeleteAll clears every stored booking.
func (r *LectureScheduleRepository) DeleteAll(ctx context.Context, exec sqlx.ExtContext) (int64, error) {
	res, err := r.exec(exec).ExecContext(ctx, `DELETE FROM lecture_schedule`)
	if err != nil {
		return 0, fmt.Errorf("clear lecture schedule: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear lecture schedule: %w", err)
	}
	return affected, nil
}

// InsertBatch stores bookings. The (room_name, day, time) unique key rejects
// double-bookings at the database level as well.
func (r *LectureScheduleRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, entries []models.LectureScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()

	const query = `
INSERT INTO lecture_schedule (id, run_id, lecture_id, department, level, subject_name, group_name, time, mode, room_name, day, created_at)
VALUES (:id, :run_id, :lecture_id, :department, :level, :subject_name, :group_name, :time, :mode, :room_name, :day, :created_at)`

	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, entry); err != nil {
			return fmt.Errorf("insert lecture schedule entry: %w", err)
		}
	}
	return nil
}

// List returns bookings matching the filter ordered by room, day and time.
func (r *LectureScheduleRepository) List(ctx context.Context, filter models.LectureScheduleFilter) ([]models.LectureScheduleEntry, int, error) {
	base := "FROM lecture_schedule WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.RoomName != "" {
		conditions = append(conditions, fmt.Sprintf("room_name = $%d", len(args)+1))
		args = append(args, filter.RoomName)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY room_name ASC, day ASC, time ASC LIMIT %d OFFSET %d", scheduleColumns, base, size, offset)
	var entries []models.LectureScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list lecture schedule: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) %s", base), args...); err != nil {
		return nil, 0, fmt.Errorf("count lecture schedule: %w", err)
	}
	return entries, total, nil
}

// ListAll returns every booking ordered by room, day and time.
func (r *LectureScheduleRepository) ListAll(ctx context.Context) ([]models.LectureScheduleEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM lecture_schedule ORDER BY room_name ASC, day ASC, time ASC", scheduleColumns)
	var entries []models.LectureScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list all lecture schedule: %w", err)
	}
	return entries, nil
}

// CountByRoom returns how many bookings reference the room name.
func (r *LectureScheduleRepository) CountByRoom(ctx context.Context, roomName string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM lecture_schedule WHERE room_name = $1`, roomName); err != nil {
		return 0, fmt.Errorf("count lecture schedule by room: %w", err)
	}
	return count, nil
}
