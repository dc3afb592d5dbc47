package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lecture-room-api/internal/models"
	appErrors "github.com/noah-isme/lecture-room-api/pkg/errors"
	"github.com/noah-isme/lecture-room-api/pkg/jobs"
)

type roomSourceStub struct {
	rooms []models.Room
	err   error
}

func (s roomSourceStub) ListAll(ctx context.Context) ([]models.Room, error) {
	return s.rooms, s.err
}

type lectureSourceStub struct {
	lectures []models.Lecture
	err      error
}

func (s lectureSourceStub) ListAll(ctx context.Context) ([]models.Lecture, error) {
	return s.lectures, s.err
}

type scheduleStoreStub struct {
	stored     []models.LectureScheduleEntry
	deleteCall int
	txExecs    int
	insertErr  error
}

func (s *scheduleStoreStub) DeleteAll(ctx context.Context, exec sqlx.ExtContext) (int64, error) {
	s.deleteCall++
	if exec != nil {
		s.txExecs++
	}
	deleted := int64(len(s.stored))
	s.stored = nil
	return deleted, nil
}

func (s *scheduleStoreStub) InsertBatch(ctx context.Context, exec sqlx.ExtContext, entries []models.LectureScheduleEntry) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	if exec != nil {
		s.txExecs++
	}
	s.stored = append(s.stored, entries...)
	return nil
}

func (s *scheduleStoreStub) List(ctx context.Context, filter models.LectureScheduleFilter) ([]models.LectureScheduleEntry, int, error) {
	return s.stored, len(s.stored), nil
}

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type txProviderMock struct {
	db *sqlx.DB
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlx.NewDb(db, "sqlmock")}, mock
}

type scheduleFixture struct {
	service *ScheduleService
	store   *scheduleStoreStub
	cache   *cacheRepoStub
	metrics *MetricsService
	mock    sqlmock.Sqlmock
}

func newScheduleFixture(t *testing.T, rooms roomSourceStub, lectures lectureSourceStub) *scheduleFixture {
	tx, mock := newTxProviderMock(t)
	store := &scheduleStoreStub{}
	repo := &cacheRepoStub{}
	metrics := NewMetricsService()
	results := NewCacheService(repo, metrics, time.Hour, nil, true)
	svc := NewScheduleService(rooms, lectures, store, tx, results, metrics, ScheduleServiceConfig{}, nil)
	return &scheduleFixture{service: svc, store: store, cache: repo, metrics: metrics, mock: mock}
}

func testLecture(id, day, slot string, students int, mode models.LectureMode) models.Lecture {
	return models.Lecture{
		ID:           id,
		Department:   "CS",
		Level:        "L1",
		GroupName:    "G-" + id,
		SubjectName:  "Subject " + id,
		StudentCount: students,
		Mode:         mode,
		Day:          day,
		Time:         slot,
	}
}

func TestScheduleServiceRunCompleted(t *testing.T) {
	f := newScheduleFixture(t,
		roomSourceStub{rooms: []models.Room{{Name: "A", Capacity: 10}, {Name: "B", Capacity: 20}, {Name: "C", Capacity: 30}}},
		lectureSourceStub{lectures: []models.Lecture{testLecture("l1", "Mon", "9", 16, models.LectureModeFTF)}},
	)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	run, err := f.service.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet())

	assert.Equal(t, models.ScheduleRunCompleted, run.Status)
	assert.Equal(t, "exhaustive", run.Strategy)
	assert.Equal(t, 3, run.RoomCount)
	assert.Equal(t, 1, run.AssignedCount)
	assert.Zero(t, run.UnassignedCount)
	require.Len(t, run.Assignments, 1)
	assert.Equal(t, "A", run.Assignments[0].RoomName)
	assert.Equal(t, run.ID, run.Assignments[0].RunID)
	assert.Equal(t, "l1", run.Assignments[0].LectureID)
	assert.NotNil(t, run.CompletedAt)

	assert.Equal(t, run.Assignments, f.store.stored)
	assert.Equal(t, 2, f.store.txExecs)
	assert.Contains(t, f.cache.values, RunCacheKey(run.ID))
	assert.Contains(t, f.cache.values, RunCacheKey(LastRunID))
	assert.Equal(t, time.Hour, f.cache.ttl)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.runsTotal.WithLabelValues(RunOutcomeCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.lecturesAssigned))
}

func TestScheduleServiceRunPartialReportsUnassigned(t *testing.T) {
	f := newScheduleFixture(t,
		roomSourceStub{rooms: []models.Room{{Name: "Small", Capacity: 5}}},
		lectureSourceStub{lectures: []models.Lecture{
			testLecture("first", "Mon", "9", 6, models.LectureModeFTF),
			testLecture("second", "Mon", "9", 6, models.LectureModeFTF),
			testLecture("later", "Mon", "10", 6, models.LectureModeFTF),
		}},
	)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	run, err := f.service.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.ScheduleRunPartial, run.Status)
	assert.Equal(t, 2, run.AssignedCount)
	assert.Equal(t, 1, run.UnassignedCount)
	require.Len(t, run.Unassigned, 1)
	assert.Equal(t, "second", run.Unassigned[0].ID)
	assert.Equal(t, 6, run.Unassigned[0].StudentCount)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.runsTotal.WithLabelValues(RunOutcomePartial)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.lecturesUnassigned))
}

func TestScheduleServiceRunSplitsAcrossRooms(t *testing.T) {
	f := newScheduleFixture(t,
		roomSourceStub{rooms: []models.Room{{Name: "R1", Capacity: 10}, {Name: "R2", Capacity: 10}}},
		lectureSourceStub{lectures: []models.Lecture{testLecture("big", "Tue", "11", 30, models.LectureModeFTF)}},
	)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	run, err := f.service.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.ScheduleRunCompleted, run.Status)
	assert.Equal(t, 1, run.AssignedCount)
	assert.Equal(t, 1, run.CombinationPlacements)
	require.Len(t, run.Assignments, 2)
	assert.Equal(t, "R1", run.Assignments[0].RoomName)
	assert.Equal(t, "R2", run.Assignments[1].RoomName)
	assert.Equal(t, run.Assignments[0].Time, run.Assignments[1].Time)
}

func TestScheduleServiceRunRollsBackOnStoreFailure(t *testing.T) {
	f := newScheduleFixture(t,
		roomSourceStub{rooms: []models.Room{{Name: "A", Capacity: 10}}},
		lectureSourceStub{lectures: []models.Lecture{testLecture("l1", "Mon", "9", 4, models.LectureModeVCR)}},
	)
	f.store.insertErr = errors.New("duplicate key")
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.Run(context.Background())
	requireAppError(t, err, appErrors.ErrInternal)
	require.NoError(t, f.mock.ExpectationsWereMet())

	last, err := f.service.GetRun(context.Background(), LastRunID)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleRunFailed, last.Status)
	assert.NotEmpty(t, last.Error)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.runsTotal.WithLabelValues(RunOutcomeFailed)))
}

func TestScheduleServiceRunFailsOnLoadError(t *testing.T) {
	f := newScheduleFixture(t, roomSourceStub{err: errors.New("db down")}, lectureSourceStub{})

	_, err := f.service.Run(context.Background())
	requireAppError(t, err, appErrors.ErrInternal)
	require.NoError(t, f.mock.ExpectationsWereMet())
	assert.Zero(t, f.store.deleteCall)
}

func TestScheduleServiceRunRejectsDuplicateCatalogNames(t *testing.T) {
	f := newScheduleFixture(t,
		roomSourceStub{rooms: []models.Room{{Name: "A", Capacity: 10}, {Name: "A", Capacity: 20}}},
		lectureSourceStub{},
	)

	_, err := f.service.Run(context.Background())
	requireAppError(t, err, appErrors.ErrInternal)
	assert.Zero(t, f.store.deleteCall)
}

func TestScheduleServiceRunAsync(t *testing.T) {
	f := newScheduleFixture(t,
		roomSourceStub{rooms: []models.Room{{Name: "A", Capacity: 10}}},
		lectureSourceStub{lectures: []models.Lecture{testLecture("l1", "Mon", "9", 4, models.LectureModeFTF)}},
	)

	_, err := f.service.RunAsync(context.Background())
	requireAppError(t, err, appErrors.ErrUnavailable)

	queue := &queueStub{}
	f.service.AttachQueue(queue)

	queued, err := f.service.RunAsync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleRunQueued, queued.Status)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, queued.ID, queue.jobs[0].ID)
	assert.Equal(t, ScheduleRunJobType, queue.jobs[0].Type)

	pending, err := f.service.GetRun(context.Background(), queued.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleRunQueued, pending.Status)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	require.NoError(t, f.service.HandleJob(context.Background(), queue.jobs[0]))

	done, err := f.service.GetRun(context.Background(), queued.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleRunCompleted, done.Status)
	assert.Equal(t, 1, done.AssignedCount)
}

func TestScheduleServiceRunAsyncQueueFull(t *testing.T) {
	f := newScheduleFixture(t, roomSourceStub{}, lectureSourceStub{})
	f.service.AttachQueue(&queueStub{err: errors.New("queue schedule-runs is full")})

	_, err := f.service.RunAsync(context.Background())
	requireAppError(t, err, appErrors.ErrUnavailable)
}

func TestScheduleServiceHandleJobRejectsUnknownType(t *testing.T) {
	f := newScheduleFixture(t, roomSourceStub{}, lectureSourceStub{})
	require.Error(t, f.service.HandleJob(context.Background(), jobs.Job{ID: "x", Type: "other"}))
}

func TestScheduleServiceGetRunWithoutCache(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	store := &scheduleStoreStub{}
	svc := NewScheduleService(
		roomSourceStub{rooms: []models.Room{{Name: "A", Capacity: 10}}},
		lectureSourceStub{},
		store, tx, nil, nil, ScheduleServiceConfig{}, nil,
	)

	_, err := svc.GetRun(context.Background(), "missing")
	requireAppError(t, err, appErrors.ErrNotFound)

	mock.ExpectBegin()
	mock.ExpectCommit()
	run, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleRunCompleted, run.Status)

	got, err := svc.GetRun(context.Background(), LastRunID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
}

func TestScheduleServiceListAndClear(t *testing.T) {
	f := newScheduleFixture(t, roomSourceStub{}, lectureSourceStub{})
	f.store.stored = []models.LectureScheduleEntry{{RoomName: "A"}, {RoomName: "B"}}

	entries, pagination, err := f.service.List(context.Background(), models.LectureScheduleFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 50, pagination.PageSize)

	deleted, err := f.service.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Empty(t, f.store.stored)
}
