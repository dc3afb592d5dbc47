package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/lecture-room-api/internal/models"
	"github.com/noah-isme/lecture-room-api/internal/scheduler"
	appErrors "github.com/noah-isme/lecture-room-api/pkg/errors"
	"github.com/noah-isme/lecture-room-api/pkg/jobs"
)

// ScheduleRunJobType tags queued scheduling runs.
const ScheduleRunJobType = "schedule.run"

// LastRunID addresses the most recent run in GetRun.
const LastRunID = "last"

const recentRunLimit = 64

type scheduleRoomSource interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type scheduleLectureSource interface {
	ListAll(ctx context.Context) ([]models.Lecture, error)
}

type lectureScheduleStore interface {
	DeleteAll(ctx context.Context, exec sqlx.ExtContext) (int64, error)
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, entries []models.LectureScheduleEntry) error
	List(ctx context.Context, filter models.LectureScheduleFilter) ([]models.LectureScheduleEntry, int, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type runCache interface {
	LoadRun(ctx context.Context, id string) (*models.ScheduleRun, bool, error)
	SaveRun(ctx context.Context, run *models.ScheduleRun) error
}

type runQueue interface {
	Enqueue(job jobs.Job) error
}

// ScheduleServiceConfig tunes the engine and run bookkeeping.
type ScheduleServiceConfig struct {
	Strategy           scheduler.CombinationStrategy
	MaxExhaustiveRooms int
}

// ScheduleService runs the room-assignment engine over the stored catalog and
// replaces the persisted schedule with the result. Runs never overlap.
type ScheduleService struct {
	rooms    scheduleRoomSource
	lectures scheduleLectureSource
	store    lectureScheduleStore
	tx       txProvider
	cache    runCache
	queue    runQueue
	metrics  *MetricsService
	engine   *scheduler.Engine
	cfg      ScheduleServiceConfig
	logger   *zap.Logger
	now      func() time.Time

	runMu sync.Mutex

	recentMu sync.Mutex
	recent   map[string]models.ScheduleRun
	order    []string
	lastID   string
}

// NewScheduleService wires the scheduling workflow. cache, queue and metrics may be nil.
func NewScheduleService(
	rooms scheduleRoomSource,
	lectures scheduleLectureSource,
	store lectureScheduleStore,
	tx txProvider,
	resultCache runCache,
	metrics *MetricsService,
	cfg ScheduleServiceConfig,
	logger *zap.Logger,
) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Strategy == "" {
		cfg.Strategy = scheduler.CombinationExhaustive
	}
	engine := scheduler.New(
		scheduler.WithLogger(logger.Named("scheduler")),
		scheduler.WithCombinationStrategy(cfg.Strategy),
		scheduler.WithMaxExhaustiveRooms(cfg.MaxExhaustiveRooms),
	)
	return &ScheduleService{
		rooms:    rooms,
		lectures: lectures,
		store:    store,
		tx:       tx,
		cache:    resultCache,
		metrics:  metrics,
		engine:   engine,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		recent:   make(map[string]models.ScheduleRun),
	}
}

// AttachQueue enables RunAsync. The queue must dispatch ScheduleRunJobType jobs to HandleJob.
func (s *ScheduleService) AttachQueue(queue runQueue) {
	s.queue = queue
}

// Run executes a scheduling run synchronously.
func (s *ScheduleService) Run(ctx context.Context) (*models.ScheduleRun, error) {
	return s.execute(ctx, s.newRun())
}

// RunAsync queues a run and returns it in QUEUED state.
func (s *ScheduleService) RunAsync(ctx context.Context) (*models.ScheduleRun, error) {
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "asynchronous runs are disabled")
	}
	run := s.newRun()
	run.Status = models.ScheduleRunQueued

	job := jobs.Job{ID: run.ID, Type: ScheduleRunJobType, Enqueued: run.RequestedAt}
	if err := s.queue.Enqueue(job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "schedule queue unavailable")
	}
	s.remember(ctx, run)
	s.logger.Info("schedule run queued", zap.String("run_id", run.ID))
	return run, nil
}

// HandleJob executes a queued run; it is the jobs.Handler for ScheduleRunJobType.
func (s *ScheduleService) HandleJob(ctx context.Context, job jobs.Job) error {
	if job.Type != ScheduleRunJobType {
		return fmt.Errorf("unexpected job type %s", job.Type)
	}
	run := &models.ScheduleRun{
		ID:          job.ID,
		Status:      models.ScheduleRunQueued,
		Strategy:    string(s.cfg.Strategy),
		RequestedAt: job.Enqueued,
	}
	_, err := s.execute(ctx, run)
	return err
}

// GetRun returns a recorded run. LastRunID resolves to the most recent run.
func (s *ScheduleService) GetRun(ctx context.Context, id string) (*models.ScheduleRun, error) {
	if s.cache != nil {
		if cached, hit, err := s.cache.LoadRun(ctx, id); err == nil && hit {
			return cached, nil
		}
	}

	s.recentMu.Lock()
	defer s.recentMu.Unlock()
	if id == LastRunID {
		id = s.lastID
	}
	run, ok := s.recent[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule run not found")
	}
	return &run, nil
}

// List returns persisted bookings.
func (s *ScheduleService) List(ctx context.Context, filter models.LectureScheduleFilter) ([]models.LectureScheduleEntry, *models.Pagination, error) {
	entries, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule")
	}
	return entries, paginationFor(filter.Page, filter.PageSize, 50, total), nil
}

// Clear removes every persisted booking.
func (s *ScheduleService) Clear(ctx context.Context) (int64, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	deleted, err := s.store.DeleteAll(ctx, nil)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear schedule")
	}
	s.logger.Info("schedule cleared", zap.Int64("deleted", deleted))
	return deleted, nil
}

func (s *ScheduleService) newRun() *models.ScheduleRun {
	return &models.ScheduleRun{
		ID:          uuid.NewString(),
		Strategy:    string(s.cfg.Strategy),
		RequestedAt: s.now().UTC(),
	}
}

func (s *ScheduleService) execute(ctx context.Context, run *models.ScheduleRun) (*models.ScheduleRun, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, run, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms"))
	}
	lectures, err := s.lectures.ListAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, run, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lectures"))
	}
	run.RoomCount = len(rooms)
	run.LectureCount = len(lectures)

	catalog, err := BuildCatalog(rooms)
	if err != nil {
		return nil, s.fail(ctx, run, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid room catalog"))
	}

	start := s.now()
	result, err := s.engine.Run(catalog, EngineLectures(lectures))
	duration := s.now().Sub(start)
	if err != nil {
		if errors.Is(err, scheduler.ErrInvariantViolation) {
			return nil, s.fail(ctx, run, duration, appErrors.Wrap(err, appErrors.ErrScheduleInvariant.Code, appErrors.ErrScheduleInvariant.Status, appErrors.ErrScheduleInvariant.Message))
		}
		return nil, s.fail(ctx, run, duration, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "schedule run failed"))
	}

	entries := ScheduleEntries(run.ID, result.Assignments)
	if err := s.persist(ctx, entries); err != nil {
		return nil, s.fail(ctx, run, duration, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store schedule"))
	}

	run.Assignments = entries
	run.Unassigned = unassignedLectures(lectures, result.Unassigned)
	run.UnassignedCount = len(run.Unassigned)
	run.AssignedCount = run.LectureCount - run.UnassignedCount
	run.CombinationPlacements = result.CombinationPlacements
	run.Status = models.ScheduleRunCompleted
	outcome := RunOutcomeCompleted
	if run.UnassignedCount > 0 {
		run.Status = models.ScheduleRunPartial
		outcome = RunOutcomePartial
	}
	s.finish(run, duration)
	s.metrics.ObserveScheduleRun(outcome, run.AssignedCount, run.UnassignedCount, run.CombinationPlacements, duration)
	s.remember(ctx, run)

	s.logger.Info("schedule run finished",
		zap.String("run_id", run.ID),
		zap.String("status", string(run.Status)),
		zap.Int("rooms", run.RoomCount),
		zap.Int("lectures", run.LectureCount),
		zap.Int("assigned", run.AssignedCount),
		zap.Int("unassigned", run.UnassignedCount),
		zap.Duration("duration", duration),
	)
	return run, nil
}

func (s *ScheduleService) persist(ctx context.Context, entries []models.LectureScheduleEntry) (err error) {
	start := s.now()
	defer func() {
		s.metrics.ObserveDBQuery("lecture_schedule_replace", s.now().Sub(start))
	}()

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = s.store.DeleteAll(ctx, tx); err != nil {
		return err
	}
	if err = s.store.InsertBatch(ctx, tx, entries); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *ScheduleService) fail(ctx context.Context, run *models.ScheduleRun, duration time.Duration, err *appErrors.Error) error {
	run.Status = models.ScheduleRunFailed
	run.Error = err.Error()
	s.finish(run, duration)
	s.metrics.ObserveScheduleRun(RunOutcomeFailed, 0, 0, 0, duration)
	s.remember(ctx, run)
	s.logger.Error("schedule run failed", zap.String("run_id", run.ID), zap.Error(err))
	return err
}

func (s *ScheduleService) finish(run *models.ScheduleRun, duration time.Duration) {
	completed := s.now().UTC()
	run.CompletedAt = &completed
	run.DurationMs = float64(duration) / float64(time.Millisecond)
}

func (s *ScheduleService) remember(ctx context.Context, run *models.ScheduleRun) {
	s.recentMu.Lock()
	if _, exists := s.recent[run.ID]; !exists {
		s.order = append(s.order, run.ID)
		if len(s.order) > recentRunLimit {
			delete(s.recent, s.order[0])
			s.order = s.order[1:]
		}
	}
	s.recent[run.ID] = *run
	s.lastID = run.ID
	s.recentMu.Unlock()

	if s.cache == nil {
		return
	}
	if err := s.cache.SaveRun(ctx, run); err != nil {
		s.logger.Warn("failed to cache schedule run", zap.String("run_id", run.ID), zap.Error(err))
	}
}
