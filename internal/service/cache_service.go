package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lecture-room-api/internal/models"
	"github.com/noah-isme/lecture-room-api/pkg/cache"
	appErrors "github.com/noah-isme/lecture-room-api/pkg/errors"
)

const defaultRunResultTTL = 24 * time.Hour

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	SetMany(ctx context.Context, entries map[string]interface{}, ttl time.Duration) error
}

// CacheService keeps schedule run results in the shared cache so every API instance
// can answer run lookups. A disabled service always misses.
type CacheService struct {
	repo    CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewCacheService constructs a cache service. ttl bounds how long run results are kept.
func NewCacheService(repo CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if ttl <= 0 {
		ttl = defaultRunResultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// LoadRun fetches a cached run. LastRunID addresses the most recently saved run.
func (s *CacheService) LoadRun(ctx context.Context, id string) (*models.ScheduleRun, bool, error) {
	var run models.ScheduleRun
	hit, err := s.get(ctx, RunCacheKey(id), &run)
	if err != nil || !hit {
		return nil, false, err
	}
	return &run, true, nil
}

// SaveRun stores the run under its id and as the latest run.
func (s *CacheService) SaveRun(ctx context.Context, run *models.ScheduleRun) error {
	if run == nil || !s.Enabled() {
		return nil
	}
	start := time.Now()
	err := s.repo.SetMany(ctx, map[string]interface{}{
		RunCacheKey(run.ID):    run,
		RunCacheKey(LastRunID): run,
	}, s.ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("run_id", run.ID), zap.Error(err))
	}
	return err
}

// RunCacheKey is the cache key of a run result.
func RunCacheKey(id string) string {
	return cache.Key("schedule", "runs", id)
}

func (s *CacheService) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}
