package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/lecture-room-api/api/swagger"
	"github.com/noah-isme/lecture-room-api/internal/handler"
	internalmiddleware "github.com/noah-isme/lecture-room-api/internal/middleware"
	"github.com/noah-isme/lecture-room-api/internal/repository"
	"github.com/noah-isme/lecture-room-api/internal/scheduler"
	"github.com/noah-isme/lecture-room-api/internal/service"
	"github.com/noah-isme/lecture-room-api/pkg/cache"
	"github.com/noah-isme/lecture-room-api/pkg/config"
	"github.com/noah-isme/lecture-room-api/pkg/database"
	"github.com/noah-isme/lecture-room-api/pkg/jobs"
	"github.com/noah-isme/lecture-room-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/lecture-room-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lecture-room-api/pkg/middleware/requestid"
)

// @title Lecture Room API
// @version 1.0.0
// @description Registers rooms and weekly lectures and assigns lectures to rooms without double-booking.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	strategy, err := scheduler.ParseCombinationStrategy(cfg.Scheduler.CombinationStrategy)
	if err != nil {
		return err
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, run results are kept in memory only", zap.String("addr", cache.Addr(cfg.Redis)), zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduler.ResultTTL, logr, redisClient != nil)

	validate := validator.New()
	roomRepo := repository.NewRoomRepository(db)
	lectureRepo := repository.NewLectureRepository(db)
	scheduleRepo := repository.NewLectureScheduleRepository(db)

	roomSvc := service.NewRoomService(roomRepo, scheduleRepo, validate, logr)
	lectureSvc := service.NewLectureService(lectureRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(roomRepo, lectureRepo, scheduleRepo, db, cacheSvc, metricsSvc, service.ScheduleServiceConfig{
		Strategy:           strategy,
		MaxExhaustiveRooms: cfg.Scheduler.MaxExhaustiveRooms,
	}, logr)
	exportSvc := service.NewExportService(scheduleRepo, logr, nil, nil)

	// one worker keeps queued runs strictly sequential
	queue := jobs.NewQueue("schedule-runs", scheduleSvc.HandleJob, jobs.QueueConfig{
		Workers:    1,
		BufferSize: cfg.Scheduler.QueueBuffer,
		MaxRetries: cfg.Scheduler.QueueRetries,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()
	scheduleSvc.AttachQueue(queue)

	router := newRouter(cfg, logr, routes{
		rooms:    handler.NewRoomHandler(roomSvc),
		lectures: handler.NewLectureHandler(lectureSvc),
		schedule: handler.NewScheduleHandler(scheduleSvc, exportSvc),
		metrics:  handler.NewMetricsHandler(metricsSvc, db),
	}, metricsSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "strategy", strategy)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type routes struct {
	rooms    *handler.RoomHandler
	lectures *handler.LectureHandler
	schedule *handler.ScheduleHandler
	metrics  *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, h routes, metricsSvc *service.MetricsService) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc, "/metrics"))

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", h.metrics.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/metrics/summary", h.metrics.Summary)

	rooms := api.Group("/rooms")
	rooms.GET("", h.rooms.List)
	rooms.POST("", h.rooms.Create)
	rooms.GET("/:id", h.rooms.Get)
	rooms.PUT("/:id", h.rooms.Update)
	rooms.DELETE("/:id", h.rooms.Delete)

	lectures := api.Group("/lectures")
	lectures.GET("", h.lectures.List)
	lectures.POST("", h.lectures.Create)
	lectures.GET("/:id", h.lectures.Get)
	lectures.PUT("/:id", h.lectures.Update)
	lectures.DELETE("/:id", h.lectures.Delete)

	schedule := api.Group("/schedule")
	schedule.GET("", h.schedule.List)
	schedule.DELETE("", h.schedule.Clear)
	schedule.POST("/run", h.schedule.Run)
	schedule.GET("/runs/:id", h.schedule.GetRun)
	schedule.GET("/export", h.schedule.Export)

	return r
}
