package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lecture-room-api/internal/dto"
	"github.com/noah-isme/lecture-room-api/internal/models"
	"github.com/noah-isme/lecture-room-api/internal/service"
	appErrors "github.com/noah-isme/lecture-room-api/pkg/errors"
	"github.com/noah-isme/lecture-room-api/pkg/response"
)

type scheduleRunner interface {
	Run(ctx context.Context) (*models.ScheduleRun, error)
	RunAsync(ctx context.Context) (*models.ScheduleRun, error)
	GetRun(ctx context.Context, id string) (*models.ScheduleRun, error)
	List(ctx context.Context, filter models.LectureScheduleFilter) ([]models.LectureScheduleEntry, *models.Pagination, error)
	Clear(ctx context.Context) (int64, error)
}

type scheduleExporter interface {
	Export(ctx context.Context, format string) (*service.ExportResult, error)
}

// ScheduleHandler exposes scheduling runs and the stored timetable.
type ScheduleHandler struct {
	service  scheduleRunner
	exporter scheduleExporter
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc scheduleRunner, exporter scheduleExporter) *ScheduleHandler {
	return &ScheduleHandler{service: svc, exporter: exporter}
}

// Run godoc
// @Summary Assign rooms to every registered lecture
// @Description Replaces the stored schedule. Answers 207 when some lectures could not be placed; with async=true the run is queued and 202 is returned.
// @Tags Schedule
// @Produce json
// @Param async query bool false "Queue the run instead of waiting for it"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Success 207 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /schedule/run [post]
func (h *ScheduleHandler) Run(c *gin.Context) {
	if async, _ := strconv.ParseBool(c.Query("async")); async {
		run, err := h.service.RunAsync(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Location", fmt.Sprintf("%s/runs/%s", scheduleBasePath(c), run.ID))
		response.Accepted(c, dto.ScheduleRunAccepted{RunID: run.ID, Status: string(run.Status)})
		return
	}

	run, err := h.service.Run(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if run.UnassignedCount > 0 {
		response.MultiStatus(c, run, map[string]interface{}{
			"message":          fmt.Sprintf("%d lecture(s) could not be scheduled", run.UnassignedCount),
			"unassigned_count": run.UnassignedCount,
		})
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// GetRun godoc
// @Summary Get a scheduling run
// @Tags Schedule
// @Produce json
// @Param id path string true "Run ID or 'last'"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedule/runs/{id} [get]
func (h *ScheduleHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// List godoc
// @Summary List stored room bookings
// @Tags Schedule
// @Produce json
// @Param room query string false "Filter by room name"
// @Param day query string false "Filter by day"
// @Param department query string false "Filter by department"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	filter := models.LectureScheduleFilter{
		RoomName:   c.Query("room"),
		Day:        c.Query("day"),
		Department: c.Query("department"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = limit
	}

	entries, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// Clear godoc
// @Summary Delete every stored booking
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule [delete]
func (h *ScheduleHandler) Clear(c *gin.Context) {
	deleted, err := h.service.Clear(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ClearScheduleResponse{Deleted: deleted}, nil)
}

// Export godoc
// @Summary Download the stored timetable
// @Tags Schedule
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	var query dto.ExportScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query"))
		return
	}
	result, err := h.exporter.Export(c.Request.Context(), query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Body)
}

func scheduleBasePath(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return strings.TrimSuffix(path, "/run")
}
