package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lecture-room-api/internal/dto"
	"github.com/noah-isme/lecture-room-api/internal/models"
	appErrors "github.com/noah-isme/lecture-room-api/pkg/errors"
	"github.com/noah-isme/lecture-room-api/pkg/response"
)

type lectureService interface {
	List(ctx context.Context, filter models.LectureFilter) ([]models.Lecture, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Lecture, error)
	Create(ctx context.Context, req dto.CreateLectureRequest) (*models.Lecture, error)
	Update(ctx context.Context, id string, req dto.UpdateLectureRequest) (*models.Lecture, error)
	Delete(ctx context.Context, id string) error
}

// LectureHandler handles lecture catalog endpoints.
type LectureHandler struct {
	service lectureService
}

// NewLectureHandler constructs a lecture handler.
func NewLectureHandler(svc lectureService) *LectureHandler {
	return &LectureHandler{service: svc}
}

// List godoc
// @Summary List lectures
// @Tags Lectures
// @Produce json
// @Param department query string false "Filter by department"
// @Param level query string false "Filter by level"
// @Param day query string false "Filter by day"
// @Param mode query string false "FTF or VCR"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /lectures [get]
func (h *LectureHandler) List(c *gin.Context) {
	filter := models.LectureFilter{
		Department: c.Query("department"),
		Level:      c.Query("level"),
		Day:        c.Query("day"),
		Mode:       c.Query("mode"),
		SortBy:     c.Query("sort"),
		SortOrder:  c.Query("order"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	lectures, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lectures, pagination)
}

// Get godoc
// @Summary Get lecture by id
// @Tags Lectures
// @Produce json
// @Param id path string true "Lecture ID"
// @Success 200 {object} response.Envelope
// @Router /lectures/{id} [get]
func (h *LectureHandler) Get(c *gin.Context) {
	lecture, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lecture, nil)
}

// Create godoc
// @Summary Register lecture
// @Description time must be numeric, e.g. 9 or 10.5
// @Tags Lectures
// @Accept json
// @Produce json
// @Param payload body dto.CreateLectureRequest true "Lecture payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lectures [post]
func (h *LectureHandler) Create(c *gin.Context) {
	var req dto.CreateLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	lecture, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lecture)
}

// Update godoc
// @Summary Update lecture
// @Tags Lectures
// @Accept json
// @Produce json
// @Param id path string true "Lecture ID"
// @Param payload body dto.UpdateLectureRequest true "Lecture payload"
// @Success 200 {object} response.Envelope
// @Router /lectures/{id} [put]
func (h *LectureHandler) Update(c *gin.Context) {
	var req dto.UpdateLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	lecture, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lecture, nil)
}

// Delete godoc
// @Summary Delete lecture
// @Tags Lectures
// @Param id path string true "Lecture ID"
// @Success 204 {string} string "No Content"
// @Router /lectures/{id} [delete]
func (h *LectureHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
