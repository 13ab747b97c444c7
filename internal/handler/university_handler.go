package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/collegetrack/collegetrack-api/internal/models"
	"github.com/collegetrack/collegetrack-api/internal/service"
	"github.com/collegetrack/collegetrack-api/pkg/response"
)

// UniversityHandler exposes the read-only reference catalogue.
type UniversityHandler struct {
	universities *service.UniversityService
}

// NewUniversityHandler constructs UniversityHandler.
func NewUniversityHandler(universities *service.UniversityService) *UniversityHandler {
	return &UniversityHandler{universities: universities}
}

// Search godoc
// @Summary Search universities
// @Tags Universities
// @Produce json
// @Security BearerAuth
// @Param q query string false "Name search"
// @Param country query string false "Filter by country"
// @Param state query string false "Filter by state"
// @Param system query string false "Filter by application system"
// @Param min_ranking query int false "Minimum ranking"
// @Param max_ranking query int false "Maximum ranking"
// @Param max_tuition query number false "Maximum out-of-state tuition"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /universities [get]
func (h *UniversityHandler) Search(c *gin.Context) {
	var filter models.UniversityFilter
	filter.Query = strings.TrimSpace(c.Query("q"))
	filter.Country = c.Query("country")
	filter.State = c.Query("state")
	filter.ApplicationSystem = c.Query("system")
	if v, err := strconv.Atoi(c.Query("min_ranking")); err == nil {
		filter.MinRanking = &v
	}
	if v, err := strconv.Atoi(c.Query("max_ranking")); err == nil {
		filter.MaxRanking = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_tuition"), 64); err == nil {
		filter.MaxTuition = &v
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.Limit = limit
	}

	universities, pagination, err := h.universities.Search(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, universities, pagination)
}

// Get godoc
// @Summary Get a university with its requirement templates
// @Tags Universities
// @Produce json
// @Security BearerAuth
// @Param id path string true "University ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /universities/{id} [get]
func (h *UniversityHandler) Get(c *gin.Context) {
	detail, err := h.universities.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Requirements godoc
// @Summary List a university's requirement templates
// @Tags Universities
// @Produce json
// @Security BearerAuth
// @Param id path string true "University ID"
// @Success 200 {object} response.Envelope
// @Router /universities/{id}/requirements [get]
func (h *UniversityHandler) Requirements(c *gin.Context) {
	requirements, err := h.universities.Requirements(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requirements, nil)
}
