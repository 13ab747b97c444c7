package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collegetrack/collegetrack-api/internal/dto"
	"github.com/collegetrack/collegetrack-api/internal/middleware"
	"github.com/collegetrack/collegetrack-api/internal/service"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
	"github.com/collegetrack/collegetrack-api/pkg/response"
)

// ParentHandler exposes the parent read surface and the note flow.
type ParentHandler struct {
	parents    *service.ParentService
	dashboards *service.DashboardService
}

// NewParentHandler constructs ParentHandler.
func NewParentHandler(parents *service.ParentService, dashboards *service.DashboardService) *ParentHandler {
	return &ParentHandler{parents: parents, dashboards: dashboards}
}

// Students godoc
// @Summary List linked students
// @Tags Parents
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /parents/students [get]
func (h *ParentHandler) Students(c *gin.Context) {
	students, err := h.parents.ListStudents(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Dashboard godoc
// @Summary Parent dashboard for a linked student
// @Tags Parents
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /parents/students/{studentId}/dashboard [get]
func (h *ParentHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboards.ParentDashboard(c.Request.Context(), middleware.CurrentUser(c), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// Notes godoc
// @Summary List the parent's notes on an application
// @Tags Parents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /applications/{id}/notes [get]
func (h *ParentHandler) Notes(c *gin.Context) {
	notes, err := h.parents.ListNotes(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notes, nil)
}

// AddNote godoc
// @Summary Attach a note to a linked student's application
// @Tags Parents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param payload body dto.CreateParentNoteRequest true "Note payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /applications/{id}/notes [post]
func (h *ParentHandler) AddNote(c *gin.Context) {
	var req dto.CreateParentNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	note, err := h.parents.AddNote(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, note)
}
