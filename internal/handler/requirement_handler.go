package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collegetrack/collegetrack-api/internal/dto"
	"github.com/collegetrack/collegetrack-api/internal/middleware"
	"github.com/collegetrack/collegetrack-api/internal/models"
	"github.com/collegetrack/collegetrack-api/internal/service"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
	"github.com/collegetrack/collegetrack-api/pkg/response"
)

// RequirementHandler exposes the per-application requirement checklist.
type RequirementHandler struct {
	requirements *service.RequirementService
}

// NewRequirementHandler constructs RequirementHandler.
func NewRequirementHandler(requirements *service.RequirementService) *RequirementHandler {
	return &RequirementHandler{requirements: requirements}
}

type requirementListPayload struct {
	Requirements []models.ApplicationRequirement `json:"requirements"`
	Progress     int                             `json:"progress"`
}

// List godoc
// @Summary List an application's requirements
// @Tags Requirements
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /applications/{id}/requirements [get]
func (h *RequirementHandler) List(c *gin.Context) {
	requirements, progress, err := h.requirements.List(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requirementListPayload{Requirements: requirements, Progress: progress}, nil)
}

// Add godoc
// @Summary Add a requirement to an application
// @Tags Requirements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param payload body dto.AddRequirementRequest true "Requirement payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /applications/{id}/requirements [post]
func (h *RequirementHandler) Add(c *gin.Context) {
	var req dto.AddRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	requirement, err := h.requirements.Add(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, requirement)
}

// Update godoc
// @Summary Update a requirement
// @Tags Requirements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param requirementId path string true "Requirement ID"
// @Param payload body dto.UpdateRequirementRequest true "Partial update"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /applications/{id}/requirements/{requirementId} [put]
func (h *RequirementHandler) Update(c *gin.Context) {
	var req dto.UpdateRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	requirement, err := h.requirements.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), c.Param("requirementId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requirement, nil)
}

// Delete godoc
// @Summary Remove a requirement
// @Tags Requirements
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param requirementId path string true "Requirement ID"
// @Success 204 "No Content"
// @Failure 403 {object} response.Envelope
// @Router /applications/{id}/requirements/{requirementId} [delete]
func (h *RequirementHandler) Delete(c *gin.Context) {
	if err := h.requirements.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), c.Param("requirementId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
