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

// StudentHandler exposes the student profile and dashboard endpoints.
type StudentHandler struct {
	students   *service.StudentService
	dashboards *service.DashboardService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, dashboards *service.DashboardService) *StudentHandler {
	return &StudentHandler{students: students, dashboards: dashboards}
}

// Profile godoc
// @Summary Get the student's academic profile
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /students/profile [get]
func (h *StudentHandler) Profile(c *gin.Context) {
	student, err := h.students.Profile(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// UpdateProfile godoc
// @Summary Update the student's academic profile
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.UpdateStudentProfileRequest true "Partial profile"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /students/profile [put]
func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateStudentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Dashboard godoc
// @Summary Student dashboard
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /students/dashboard [get]
func (h *StudentHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.dashboards.StudentDashboard(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}
