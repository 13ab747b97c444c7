package dto

import (
	"time"

	"github.com/collegetrack/collegetrack-api/internal/models"
)

// CreateApplicationRequest is the payload for starting a new application.
// The deadline is resolved server-side from the university's deadline map
// and never accepted from the client.
type CreateApplicationRequest struct {
	UniversityID    string                 `json:"university_id" validate:"required"`
	ApplicationType models.ApplicationType `json:"application_type" validate:"required"`
	Notes           *string                `json:"notes,omitempty"`
}

// UpdateApplicationRequest carries a partial application update. Nil
// fields are left untouched.
type UpdateApplicationRequest struct {
	Status       *models.ApplicationStatus `json:"status,omitempty"`
	DecisionDate *time.Time                `json:"decision_date,omitempty"`
	DecisionType *models.DecisionType      `json:"decision_type,omitempty"`
	Notes        *string                   `json:"notes,omitempty"`
}

// AddRequirementRequest adds a tracked requirement to an application.
type AddRequirementRequest struct {
	RequirementType models.RequirementType `json:"requirement_type" validate:"required"`
	Deadline        *time.Time             `json:"deadline,omitempty"`
	Notes           *string                `json:"notes,omitempty"`
}

// UpdateRequirementRequest carries a partial requirement update.
type UpdateRequirementRequest struct {
	Status   *models.RequirementStatus `json:"status,omitempty"`
	Deadline *time.Time                `json:"deadline,omitempty"`
	Notes    *string                   `json:"notes,omitempty"`
}

// UpdateStudentProfileRequest carries a partial academic profile update.
type UpdateStudentProfileRequest struct {
	Name            *string  `json:"name,omitempty"`
	GraduationYear  *int     `json:"graduation_year,omitempty" validate:"omitempty,gte=2000,lte=2100"`
	GPA             *float64 `json:"gpa,omitempty" validate:"omitempty,gte=0,lte=5"`
	SATScore        *int     `json:"sat_score,omitempty" validate:"omitempty,gte=400,lte=1600"`
	ACTScore        *int     `json:"act_score,omitempty" validate:"omitempty,gte=1,lte=36"`
	TargetCountries []string `json:"target_countries,omitempty"`
	IntendedMajors  []string `json:"intended_majors,omitempty"`
}

// CreateParentNoteRequest attaches an observation to an application.
type CreateParentNoteRequest struct {
	Note string `json:"note" validate:"required,max=1000"`
}
