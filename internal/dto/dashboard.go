package dto

import (
	"time"

	"github.com/collegetrack/collegetrack-api/internal/models"
)

// ApplicationStats summarises a student's applications by status and decision.
type ApplicationStats struct {
	TotalApplications int `json:"total_applications"`
	Submitted         int `json:"submitted"`
	InProgress        int `json:"in_progress"`
	Decisions         int `json:"decisions"`
	Acceptances       int `json:"acceptances"`
	Rejections        int `json:"rejections"`
	Waitlisted        int `json:"waitlisted"`
}

// UpcomingDeadline is one application whose deadline falls inside the
// configured upcoming window.
type UpcomingDeadline struct {
	ApplicationID     string                   `json:"application_id"`
	UniversityName    string                   `json:"university_name"`
	ApplicationType   models.ApplicationType   `json:"application_type"`
	Deadline          time.Time                `json:"deadline"`
	Status            models.ApplicationStatus `json:"status"`
	DaysUntilDeadline int                      `json:"days_until_deadline"`
}

// RecentActivityAction labels what happened to a recently updated application.
type RecentActivityAction string

const (
	ActivitySubmitted        RecentActivityAction = "submitted"
	ActivityDecisionReceived RecentActivityAction = "decision_received"
	ActivityUpdated          RecentActivityAction = "updated"
)

// RecentActivity is one application updated within the recent window.
type RecentActivity struct {
	ApplicationID   string                   `json:"application_id"`
	UniversityName  string                   `json:"university_name"`
	ApplicationType models.ApplicationType   `json:"application_type"`
	Status          models.ApplicationStatus `json:"status"`
	UpdatedAt       time.Time                `json:"updated_at"`
	Action          RecentActivityAction     `json:"action"`
}

// TuitionRange bounds estimated yearly tuition across targeted universities.
type TuitionRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FinancialEstimates aggregates fee and tuition figures.
type FinancialEstimates struct {
	TotalApplicationFees  float64      `json:"total_application_fees"`
	EstimatedTuitionRange TuitionRange `json:"estimated_tuition_range"`
}

// ApplicationOverview is the flattened per-application row shown on
// dashboards, joined with university reference data and progress.
type ApplicationOverview struct {
	ApplicationID   string                   `json:"application_id"`
	UniversityName  string                   `json:"university_name"`
	ApplicationType models.ApplicationType   `json:"application_type"`
	Status          models.ApplicationStatus `json:"status"`
	Deadline        time.Time                `json:"deadline"`
	Progress        int                      `json:"progress"`
	SubmittedDate   *time.Time               `json:"submitted_date,omitempty"`
	DecisionType    *models.DecisionType     `json:"decision_type,omitempty"`
}

// StudentDashboardResponse is the student's own dashboard payload.
type StudentDashboardResponse struct {
	Stats             ApplicationStats      `json:"stats"`
	UpcomingDeadlines []UpcomingDeadline    `json:"upcoming_deadlines"`
	Applications      []ApplicationOverview `json:"applications"`
}

// ParentNoteSummary is the trimmed note shape shown on the parent dashboard.
type ParentNoteSummary struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"application_id"`
	Note          string    `json:"note"`
	CreatedAt     time.Time `json:"created_at"`
}

// ParentStudentInfo is the student header block on the parent dashboard.
type ParentStudentInfo struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	GraduationYear *int     `json:"graduation_year,omitempty"`
	GPA            *float64 `json:"gpa,omitempty"`
	SATScore       *int     `json:"sat_score,omitempty"`
	ACTScore       *int     `json:"act_score,omitempty"`
	IntendedMajors []string `json:"intended_majors"`
}

// ParentDashboardResponse is the linked-student dashboard shown to parents.
type ParentDashboardResponse struct {
	Student            ParentStudentInfo     `json:"student"`
	Stats              ApplicationStats      `json:"stats"`
	FinancialEstimates FinancialEstimates    `json:"financial_estimates"`
	UpcomingDeadlines  []UpcomingDeadline    `json:"upcoming_deadlines"`
	RecentActivity     []RecentActivity      `json:"recent_activity"`
	ParentNotes        []ParentNoteSummary   `json:"parent_notes"`
	Applications       []ApplicationOverview `json:"applications"`
}

// ApplicationDetail is a single application joined with its university,
// requirements and (for parents) notes.
type ApplicationDetail struct {
	models.Application
	University   *models.University              `json:"university,omitempty"`
	Requirements []models.ApplicationRequirement `json:"requirements"`
	Progress     int                             `json:"progress"`
	ParentNotes  []models.ParentNote             `json:"parent_notes,omitempty"`
}
