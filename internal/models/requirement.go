package models

import (
	"math"
	"time"
)

// RequirementStatus tracks completion of a single application component.
type RequirementStatus string

const (
	RequirementNotStarted RequirementStatus = "not_started"
	RequirementInProgress RequirementStatus = "in_progress"
	RequirementCompleted  RequirementStatus = "completed"
)

// Valid reports whether the requirement status is known.
func (s RequirementStatus) Valid() bool {
	switch s {
	case RequirementNotStarted, RequirementInProgress, RequirementCompleted:
		return true
	}
	return false
}

// RequirementType enumerates the discrete application components.
type RequirementType string

const (
	RequirementEssay          RequirementType = "essay"
	RequirementTranscript     RequirementType = "transcript"
	RequirementRecommendation RequirementType = "recommendation_letter"
	RequirementTestScores     RequirementType = "test_scores"
	RequirementPortfolio      RequirementType = "portfolio"
	RequirementInterview      RequirementType = "interview"
	RequirementApplicationFee RequirementType = "application_fee"
	RequirementOther          RequirementType = "other"
)

// Valid reports whether the requirement type is known.
func (t RequirementType) Valid() bool {
	switch t {
	case RequirementEssay, RequirementTranscript, RequirementRecommendation,
		RequirementTestScores, RequirementPortfolio, RequirementInterview,
		RequirementApplicationFee, RequirementOther:
		return true
	}
	return false
}

// ApplicationRequirement is one tracked component of an application.
// requirement_type is unique per application.
type ApplicationRequirement struct {
	ID              string            `db:"id" json:"id"`
	ApplicationID   string            `db:"application_id" json:"application_id"`
	RequirementType RequirementType   `db:"requirement_type" json:"requirement_type"`
	Status          RequirementStatus `db:"status" json:"status"`
	Deadline        *time.Time        `db:"deadline" json:"deadline,omitempty"`
	Notes           *string           `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// CountCompleted returns the number of completed requirements.
func CountCompleted(reqs []ApplicationRequirement) int {
	count := 0
	for _, r := range reqs {
		if r.Status == RequirementCompleted {
			count++
		}
	}
	return count
}

// Progress computes the completion percentage for a requirement set,
// rounded to the nearest integer. Zero requirements yield 0, not NaN.
func Progress(reqs []ApplicationRequirement) int {
	if len(reqs) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(CountCompleted(reqs)) / float64(len(reqs))))
}
