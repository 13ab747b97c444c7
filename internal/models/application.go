package models

import "time"

// ApplicationStatus is the closed application lifecycle enumeration.
// Progression is linear and forward-only; no backward transition exists.
type ApplicationStatus string

const (
	StatusNotStarted  ApplicationStatus = "not_started"
	StatusInProgress  ApplicationStatus = "in_progress"
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusDecided     ApplicationStatus = "decided"
)

var statusRank = map[ApplicationStatus]int{
	StatusNotStarted:  0,
	StatusInProgress:  1,
	StatusSubmitted:   2,
	StatusUnderReview: 3,
	StatusDecided:     4,
}

// Valid reports whether the status belongs to the closed set.
func (s ApplicationStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Before reports whether s precedes other in the lifecycle order.
func (s ApplicationStatus) Before(other ApplicationStatus) bool {
	return statusRank[s] < statusRank[other]
}

// CanTransitionTo reports whether moving from s to next is a legal
// forward transition. Staying in place is allowed (idempotent updates).
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return statusRank[s] <= statusRank[next]
}

// RequirementsLocked reports whether the application's requirements are
// immutable. Once submitted, requirement rows may no longer change.
func (s ApplicationStatus) RequirementsLocked() bool {
	return !s.Before(StatusSubmitted)
}

// NextStatusForRequirements is the single authoritative auto-transition
// rule, evaluated after every requirement mutation: a not_started
// application with at least one completed requirement advances to
// in_progress. The rule is one-way; un-completing the requirement later
// never reverts the status.
func NextStatusForRequirements(current ApplicationStatus, completedCount int) ApplicationStatus {
	if current == StatusNotStarted && completedCount > 0 {
		return StatusInProgress
	}
	return current
}

// ApplicationType is the admission plan under which a student applies.
type ApplicationType string

const (
	TypeEarlyDecision    ApplicationType = "Early Decision"
	TypeEarlyAction      ApplicationType = "Early Action"
	TypeRegularDecision  ApplicationType = "Regular Decision"
	TypeRollingAdmission ApplicationType = "Rolling Admission"
)

var trackKeys = map[ApplicationType]string{
	TypeEarlyDecision:    TrackEarlyDecision,
	TypeEarlyAction:      TrackEarlyAction,
	TypeRegularDecision:  TrackRegularDecision,
	TypeRollingAdmission: TrackRollingAdmission,
}

// Valid reports whether the application type is known.
func (t ApplicationType) Valid() bool {
	_, ok := trackKeys[t]
	return ok
}

// TrackKey maps the human-readable track label to its deadline-map key.
func (t ApplicationType) TrackKey() (string, bool) {
	key, ok := trackKeys[t]
	return key, ok
}

// DecisionType is the university's verdict on a submitted application.
type DecisionType string

const (
	DecisionAccepted   DecisionType = "accepted"
	DecisionRejected   DecisionType = "rejected"
	DecisionWaitlisted DecisionType = "waitlisted"
)

// Valid reports whether the decision type is known.
func (d DecisionType) Valid() bool {
	switch d {
	case DecisionAccepted, DecisionRejected, DecisionWaitlisted:
		return true
	}
	return false
}

// Application is the central mutable entity. The deadline is a snapshot
// copied from the university's deadline map at creation and is never
// re-derived. At most one application exists per
// (student_id, university_id, application_type).
type Application struct {
	ID              string            `db:"id" json:"id"`
	StudentID       string            `db:"student_id" json:"student_id"`
	UniversityID    string            `db:"university_id" json:"university_id"`
	ApplicationType ApplicationType   `db:"application_type" json:"application_type"`
	Deadline        time.Time         `db:"deadline" json:"deadline"`
	Status          ApplicationStatus `db:"status" json:"status"`
	SubmittedDate   *time.Time        `db:"submitted_date" json:"submitted_date,omitempty"`
	DecisionDate    *time.Time        `db:"decision_date" json:"decision_date,omitempty"`
	DecisionType    *DecisionType     `db:"decision_type" json:"decision_type,omitempty"`
	Notes           *string           `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updated_at"`
}

// ApplicationFilter captures list criteria for a student's applications.
type ApplicationFilter struct {
	StudentID       string
	Status          ApplicationStatus
	ApplicationType ApplicationType
	SortBy          string
	SortOrder       string
	Page            int
	Limit           int
}
