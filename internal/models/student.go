package models

import (
	"time"

	"github.com/lib/pq"
)

// Student holds the academic profile linked one-to-one with a student user.
// The row is created at registration or lazily on the first profile write.
type Student struct {
	ID              string         `db:"id" json:"id"`
	UserID          string         `db:"user_id" json:"user_id"`
	Name            string         `db:"name" json:"name"`
	Email           string         `db:"email" json:"email"`
	GraduationYear  *int           `db:"graduation_year" json:"graduation_year,omitempty"`
	GPA             *float64       `db:"gpa" json:"gpa,omitempty"`
	SATScore        *int           `db:"sat_score" json:"sat_score,omitempty"`
	ACTScore        *int           `db:"act_score" json:"act_score,omitempty"`
	TargetCountries pq.StringArray `db:"target_countries" json:"target_countries"`
	IntendedMajors  pq.StringArray `db:"intended_majors" json:"intended_majors"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// StudentParentRelationship links a parent user to a student. It is the
// sole basis for parent access control and is created by the seed process.
type StudentParentRelationship struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	ParentID  string    `db:"parent_id" json:"parent_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StudentSummary is the parent-facing view of a linked student.
type StudentSummary struct {
	ID             string         `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Email          string         `db:"email" json:"email"`
	GraduationYear *int           `db:"graduation_year" json:"graduation_year,omitempty"`
	GPA            *float64       `db:"gpa" json:"gpa,omitempty"`
	SATScore       *int           `db:"sat_score" json:"sat_score,omitempty"`
	ACTScore       *int           `db:"act_score" json:"act_score,omitempty"`
	IntendedMajors pq.StringArray `db:"intended_majors" json:"intended_majors"`
}
