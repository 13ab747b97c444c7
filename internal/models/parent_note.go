package models

import "time"

// MaxParentNoteLength bounds the free-text note size.
const MaxParentNoteLength = 1000

// ParentNote is an append-only note a parent attaches to an application.
// There is no edit or delete flow.
type ParentNote struct {
	ID            string    `db:"id" json:"id"`
	ParentID      string    `db:"parent_id" json:"parent_id"`
	StudentID     string    `db:"student_id" json:"student_id"`
	ApplicationID string    `db:"application_id" json:"application_id"`
	Note          string    `db:"note" json:"note"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
