package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/collegetrack/collegetrack-api/internal/models"
)

// ParentNoteRepository manages persistence for parent notes.
// Notes are append-only; there are no update or delete queries.
type ParentNoteRepository struct {
	db *sqlx.DB
}

// NewParentNoteRepository constructs a ParentNoteRepository.
func NewParentNoteRepository(db *sqlx.DB) *ParentNoteRepository {
	return &ParentNoteRepository{db: db}
}

const parentNoteColumns = `id, parent_id, student_id, application_id, note, created_at, updated_at`

// Create inserts a new parent note.
func (r *ParentNoteRepository) Create(ctx context.Context, note *models.ParentNote) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now
	const query = `INSERT INTO parent_notes (id, parent_id, student_id, application_id, note, created_at, updated_at)
        VALUES (:id, :parent_id, :student_id, :application_id, :note, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("create parent note: %w", err)
	}
	return nil
}

// ListByApplication returns a parent's notes on one application, newest first.
func (r *ParentNoteRepository) ListByApplication(ctx context.Context, parentID, applicationID string) ([]models.ParentNote, error) {
	query := fmt.Sprintf(`SELECT %s FROM parent_notes WHERE parent_id = $1 AND application_id = $2 ORDER BY created_at DESC`, parentNoteColumns)
	var notes []models.ParentNote
	if err := r.db.SelectContext(ctx, &notes, query, parentID, applicationID); err != nil {
		return nil, fmt.Errorf("list parent notes by application: %w", err)
	}
	return notes, nil
}

// ListByStudent returns a parent's most recent notes across a student's
// applications, bounded by limit.
func (r *ParentNoteRepository) ListByStudent(ctx context.Context, parentID, studentID string, limit int) ([]models.ParentNote, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(`SELECT %s FROM parent_notes WHERE parent_id = $1 AND student_id = $2 ORDER BY created_at DESC LIMIT %d`, parentNoteColumns, limit)
	var notes []models.ParentNote
	if err := r.db.SelectContext(ctx, &notes, query, parentID, studentID); err != nil {
		return nil, fmt.Errorf("list parent notes by student: %w", err)
	}
	return notes, nil
}
