package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/collegetrack/collegetrack-api/internal/models"
)

// ApplicationRepository manages persistence for applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs an ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, student_id, university_id, application_type, deadline, status,
        submitted_date, decision_date, decision_type, notes, created_at, updated_at`

// FindByID fetches an application by ID.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	query := fmt.Sprintf("SELECT %s FROM applications WHERE id = $1", applicationColumns)
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, err
	}
	return &app, nil
}

// List returns a student's applications matching the provided filters.
func (r *ApplicationRepository) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, int, error) {
	base := "FROM applications WHERE student_id = $1"
	args := []interface{}{filter.StudentID}

	if filter.Status != "" {
		base += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	if filter.ApplicationType != "" {
		base += fmt.Sprintf(" AND application_type = $%d", len(args)+1)
		args = append(args, filter.ApplicationType)
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"deadline":   true,
		"status":     true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "deadline"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		applicationColumns, base, sortBy, order, limit, offset)

	var apps []models.Application
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}
	return apps, total, nil
}

// ListByStudent returns all of a student's applications ordered by
// deadline, without pagination, for dashboard aggregation.
func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Application, error) {
	query := fmt.Sprintf("SELECT %s FROM applications WHERE student_id = $1 ORDER BY deadline ASC", applicationColumns)
	var apps []models.Application
	if err := r.db.SelectContext(ctx, &apps, query, studentID); err != nil {
		return nil, fmt.Errorf("list applications by student: %w", err)
	}
	return apps, nil
}

// Exists checks the (student, university, application type) uniqueness rule.
func (r *ApplicationRepository) Exists(ctx context.Context, studentID, universityID string, appType models.ApplicationType) (bool, error) {
	const query = `SELECT 1 FROM applications WHERE student_id = $1 AND university_id = $2 AND application_type = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, universityID, appType); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check application exists: %w", err)
	}
	return true, nil
}

// CreateWithRequirements inserts an application and seeds its requirement
// rows from university templates in one transaction, so a partial failure
// never leaves an application without its seeded requirements.
func (r *ApplicationRepository) CreateWithRequirements(ctx context.Context, app *models.Application, templates []models.UniversityRequirement) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if app.CreatedAt.IsZero() {
		app.CreatedAt = now
	}
	app.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create application: %w", err)
	}

	const appQuery = `INSERT INTO applications (id, student_id, university_id, application_type, deadline, status, submitted_date, decision_date, decision_type, notes, created_at, updated_at)
        VALUES (:id, :student_id, :university_id, :application_type, :deadline, :status, :submitted_date, :decision_date, :decision_type, :notes, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, appQuery, app); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("create application: %w", err)
	}

	const reqQuery = `INSERT INTO application_requirements (id, application_id, requirement_type, status, deadline, notes, created_at, updated_at)
        VALUES (:id, :application_id, :requirement_type, :status, :deadline, :notes, :created_at, :updated_at)`
	for _, template := range templates {
		req := models.ApplicationRequirement{
			ID:              uuid.NewString(),
			ApplicationID:   app.ID,
			RequirementType: template.RequirementType,
			Status:          models.RequirementNotStarted,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if template.Description != "" {
			notes := template.Description
			req.Notes = &notes
		}
		if _, err := tx.NamedExecContext(ctx, reqQuery, req); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("seed application requirement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create application: %w", err)
	}
	return nil
}

// Update modifies an existing application.
func (r *ApplicationRepository) Update(ctx context.Context, app *models.Application) error {
	app.UpdatedAt = time.Now().UTC()
	const query = `UPDATE applications SET status = :status, submitted_date = :submitted_date,
        decision_date = :decision_date, decision_type = :decision_type, notes = :notes, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	return nil
}

// UpdateStatus sets only the application status.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	const query = `UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	return nil
}

// Submit marks the application submitted with the given timestamp.
func (r *ApplicationRepository) Submit(ctx context.Context, id string, submittedAt time.Time) error {
	const query = `UPDATE applications SET status = $2, submitted_date = $3, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, models.StatusSubmitted, submittedAt); err != nil {
		return fmt.Errorf("submit application: %w", err)
	}
	return nil
}

// DeleteCascade removes an application together with its requirement and
// parent-note rows. The explicit ordering keeps referential integrity
// without relying on database-level cascades.
func (r *ApplicationRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete application: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM application_requirements WHERE application_id = $1`, id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete application requirements: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM parent_notes WHERE application_id = $1`, id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete parent notes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete application: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete application: %w", err)
	}
	return nil
}
