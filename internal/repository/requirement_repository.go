package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/collegetrack/collegetrack-api/internal/models"
)

// RequirementRepository manages persistence for application requirements.
type RequirementRepository struct {
	db *sqlx.DB
}

// NewRequirementRepository constructs a RequirementRepository.
func NewRequirementRepository(db *sqlx.DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

const requirementColumns = `id, application_id, requirement_type, status, deadline, notes, created_at, updated_at`

// FindByID fetches one requirement scoped to its application.
func (r *RequirementRepository) FindByID(ctx context.Context, id, applicationID string) (*models.ApplicationRequirement, error) {
	query := fmt.Sprintf("SELECT %s FROM application_requirements WHERE id = $1 AND application_id = $2", requirementColumns)
	var req models.ApplicationRequirement
	if err := r.db.GetContext(ctx, &req, query, id, applicationID); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByApplication returns all requirements of an application.
func (r *RequirementRepository) ListByApplication(ctx context.Context, applicationID string) ([]models.ApplicationRequirement, error) {
	query := fmt.Sprintf("SELECT %s FROM application_requirements WHERE application_id = $1 ORDER BY requirement_type ASC", requirementColumns)
	var reqs []models.ApplicationRequirement
	if err := r.db.SelectContext(ctx, &reqs, query, applicationID); err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	return reqs, nil
}

// ListByApplicationIDs returns requirements for many applications in a
// single batched query for dashboard aggregation.
func (r *RequirementRepository) ListByApplicationIDs(ctx context.Context, applicationIDs []string) ([]models.ApplicationRequirement, error) {
	if len(applicationIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM application_requirements WHERE application_id = ANY($1)", requirementColumns)
	var reqs []models.ApplicationRequirement
	if err := r.db.SelectContext(ctx, &reqs, query, pq.Array(applicationIDs)); err != nil {
		return nil, fmt.Errorf("list requirements by applications: %w", err)
	}
	return reqs, nil
}

// ExistsType checks whether an application already tracks a requirement
// of the given type.
func (r *RequirementRepository) ExistsType(ctx context.Context, applicationID string, reqType models.RequirementType) (bool, error) {
	const query = `SELECT 1 FROM application_requirements WHERE application_id = $1 AND requirement_type = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, applicationID, reqType); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check requirement type: %w", err)
	}
	return true, nil
}

// Create inserts a new requirement row.
func (r *RequirementRepository) Create(ctx context.Context, req *models.ApplicationRequirement) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now
	const query = `INSERT INTO application_requirements (id, application_id, requirement_type, status, deadline, notes, created_at, updated_at)
        VALUES (:id, :application_id, :requirement_type, :status, :deadline, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create requirement: %w", err)
	}
	return nil
}

// Update modifies an existing requirement.
func (r *RequirementRepository) Update(ctx context.Context, req *models.ApplicationRequirement) error {
	req.UpdatedAt = time.Now().UTC()
	const query = `UPDATE application_requirements SET status = :status, deadline = :deadline, notes = :notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("update requirement: %w", err)
	}
	return nil
}

// Delete removes a requirement row.
func (r *RequirementRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM application_requirements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}
	return nil
}
