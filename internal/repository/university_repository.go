package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/collegetrack/collegetrack-api/internal/models"
)

// UniversityRepository reads the static university reference catalogue.
// The application never writes to these tables outside the seed process.
type UniversityRepository struct {
	db *sqlx.DB
}

// NewUniversityRepository constructs a UniversityRepository.
func NewUniversityRepository(db *sqlx.DB) *UniversityRepository {
	return &UniversityRepository{db: db}
}

const universityColumns = `id, name, country, state, city, ranking, acceptance_rate, application_system,
        tuition_in_state, tuition_out_state, application_fee, deadlines, available_majors, created_at, updated_at`

// Search returns universities matching the provided filters.
func (r *UniversityRepository) Search(ctx context.Context, filter models.UniversityFilter) ([]models.University, int, error) {
	base := "FROM universities WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Query != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Query)+"%")
	}
	if filter.Country != "" {
		conditions = append(conditions, fmt.Sprintf("country = $%d", len(args)+1))
		args = append(args, filter.Country)
	}
	if filter.State != "" {
		conditions = append(conditions, fmt.Sprintf("state = $%d", len(args)+1))
		args = append(args, filter.State)
	}
	if filter.ApplicationSystem != "" {
		conditions = append(conditions, fmt.Sprintf("application_system = $%d", len(args)+1))
		args = append(args, filter.ApplicationSystem)
	}
	if filter.MinRanking != nil {
		conditions = append(conditions, fmt.Sprintf("ranking >= $%d", len(args)+1))
		args = append(args, *filter.MinRanking)
	}
	if filter.MaxRanking != nil {
		conditions = append(conditions, fmt.Sprintf("ranking <= $%d", len(args)+1))
		args = append(args, *filter.MaxRanking)
	}
	if filter.MaxTuition != nil {
		conditions = append(conditions, fmt.Sprintf("tuition_out_state <= $%d", len(args)+1))
		args = append(args, *filter.MaxTuition)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf("SELECT %s %s ORDER BY ranking ASC NULLS LAST, name ASC LIMIT %d OFFSET %d",
		universityColumns, base, limit, offset)

	var universities []models.University
	if err := r.db.SelectContext(ctx, &universities, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search universities: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count universities: %w", err)
	}
	return universities, total, nil
}

// FindByID fetches a university by ID.
func (r *UniversityRepository) FindByID(ctx context.Context, id string) (*models.University, error) {
	query := fmt.Sprintf("SELECT %s FROM universities WHERE id = $1", universityColumns)
	var university models.University
	if err := r.db.GetContext(ctx, &university, query, id); err != nil {
		return nil, err
	}
	return &university, nil
}

// FindByIDs fetches universities in bulk for dashboard joins. A single
// WHERE id = ANY(...) query avoids per-application fan-out.
func (r *UniversityRepository) FindByIDs(ctx context.Context, ids []string) ([]models.University, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM universities WHERE id = ANY($1)", universityColumns)
	var universities []models.University
	if err := r.db.SelectContext(ctx, &universities, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find universities by ids: %w", err)
	}
	return universities, nil
}

// ListRequirements returns the requirement templates for a university.
func (r *UniversityRepository) ListRequirements(ctx context.Context, universityID string) ([]models.UniversityRequirement, error) {
	const query = `SELECT id, university_id, requirement_type, required, description, created_at
        FROM university_requirements WHERE university_id = $1 ORDER BY requirement_type ASC`
	var requirements []models.UniversityRequirement
	if err := r.db.SelectContext(ctx, &requirements, query, universityID); err != nil {
		return nil, fmt.Errorf("list university requirements: %w", err)
	}
	return requirements, nil
}
