package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/collegetrack/collegetrack-api/internal/models"
)

// StudentRepository manages persistence for student profiles and
// parent-student relationships.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, user_id, name, email, graduation_year, gpa, sat_score, act_score,
        target_countries, intended_majors, created_at, updated_at`

// FindByID fetches a student profile by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByUserID fetches the student profile owned by a user.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE user_id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student profile.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, user_id, name, email, graduation_year, gpa, sat_score, act_score, target_countries, intended_majors, created_at, updated_at)
        VALUES (:id, :user_id, :name, :email, :graduation_year, :gpa, :sat_score, :act_score, :target_countries, :intended_majors, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update modifies an existing student profile.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET name = :name, graduation_year = :graduation_year, gpa = :gpa,
        sat_score = :sat_score, act_score = :act_score, target_countries = :target_countries,
        intended_majors = :intended_majors, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// HasRelationship checks whether a parent is linked to a student.
func (r *StudentRepository) HasRelationship(ctx context.Context, parentID, studentID string) (bool, error) {
	const query = `SELECT 1 FROM student_parent_relationships WHERE parent_id = $1 AND student_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, parentID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check relationship: %w", err)
	}
	return true, nil
}

// ListByParent returns summaries of all students linked to a parent in a
// single joined query.
func (r *StudentRepository) ListByParent(ctx context.Context, parentID string) ([]models.StudentSummary, error) {
	const query = `SELECT s.id, s.name, s.email, s.graduation_year, s.gpa, s.sat_score, s.act_score, s.intended_majors
        FROM students s
        JOIN student_parent_relationships rel ON rel.student_id = s.id
        WHERE rel.parent_id = $1
        ORDER BY s.name ASC`
	var students []models.StudentSummary
	if err := r.db.SelectContext(ctx, &students, query, parentID); err != nil {
		return nil, fmt.Errorf("list students by parent: %w", err)
	}
	return students, nil
}
