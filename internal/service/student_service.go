package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/collegetrack/collegetrack-api/internal/dto"
	"github.com/collegetrack/collegetrack-api/internal/models"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
)

type studentRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

// StudentService manages the academic profile of a student user.
type StudentService struct {
	students  studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(students studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{students: students, validator: validate, logger: logger}
}

// Profile returns the acting student's academic profile.
func (s *StudentService) Profile(ctx context.Context, claims *models.JWTClaims) (*models.Student, error) {
	if claims == nil || claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, accessDeniedMessage)
	}
	student, err := s.students.FindByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student profile")
	}
	return student, nil
}

// UpdateProfile applies a partial profile update. A missing profile row
// is created on first write, covering accounts that predate the
// registration-time profile creation.
func (s *StudentService) UpdateProfile(ctx context.Context, claims *models.JWTClaims, req dto.UpdateStudentProfileRequest) (*models.Student, error) {
	if claims == nil || claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, accessDeniedMessage)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	student, err := s.students.FindByUserID(ctx, claims.UserID)
	created := false
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student profile")
		}
		now := time.Now().UTC()
		student = &models.Student{
			ID:        uuid.NewString(),
			UserID:    claims.UserID,
			Name:      claims.FirstName + " " + claims.LastName,
			Email:     claims.Email,
			CreatedAt: now,
			UpdatedAt: now,
		}
		created = true
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.GraduationYear != nil {
		student.GraduationYear = req.GraduationYear
	}
	if req.GPA != nil {
		student.GPA = req.GPA
	}
	if req.SATScore != nil {
		student.SATScore = req.SATScore
	}
	if req.ACTScore != nil {
		student.ACTScore = req.ACTScore
	}
	if req.TargetCountries != nil {
		student.TargetCountries = req.TargetCountries
	}
	if req.IntendedMajors != nil {
		student.IntendedMajors = req.IntendedMajors
	}

	if created {
		err = s.students.Create(ctx, student)
	} else {
		err = s.students.Update(ctx, student)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save student profile")
	}

	return student, nil
}
