package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/collegetrack/collegetrack-api/internal/dto"
	"github.com/collegetrack/collegetrack-api/internal/models"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
)

type parentStudentRepository interface {
	ListByParent(ctx context.Context, parentID string) ([]models.StudentSummary, error)
}

type parentNoteRepository interface {
	Create(ctx context.Context, note *models.ParentNote) error
	ListByApplication(ctx context.Context, parentID, applicationID string) ([]models.ParentNote, error)
}

type parentApplicationReader interface {
	FindByID(ctx context.Context, id string) (*models.Application, error)
}

// ParentService serves the parent read surface plus the one parent
// write: append-only notes on a linked student's applications.
type ParentService struct {
	students  parentStudentRepository
	notes     parentNoteRepository
	apps      parentApplicationReader
	guard     *AccessGuard
	validator *validator.Validate
	logger    *zap.Logger
}

// NewParentService constructs a ParentService.
func NewParentService(
	students parentStudentRepository,
	notes parentNoteRepository,
	apps parentApplicationReader,
	guard *AccessGuard,
	validate *validator.Validate,
	logger *zap.Logger,
) *ParentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ParentService{
		students:  students,
		notes:     notes,
		apps:      apps,
		guard:     guard,
		validator: validate,
		logger:    logger,
	}
}

// ListStudents returns the students linked to the acting parent.
func (s *ParentService) ListStudents(ctx context.Context, claims *models.JWTClaims) ([]models.StudentSummary, error) {
	if claims == nil || claims.Role != models.RoleParent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, accessDeniedMessage)
	}
	students, err := s.students.ListByParent(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list linked students")
	}
	return students, nil
}

// AddNote attaches a note to an application of a linked student.
func (s *ParentService) AddNote(ctx context.Context, claims *models.JWTClaims, applicationID string, req dto.CreateParentNoteRequest) (*models.ParentNote, error) {
	if claims == nil || claims.Role != models.RoleParent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, accessDeniedMessage)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}

	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch application")
	}
	if err := s.guard.CanViewStudent(ctx, claims, app.StudentID); err != nil {
		return nil, err
	}

	note := &models.ParentNote{
		ParentID:      claims.UserID,
		StudentID:     app.StudentID,
		ApplicationID: app.ID,
		Note:          req.Note,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create note")
	}

	return note, nil
}

// ListNotes returns the acting parent's notes on one application.
func (s *ParentService) ListNotes(ctx context.Context, claims *models.JWTClaims, applicationID string) ([]models.ParentNote, error) {
	if claims == nil || claims.Role != models.RoleParent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, accessDeniedMessage)
	}
	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch application")
	}
	if err := s.guard.CanViewStudent(ctx, claims, app.StudentID); err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByApplication(ctx, claims.UserID, app.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notes")
	}
	return notes, nil
}
