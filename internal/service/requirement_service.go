package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/collegetrack/collegetrack-api/internal/dto"
	"github.com/collegetrack/collegetrack-api/internal/models"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
)

type requirementRepository interface {
	FindByID(ctx context.Context, id, applicationID string) (*models.ApplicationRequirement, error)
	ListByApplication(ctx context.Context, applicationID string) ([]models.ApplicationRequirement, error)
	ExistsType(ctx context.Context, applicationID string, reqType models.RequirementType) (bool, error)
	Create(ctx context.Context, req *models.ApplicationRequirement) error
	Update(ctx context.Context, req *models.ApplicationRequirement) error
	Delete(ctx context.Context, id string) error
}

type requirementApplicationRepository interface {
	FindByID(ctx context.Context, id string) (*models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
}

// RequirementService manages the requirement checklist of an application.
// All writes are refused once the application has been submitted, and
// every mutation re-evaluates the lifecycle auto-transition.
type RequirementService struct {
	requirements requirementRepository
	apps         requirementApplicationRepository
	guard        *AccessGuard
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewRequirementService constructs a RequirementService.
func NewRequirementService(
	requirements requirementRepository,
	apps requirementApplicationRepository,
	guard *AccessGuard,
	validate *validator.Validate,
	logger *zap.Logger,
) *RequirementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RequirementService{
		requirements: requirements,
		apps:         apps,
		guard:        guard,
		validator:    validate,
		logger:       logger,
	}
}

const requirementsLockedMessage = "cannot update requirements for submitted applications"

// List returns the requirements of an application with its progress.
func (s *RequirementService) List(ctx context.Context, claims *models.JWTClaims, applicationID string) ([]models.ApplicationRequirement, int, error) {
	app, err := s.fetchApplication(ctx, applicationID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.guard.CanViewApplication(ctx, claims, app); err != nil {
		return nil, 0, err
	}
	reqs, err := s.requirements.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requirements")
	}
	return reqs, models.Progress(reqs), nil
}

// Add attaches a new tracked requirement. requirement_type is unique per
// application, so a duplicate is a conflict rather than a second row.
func (s *RequirementService) Add(ctx context.Context, claims *models.JWTClaims, applicationID string, req dto.AddRequirementRequest) (*models.ApplicationRequirement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid requirement payload")
	}
	if !req.RequirementType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown requirement type %q", req.RequirementType))
	}

	app, err := s.authorizeWrite(ctx, claims, applicationID)
	if err != nil {
		return nil, err
	}

	exists, err := s.requirements.ExistsType(ctx, app.ID, req.RequirementType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check requirement type")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("application already tracks a %s requirement", req.RequirementType))
	}

	requirement := &models.ApplicationRequirement{
		ApplicationID:   app.ID,
		RequirementType: req.RequirementType,
		Status:          models.RequirementNotStarted,
		Deadline:        req.Deadline,
		Notes:           req.Notes,
	}
	if err := s.requirements.Create(ctx, requirement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create requirement")
	}

	return requirement, nil
}

// Update applies a partial requirement update and re-evaluates the
// application lifecycle afterwards.
func (s *RequirementService) Update(ctx context.Context, claims *models.JWTClaims, applicationID, requirementID string, req dto.UpdateRequirementRequest) (*models.ApplicationRequirement, error) {
	app, err := s.authorizeWrite(ctx, claims, applicationID)
	if err != nil {
		return nil, err
	}

	requirement, err := s.fetchRequirement(ctx, requirementID, app.ID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown requirement status %q", *req.Status))
		}
		requirement.Status = *req.Status
	}
	if req.Deadline != nil {
		requirement.Deadline = req.Deadline
	}
	if req.Notes != nil {
		requirement.Notes = req.Notes
	}

	if err := s.requirements.Update(ctx, requirement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update requirement")
	}

	s.autoTransition(ctx, app)
	return requirement, nil
}

// Delete removes a tracked requirement and re-evaluates the lifecycle.
func (s *RequirementService) Delete(ctx context.Context, claims *models.JWTClaims, applicationID, requirementID string) error {
	app, err := s.authorizeWrite(ctx, claims, applicationID)
	if err != nil {
		return err
	}

	requirement, err := s.fetchRequirement(ctx, requirementID, app.ID)
	if err != nil {
		return err
	}

	if err := s.requirements.Delete(ctx, requirement.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete requirement")
	}

	s.autoTransition(ctx, app)
	return nil
}

// autoTransition applies the one-way requirement-driven status rule
// after a mutation. Failures only log; the requirement write has
// already succeeded and the rule re-runs on the next mutation.
func (s *RequirementService) autoTransition(ctx context.Context, app *models.Application) {
	reqs, err := s.requirements.ListByApplication(ctx, app.ID)
	if err != nil {
		s.logger.Warn("failed to recount requirements", zap.Error(err), zap.String("application_id", app.ID))
		return
	}
	next := models.NextStatusForRequirements(app.Status, models.CountCompleted(reqs))
	if next == app.Status {
		return
	}
	if err := s.apps.UpdateStatus(ctx, app.ID, next); err != nil {
		s.logger.Warn("failed to advance application status", zap.Error(err), zap.String("application_id", app.ID))
		return
	}
	app.Status = next
}

func (s *RequirementService) authorizeWrite(ctx context.Context, claims *models.JWTClaims, applicationID string) (*models.Application, error) {
	app, err := s.fetchApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CanModifyApplication(ctx, claims, app); err != nil {
		return nil, err
	}
	if app.Status.RequirementsLocked() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, requirementsLockedMessage)
	}
	return app, nil
}

func (s *RequirementService) fetchApplication(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch application")
	}
	return app, nil
}

func (s *RequirementService) fetchRequirement(ctx context.Context, id, applicationID string) (*models.ApplicationRequirement, error) {
	requirement, err := s.requirements.FindByID(ctx, id, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "requirement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch requirement")
	}
	return requirement, nil
}
