package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/collegetrack/collegetrack-api/internal/dto"
	"github.com/collegetrack/collegetrack-api/internal/models"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
)

type applicationRepository interface {
	FindByID(ctx context.Context, id string) (*models.Application, error)
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, int, error)
	Exists(ctx context.Context, studentID, universityID string, appType models.ApplicationType) (bool, error)
	CreateWithRequirements(ctx context.Context, app *models.Application, templates []models.UniversityRequirement) error
	Update(ctx context.Context, app *models.Application) error
	Submit(ctx context.Context, id string, submittedAt time.Time) error
	DeleteCascade(ctx context.Context, id string) error
}

type applicationUniversityRepository interface {
	FindByID(ctx context.Context, id string) (*models.University, error)
	ListRequirements(ctx context.Context, universityID string) ([]models.UniversityRequirement, error)
}

type applicationRequirementReader interface {
	ListByApplication(ctx context.Context, applicationID string) ([]models.ApplicationRequirement, error)
}

type applicationNoteReader interface {
	ListByApplication(ctx context.Context, parentID, applicationID string) ([]models.ParentNote, error)
}

// ApplicationService implements the application lifecycle use cases.
type ApplicationService struct {
	apps         applicationRepository
	universities applicationUniversityRepository
	requirements applicationRequirementReader
	notes        applicationNoteReader
	guard        *AccessGuard
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(
	apps applicationRepository,
	universities applicationUniversityRepository,
	requirements applicationRequirementReader,
	notes applicationNoteReader,
	guard *AccessGuard,
	validate *validator.Validate,
	logger *zap.Logger,
) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ApplicationService{
		apps:         apps,
		universities: universities,
		requirements: requirements,
		notes:        notes,
		guard:        guard,
		validator:    validate,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Create starts an application. The deadline is resolved from the
// university's deadline map for the chosen track and snapshotted onto
// the row; a university without a published deadline for that track
// rejects the creation outright.
func (s *ApplicationService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateApplicationRequest) (*dto.ApplicationDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}
	if !req.ApplicationType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown application type %q", req.ApplicationType))
	}

	student, err := s.guard.StudentForUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	university, err := s.universities.FindByID(ctx, req.UniversityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "university not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch university")
	}

	deadline, ok := university.DeadlineFor(req.ApplicationType)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("%s does not publish a deadline for %s", university.Name, req.ApplicationType))
	}

	exists, err := s.apps.Exists(ctx, student.ID, university.ID, req.ApplicationType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing application")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "an application for this university and track already exists")
	}

	templates, err := s.universities.ListRequirements(ctx, university.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load requirement templates")
	}

	app := &models.Application{
		StudentID:       student.ID,
		UniversityID:    university.ID,
		ApplicationType: req.ApplicationType,
		Deadline:        deadline,
		Status:          models.StatusNotStarted,
		Notes:           req.Notes,
	}
	if err := s.apps.CreateWithRequirements(ctx, app, templates); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create application")
	}

	requirements, err := s.requirements.ListByApplication(ctx, app.ID)
	if err != nil {
		s.logger.Warn("failed to load seeded requirements", zap.Error(err), zap.String("application_id", app.ID))
	}
	return &dto.ApplicationDetail{
		Application:  *app,
		University:   university,
		Requirements: requirements,
		Progress:     models.Progress(requirements),
	}, nil
}

// List returns the acting student's applications with pagination.
func (s *ApplicationService) List(ctx context.Context, claims *models.JWTClaims, filter models.ApplicationFilter) ([]models.Application, *models.Pagination, error) {
	student, err := s.guard.StudentForUser(ctx, claims)
	if err != nil {
		return nil, nil, err
	}
	filter.StudentID = student.ID
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", filter.Status))
	}
	apps, total, err := s.apps.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return apps, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Get returns one application with its university, requirements and
// progress. Parents additionally see their own notes on it.
func (s *ApplicationService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*dto.ApplicationDetail, error) {
	app, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CanViewApplication(ctx, claims, app); err != nil {
		return nil, err
	}

	detail := &dto.ApplicationDetail{Application: *app}

	if university, err := s.universities.FindByID(ctx, app.UniversityID); err == nil {
		detail.University = university
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch university")
	}

	requirements, err := s.requirements.ListByApplication(ctx, app.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requirements")
	}
	detail.Requirements = requirements
	detail.Progress = models.Progress(requirements)

	if claims != nil && claims.Role == models.RoleParent {
		notes, err := s.notes.ListByApplication(ctx, claims.UserID, app.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notes")
		}
		detail.ParentNotes = notes
	}
	return detail, nil
}

// Update applies a partial update. Status changes must follow the
// forward-only lifecycle, and a decision verdict is only accepted when
// the application is (or becomes) decided.
func (s *ApplicationService) Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateApplicationRequest) (*models.Application, error) {
	app, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CanModifyApplication(ctx, claims, app); err != nil {
		return nil, err
	}

	if req.Status != nil {
		next := *req.Status
		if !next.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", next))
		}
		if !app.Status.CanTransitionTo(next) {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("cannot move application from %s back to %s", app.Status, next))
		}
		if next == models.StatusSubmitted && app.SubmittedDate == nil {
			submittedAt := s.now()
			app.SubmittedDate = &submittedAt
		}
		app.Status = next
	}

	if req.DecisionType != nil {
		if !req.DecisionType.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown decision type %q", *req.DecisionType))
		}
		if app.Status != models.StatusDecided {
			return nil, appErrors.Clone(appErrors.ErrValidation, "decision type requires a decided application")
		}
		app.DecisionType = req.DecisionType
		if req.DecisionDate == nil && app.DecisionDate == nil {
			decidedAt := s.now()
			app.DecisionDate = &decidedAt
		}
	}
	if req.DecisionDate != nil {
		app.DecisionDate = req.DecisionDate
	}
	if req.Notes != nil {
		app.Notes = req.Notes
	}

	if err := s.apps.Update(ctx, app); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application")
	}
	return app, nil
}

// Submit marks the application submitted, stamping the submission time.
func (s *ApplicationService) Submit(ctx context.Context, claims *models.JWTClaims, id string) (*models.Application, error) {
	app, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CanModifyApplication(ctx, claims, app); err != nil {
		return nil, err
	}
	if !app.Status.Before(models.StatusSubmitted) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "application has already been submitted")
	}

	submittedAt := s.now()
	if err := s.apps.Submit(ctx, app.ID, submittedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit application")
	}
	app.Status = models.StatusSubmitted
	app.SubmittedDate = &submittedAt
	app.UpdatedAt = submittedAt

	return app, nil
}

// Delete removes an application together with its requirements and notes.
func (s *ApplicationService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	app, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.CanModifyApplication(ctx, claims, app); err != nil {
		return err
	}
	if err := s.apps.DeleteCascade(ctx, app.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete application")
	}
	return nil
}

func (s *ApplicationService) fetch(ctx context.Context, id string) (*models.Application, error) {
	app, err := s.apps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch application")
	}
	return app, nil
}
