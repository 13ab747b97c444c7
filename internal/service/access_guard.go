package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/collegetrack/collegetrack-api/internal/models"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
)

type guardStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
	HasRelationship(ctx context.Context, parentID, studentID string) (bool, error)
}

// AccessGuard centralises resource-level authorization. Every handler
// that touches a student's data goes through the guard rather than
// re-implementing ownership checks. Denials use one generic message so
// a parent probing an unlinked student cannot tell "no such student"
// from "not yours".
type AccessGuard struct {
	students guardStudentRepository
	logger   *zap.Logger
}

// NewAccessGuard constructs an AccessGuard.
func NewAccessGuard(students guardStudentRepository, logger *zap.Logger) *AccessGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessGuard{students: students, logger: logger}
}

const accessDeniedMessage = "you do not have access to this resource"

// StudentForUser resolves the student profile behind a student principal.
func (g *AccessGuard) StudentForUser(ctx context.Context, claims *models.JWTClaims) (*models.Student, error) {
	if claims == nil || claims.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, accessDeniedMessage)
	}
	student, err := g.students.FindByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student profile")
	}
	return student, nil
}

// CanViewStudent authorizes read access to a student's data. Students
// may only see themselves; parents only students they are linked to.
func (g *AccessGuard) CanViewStudent(ctx context.Context, claims *models.JWTClaims, studentID string) error {
	if claims == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	switch claims.Role {
	case models.RoleStudent:
		student, err := g.StudentForUser(ctx, claims)
		if err != nil {
			return err
		}
		if student.ID != studentID {
			return appErrors.Clone(appErrors.ErrForbidden, accessDeniedMessage)
		}
		return nil
	case models.RoleParent:
		linked, err := g.students.HasRelationship(ctx, claims.UserID, studentID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check parent link")
		}
		if !linked {
			g.logger.Debug("parent access denied", zap.String("parent_id", claims.UserID), zap.String("student_id", studentID))
			return appErrors.Clone(appErrors.ErrForbidden, accessDeniedMessage)
		}
		return nil
	default:
		return appErrors.Clone(appErrors.ErrForbidden, accessDeniedMessage)
	}
}

// CanViewApplication authorizes read access to one application.
func (g *AccessGuard) CanViewApplication(ctx context.Context, claims *models.JWTClaims, app *models.Application) error {
	if app == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}
	return g.CanViewStudent(ctx, claims, app.StudentID)
}

// CanModifyApplication authorizes write access to one application.
// Parents are strictly read-only; the only parent write is the
// append-only note flow, which does not go through this check.
func (g *AccessGuard) CanModifyApplication(ctx context.Context, claims *models.JWTClaims, app *models.Application) error {
	if claims == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	if claims.Role != models.RoleStudent {
		return appErrors.Clone(appErrors.ErrForbidden, accessDeniedMessage)
	}
	return g.CanViewApplication(ctx, claims, app)
}
