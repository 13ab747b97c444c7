package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegetrack/collegetrack-api/internal/dto"
	"github.com/collegetrack/collegetrack-api/internal/models"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
)

func testUniversity() models.University {
	return models.University{
		ID:   "uni-1",
		Name: "Stanford University",
		Deadlines: models.DeadlineMap{
			models.TrackEarlyAction:     "2025-11-01T00:00:00Z",
			models.TrackRegularDecision: "2026-01-05T00:00:00Z",
		},
		ApplicationFee:  amount(90),
		TuitionInState:  amount(56169),
		TuitionOutState: amount(56169),
	}
}

func newApplicationFixture() (*ApplicationService, *mockApplicationRepo, *mockRequirementRepo) {
	students := &mockStudentRepo{students: map[string]models.Student{
		"user-1": {ID: "student-1", UserID: "user-1", Name: "Alex Doe"},
	}}
	apps := &mockApplicationRepo{apps: map[string]models.Application{}}
	universities := &mockUniversityRepo{
		universities: map[string]models.University{"uni-1": testUniversity()},
		templates: map[string][]models.UniversityRequirement{
			"uni-1": {
				{RequirementType: models.RequirementEssay},
				{RequirementType: models.RequirementTranscript},
			},
		},
	}
	requirements := &mockRequirementRepo{}
	notes := &mockNoteRepo{}
	guard := NewAccessGuard(students, nil)
	svc := NewApplicationService(apps, universities, requirements, notes, guard, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC) }
	return svc, apps, requirements
}

func TestApplicationCreateResolvesDeadline(t *testing.T) {
	svc, _, _ := newApplicationFixture()

	detail, err := svc.Create(context.Background(), studentClaims("user-1"), dto.CreateApplicationRequest{
		UniversityID:    "uni-1",
		ApplicationType: models.TypeEarlyAction,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), detail.Deadline)
	assert.Equal(t, models.StatusNotStarted, detail.Status)
}

func TestApplicationCreateRejectsMissingTrackDeadline(t *testing.T) {
	svc, _, _ := newApplicationFixture()

	_, err := svc.Create(context.Background(), studentClaims("user-1"), dto.CreateApplicationRequest{
		UniversityID:    "uni-1",
		ApplicationType: models.TypeEarlyDecision,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApplicationCreateDuplicateConflicts(t *testing.T) {
	svc, _, _ := newApplicationFixture()
	claims := studentClaims("user-1")
	req := dto.CreateApplicationRequest{UniversityID: "uni-1", ApplicationType: models.TypeEarlyAction}

	_, err := svc.Create(context.Background(), claims, req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), claims, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestApplicationSubmitIsNotRepeatable(t *testing.T) {
	svc, apps, _ := newApplicationFixture()
	claims := studentClaims("user-1")
	apps.apps["app-1"] = models.Application{ID: "app-1", StudentID: "student-1", Status: models.StatusInProgress}

	submitted, err := svc.Submit(context.Background(), claims, "app-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedDate)

	_, err = svc.Submit(context.Background(), claims, "app-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestApplicationUpdateRejectsBackwardTransition(t *testing.T) {
	svc, apps, _ := newApplicationFixture()
	apps.apps["app-1"] = models.Application{ID: "app-1", StudentID: "student-1", Status: models.StatusSubmitted}

	status := models.StatusInProgress
	_, err := svc.Update(context.Background(), studentClaims("user-1"), "app-1", dto.UpdateApplicationRequest{Status: &status})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApplicationUpdateDecisionRequiresDecidedStatus(t *testing.T) {
	svc, apps, _ := newApplicationFixture()
	apps.apps["app-1"] = models.Application{ID: "app-1", StudentID: "student-1", Status: models.StatusUnderReview}

	decision := models.DecisionAccepted
	_, err := svc.Update(context.Background(), studentClaims("user-1"), "app-1", dto.UpdateApplicationRequest{DecisionType: &decision})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	status := models.StatusDecided
	updated, err := svc.Update(context.Background(), studentClaims("user-1"), "app-1", dto.UpdateApplicationRequest{
		Status:       &status,
		DecisionType: &decision,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.DecisionType)
	assert.Equal(t, models.DecisionAccepted, *updated.DecisionType)
	assert.NotNil(t, updated.DecisionDate)
}

func TestApplicationAccessDeniedForOtherStudent(t *testing.T) {
	svc, apps, _ := newApplicationFixture()
	apps.apps["app-1"] = models.Application{ID: "app-1", StudentID: "student-2", Status: models.StatusInProgress}

	_, err := svc.Get(context.Background(), studentClaims("user-1"), "app-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestApplicationDeleteCascades(t *testing.T) {
	svc, apps, _ := newApplicationFixture()
	apps.apps["app-1"] = models.Application{ID: "app-1", StudentID: "student-1", Status: models.StatusNotStarted}

	require.NoError(t, svc.Delete(context.Background(), studentClaims("user-1"), "app-1"))
	assert.Equal(t, []string{"app-1"}, apps.deleted)
}
