package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegetrack/collegetrack-api/internal/dto"
	"github.com/collegetrack/collegetrack-api/internal/models"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
)

func newRequirementFixture() (*RequirementService, *mockApplicationRepo, *mockRequirementRepo) {
	students := &mockStudentRepo{students: map[string]models.Student{
		"user-1": {ID: "student-1", UserID: "user-1"},
	}}
	apps := &mockApplicationRepo{apps: map[string]models.Application{
		"app-1": {ID: "app-1", StudentID: "student-1", Status: models.StatusNotStarted},
	}}
	requirements := &mockRequirementRepo{requirements: map[string]models.ApplicationRequirement{
		"req-1": {ID: "req-1", ApplicationID: "app-1", RequirementType: models.RequirementEssay, Status: models.RequirementNotStarted},
	}}
	guard := NewAccessGuard(students, nil)
	svc := NewRequirementService(requirements, apps, guard, nil, nil)
	return svc, apps, requirements
}

func TestRequirementCompletionAdvancesApplication(t *testing.T) {
	svc, apps, _ := newRequirementFixture()
	completed := models.RequirementCompleted

	_, err := svc.Update(context.Background(), studentClaims("user-1"), "app-1", "req-1", dto.UpdateRequirementRequest{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, apps.apps["app-1"].Status)
}

func TestRequirementUncompletionDoesNotRevertApplication(t *testing.T) {
	svc, apps, _ := newRequirementFixture()
	claims := studentClaims("user-1")

	completed := models.RequirementCompleted
	_, err := svc.Update(context.Background(), claims, "app-1", "req-1", dto.UpdateRequirementRequest{Status: &completed})
	require.NoError(t, err)
	require.Equal(t, models.StatusInProgress, apps.apps["app-1"].Status)

	notStarted := models.RequirementNotStarted
	_, err = svc.Update(context.Background(), claims, "app-1", "req-1", dto.UpdateRequirementRequest{Status: &notStarted})
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, apps.apps["app-1"].Status)
}

func TestRequirementWritesRefusedAfterSubmission(t *testing.T) {
	svc, apps, _ := newRequirementFixture()
	app := apps.apps["app-1"]
	app.Status = models.StatusSubmitted
	apps.apps["app-1"] = app

	completed := models.RequirementCompleted
	_, err := svc.Update(context.Background(), studentClaims("user-1"), "app-1", "req-1", dto.UpdateRequirementRequest{Status: &completed})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Equal(t, "cannot update requirements for submitted applications", appErr.Message)

	_, err = svc.Add(context.Background(), studentClaims("user-1"), "app-1", dto.AddRequirementRequest{RequirementType: models.RequirementInterview})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	err = svc.Delete(context.Background(), studentClaims("user-1"), "app-1", "req-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestRequirementDuplicateTypeConflicts(t *testing.T) {
	svc, _, _ := newRequirementFixture()

	_, err := svc.Add(context.Background(), studentClaims("user-1"), "app-1", dto.AddRequirementRequest{RequirementType: models.RequirementEssay})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRequirementAddAndList(t *testing.T) {
	svc, _, _ := newRequirementFixture()
	claims := studentClaims("user-1")

	created, err := svc.Add(context.Background(), claims, "app-1", dto.AddRequirementRequest{RequirementType: models.RequirementTestScores})
	require.NoError(t, err)
	assert.Equal(t, models.RequirementNotStarted, created.Status)

	reqs, progress, err := svc.List(context.Background(), claims, "app-1")
	require.NoError(t, err)
	assert.Len(t, reqs, 2)
	assert.Equal(t, 0, progress)
}

func TestRequirementParentCannotWrite(t *testing.T) {
	svc, _, _ := newRequirementFixture()
	completed := models.RequirementCompleted

	_, err := svc.Update(context.Background(), parentClaims("parent-1"), "app-1", "req-1", dto.UpdateRequirementRequest{Status: &completed})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
