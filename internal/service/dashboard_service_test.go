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

var dashboardNow = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func newDashboardFixture() (*DashboardService, *mockApplicationRepo, *mockNoteRepo) {
	accepted := models.DecisionAccepted
	submittedAt := dashboardNow.Add(-2 * 24 * time.Hour)
	decidedAt := dashboardNow.Add(-1 * 24 * time.Hour)

	students := &mockStudentRepo{
		students: map[string]models.Student{
			"user-1": {ID: "student-1", UserID: "user-1", Name: "Alex Doe"},
		},
		relationships: map[string][]string{"parent-1": {"student-1"}},
	}
	apps := &mockApplicationRepo{apps: map[string]models.Application{
		"app-1": {
			ID: "app-1", StudentID: "student-1", UniversityID: "uni-1",
			ApplicationType: models.TypeEarlyAction, Status: models.StatusSubmitted,
			Deadline:      dashboardNow.Add(20 * 24 * time.Hour),
			SubmittedDate: &submittedAt, UpdatedAt: submittedAt,
		},
		"app-2": {
			ID: "app-2", StudentID: "student-1", UniversityID: "uni-2",
			ApplicationType: models.TypeRegularDecision, Status: models.StatusInProgress,
			Deadline:  dashboardNow.Add(10 * 24 * time.Hour),
			UpdatedAt: dashboardNow.Add(-3 * 24 * time.Hour),
		},
		"app-3": {
			ID: "app-3", StudentID: "student-1", UniversityID: "uni-1",
			ApplicationType: models.TypeRegularDecision, Status: models.StatusDecided,
			Deadline:     dashboardNow.Add(-40 * 24 * time.Hour),
			DecisionType: &accepted, DecisionDate: &decidedAt, UpdatedAt: decidedAt,
		},
	}}
	universities := &mockUniversityRepo{universities: map[string]models.University{
		"uni-1": {ID: "uni-1", Name: "Stanford University", ApplicationFee: amount(90), TuitionInState: amount(56169), TuitionOutState: amount(56169)},
		"uni-2": {ID: "uni-2", Name: "University of Michigan", ApplicationFee: amount(75), TuitionInState: amount(17786), TuitionOutState: amount(57273)},
	}}
	requirements := &mockRequirementRepo{requirements: map[string]models.ApplicationRequirement{
		"req-1": {ID: "req-1", ApplicationID: "app-2", RequirementType: models.RequirementEssay, Status: models.RequirementCompleted},
		"req-2": {ID: "req-2", ApplicationID: "app-2", RequirementType: models.RequirementTranscript, Status: models.RequirementNotStarted},
	}}
	notes := &mockNoteRepo{}
	guard := NewAccessGuard(students, nil)

	svc := NewDashboardService(DashboardServiceParams{
		Applications: apps,
		Universities: universities,
		Requirements: requirements,
		Students:     students,
		Notes:        notes,
		Guard:        guard,
	})
	svc.now = func() time.Time { return dashboardNow }
	return svc, apps, notes
}

func TestStudentDashboardStats(t *testing.T) {
	svc, _, _ := newDashboardFixture()

	resp, err := svc.StudentDashboard(context.Background(), studentClaims("user-1"))
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Stats.TotalApplications)
	assert.Equal(t, 2, resp.Stats.Submitted)
	assert.Equal(t, 1, resp.Stats.InProgress)
	assert.Equal(t, 1, resp.Stats.Decisions)
	assert.Equal(t, 1, resp.Stats.Acceptances)
	assert.Equal(t, 0, resp.Stats.Rejections)
	assert.Len(t, resp.Applications, 3)
}

func TestStudentDashboardUpcomingDeadlines(t *testing.T) {
	svc, _, _ := newDashboardFixture()

	resp, err := svc.StudentDashboard(context.Background(), studentClaims("user-1"))
	require.NoError(t, err)

	// Only app-2 qualifies: app-1 is already submitted and app-3's
	// deadline has passed.
	require.Len(t, resp.UpcomingDeadlines, 1)
	deadline := resp.UpcomingDeadlines[0]
	assert.Equal(t, "app-2", deadline.ApplicationID)
	assert.Equal(t, "University of Michigan", deadline.UniversityName)
	assert.Equal(t, 10, deadline.DaysUntilDeadline)
}

func TestStudentDashboardProgress(t *testing.T) {
	svc, _, _ := newDashboardFixture()

	resp, err := svc.StudentDashboard(context.Background(), studentClaims("user-1"))
	require.NoError(t, err)

	progressByApp := make(map[string]int)
	for _, app := range resp.Applications {
		progressByApp[app.ApplicationID] = app.Progress
	}
	assert.Equal(t, 50, progressByApp["app-2"])
	assert.Equal(t, 0, progressByApp["app-1"])
}

func TestParentDashboardAggregates(t *testing.T) {
	svc, _, notes := newDashboardFixture()
	notes.notes = []models.ParentNote{
		{ID: "note-1", ParentID: "parent-1", StudentID: "student-1", ApplicationID: "app-2", Note: "Essay draft looks strong"},
	}

	resp, err := svc.ParentDashboard(context.Background(), parentClaims("parent-1"), "student-1")
	require.NoError(t, err)

	assert.Equal(t, "Alex Doe", resp.Student.Name)
	assert.Equal(t, 3, resp.Stats.TotalApplications)
	assert.InDelta(t, 255, resp.FinancialEstimates.TotalApplicationFees, 0.01)
	assert.InDelta(t, 17786, resp.FinancialEstimates.EstimatedTuitionRange.Min, 0.01)
	assert.InDelta(t, 57273, resp.FinancialEstimates.EstimatedTuitionRange.Max, 0.01)
	require.Len(t, resp.ParentNotes, 1)
	assert.Equal(t, "Essay draft looks strong", resp.ParentNotes[0].Note)
}

func TestParentDashboardRecentActivityLabels(t *testing.T) {
	svc, _, _ := newDashboardFixture()

	resp, err := svc.ParentDashboard(context.Background(), parentClaims("parent-1"), "student-1")
	require.NoError(t, err)

	actions := make(map[string]dto.RecentActivityAction)
	for _, a := range resp.RecentActivity {
		actions[a.ApplicationID] = a.Action
	}
	assert.Equal(t, dto.ActivitySubmitted, actions["app-1"])
	assert.Equal(t, dto.ActivityDecisionReceived, actions["app-3"])
	assert.Equal(t, dto.ActivityUpdated, actions["app-2"])

	// Newest first.
	require.NotEmpty(t, resp.RecentActivity)
	assert.Equal(t, "app-3", resp.RecentActivity[0].ApplicationID)
}

func TestParentDashboardDeniedForUnlinkedStudent(t *testing.T) {
	svc, _, _ := newDashboardFixture()

	_, err := svc.ParentDashboard(context.Background(), parentClaims("parent-2"), "student-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Equal(t, "you do not have access to this resource", appErr.Message)
}

func TestStudentDashboardDecisionCountsIgnoreStage(t *testing.T) {
	svc, apps, _ := newDashboardFixture()
	accepted := models.DecisionAccepted
	app := apps.apps["app-2"]
	app.Status = models.StatusUnderReview
	app.DecisionType = &accepted
	apps.apps["app-2"] = app

	resp, err := svc.StudentDashboard(context.Background(), studentClaims("user-1"))
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Stats.Decisions)
	assert.Equal(t, 2, resp.Stats.Acceptances)
}

func TestStudentDashboardUpcomingKeepsReviewedApplications(t *testing.T) {
	svc, apps, _ := newDashboardFixture()
	app := apps.apps["app-3"]
	app.Deadline = dashboardNow.Add(5 * 24 * time.Hour)
	apps.apps["app-3"] = app

	resp, err := svc.StudentDashboard(context.Background(), studentClaims("user-1"))
	require.NoError(t, err)

	require.Len(t, resp.UpcomingDeadlines, 2)
	assert.Equal(t, "app-3", resp.UpcomingDeadlines[0].ApplicationID)
	assert.Equal(t, 5, resp.UpcomingDeadlines[0].DaysUntilDeadline)
}

func TestStudentDashboardUpcomingHorizonInclusive(t *testing.T) {
	svc, apps, _ := newDashboardFixture()
	app := apps.apps["app-2"]
	app.Deadline = dashboardNow.Add(30 * 24 * time.Hour)
	apps.apps["app-2"] = app

	resp, err := svc.StudentDashboard(context.Background(), studentClaims("user-1"))
	require.NoError(t, err)

	require.Len(t, resp.UpcomingDeadlines, 1)
	assert.Equal(t, "app-2", resp.UpcomingDeadlines[0].ApplicationID)
	assert.Equal(t, 30, resp.UpcomingDeadlines[0].DaysUntilDeadline)
}

func TestStudentDashboardRecomputesEveryRead(t *testing.T) {
	svc, apps, _ := newDashboardFixture()

	first, err := svc.StudentDashboard(context.Background(), studentClaims("user-1"))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Stats.InProgress)

	app := apps.apps["app-2"]
	app.Status = models.StatusSubmitted
	apps.apps["app-2"] = app

	second, err := svc.StudentDashboard(context.Background(), studentClaims("user-1"))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Stats.InProgress)
	assert.Equal(t, 3, second.Stats.Submitted)
}

func TestParentDashboardActivityRequiresDecidedStatus(t *testing.T) {
	svc, apps, _ := newDashboardFixture()
	decisionAt := dashboardNow.Add(-1 * 24 * time.Hour)
	app := apps.apps["app-2"]
	app.DecisionDate = &decisionAt
	apps.apps["app-2"] = app

	resp, err := svc.ParentDashboard(context.Background(), parentClaims("parent-1"), "student-1")
	require.NoError(t, err)

	var action dto.RecentActivityAction
	for _, a := range resp.RecentActivity {
		if a.ApplicationID == "app-2" {
			action = a.Action
		}
	}
	assert.Equal(t, dto.ActivityUpdated, action)
}

func TestParentDashboardFeesTreatUnpublishedAsZero(t *testing.T) {
	students := &mockStudentRepo{
		students:      map[string]models.Student{"user-1": {ID: "student-1", UserID: "user-1", Name: "Alex Doe"}},
		relationships: map[string][]string{"parent-1": {"student-1"}},
	}
	apps := &mockApplicationRepo{apps: map[string]models.Application{
		"app-1": {
			ID: "app-1", StudentID: "student-1", UniversityID: "uni-1",
			ApplicationType: models.TypeRegularDecision, Status: models.StatusInProgress,
			Deadline: dashboardNow.Add(12 * 24 * time.Hour), UpdatedAt: dashboardNow,
		},
	}}
	universities := &mockUniversityRepo{universities: map[string]models.University{
		"uni-1": {ID: "uni-1", Name: "Deep Springs College"},
	}}
	svc := NewDashboardService(DashboardServiceParams{
		Applications: apps,
		Universities: universities,
		Requirements: &mockRequirementRepo{},
		Students:     students,
		Notes:        &mockNoteRepo{},
		Guard:        NewAccessGuard(students, nil),
	})
	svc.now = func() time.Time { return dashboardNow }

	resp, err := svc.ParentDashboard(context.Background(), parentClaims("parent-1"), "student-1")
	require.NoError(t, err)

	assert.Zero(t, resp.FinancialEstimates.TotalApplicationFees)
	assert.Zero(t, resp.FinancialEstimates.EstimatedTuitionRange.Min)
	assert.Zero(t, resp.FinancialEstimates.EstimatedTuitionRange.Max)
}
