package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegetrack/collegetrack-api/internal/dto"
	"github.com/collegetrack/collegetrack-api/internal/models"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
)

func newParentFixture() (*ParentService, *mockNoteRepo) {
	students := &mockStudentRepo{
		students: map[string]models.Student{
			"user-1": {ID: "student-1", UserID: "user-1", Name: "Alex Doe"},
		},
		relationships: map[string][]string{"parent-1": {"student-1"}},
		summaries:     []models.StudentSummary{{ID: "student-1", Name: "Alex Doe"}},
	}
	apps := &mockApplicationRepo{apps: map[string]models.Application{
		"app-1": {ID: "app-1", StudentID: "student-1", Status: models.StatusInProgress},
	}}
	notes := &mockNoteRepo{}
	guard := NewAccessGuard(students, nil)
	svc := NewParentService(students, notes, apps, guard, nil, nil)
	return svc, notes
}

func TestParentListStudents(t *testing.T) {
	svc, _ := newParentFixture()

	students, err := svc.ListStudents(context.Background(), parentClaims("parent-1"))
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Alex Doe", students[0].Name)

	_, err = svc.ListStudents(context.Background(), studentClaims("user-1"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestParentAddNote(t *testing.T) {
	svc, notes := newParentFixture()

	note, err := svc.AddNote(context.Background(), parentClaims("parent-1"), "app-1", dto.CreateParentNoteRequest{Note: "Check the essay deadline"})
	require.NoError(t, err)
	assert.Equal(t, "student-1", note.StudentID)
	assert.Equal(t, "parent-1", note.ParentID)
	require.Len(t, notes.notes, 1)
}

func TestParentAddNoteRejectsOversizedText(t *testing.T) {
	svc, _ := newParentFixture()

	_, err := svc.AddNote(context.Background(), parentClaims("parent-1"), "app-1", dto.CreateParentNoteRequest{
		Note: strings.Repeat("x", models.MaxParentNoteLength+1),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestParentAddNoteDeniedForUnlinkedStudent(t *testing.T) {
	svc, notes := newParentFixture()

	_, err := svc.AddNote(context.Background(), parentClaims("parent-2"), "app-1", dto.CreateParentNoteRequest{Note: "hello"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, notes.notes)
}
