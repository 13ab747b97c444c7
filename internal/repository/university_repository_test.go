package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegetrack/collegetrack-api/internal/models"
)

func universityRows() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "name", "country", "state", "city", "ranking", "acceptance_rate",
		"application_system", "tuition_in_state", "tuition_out_state", "application_fee",
		"deadlines", "available_majors", "created_at", "updated_at",
	}).AddRow(
		"uni-1", "Stanford University", "USA", "CA", "Stanford", 3, 4.3,
		"Common App", 56169.0, 56169.0, 90.0,
		[]byte(`{"early_action":"2025-11-01T00:00:00Z","regular_decision":"2026-01-05T00:00:00Z"}`),
		"{}", now, now,
	)
}

func TestUniversityRepositorySearchByName(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUniversityRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM universities WHERE 1=1 AND LOWER\\(name\\) LIKE").
		WithArgs("%stanford%").
		WillReturnRows(universityRows())
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM universities").
		WithArgs("%stanford%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	universities, total, err := repo.Search(context.Background(), models.UniversityFilter{Query: "Stanford"})
	require.NoError(t, err)
	require.Len(t, universities, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Stanford University", universities[0].Name)

	deadline, ok := universities[0].DeadlineFor(models.TypeEarlyAction)
	require.True(t, ok)
	assert.Equal(t, 2025, deadline.Year())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUniversityRepositoryFindByIDsBatches(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUniversityRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM universities WHERE id = ANY").
		WillReturnRows(universityRows())

	universities, err := repo.FindByIDs(context.Background(), []string{"uni-1", "uni-2"})
	require.NoError(t, err)
	assert.Len(t, universities, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUniversityRepositoryFindByIDsEmpty(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUniversityRepository(db)

	universities, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, universities)
}
