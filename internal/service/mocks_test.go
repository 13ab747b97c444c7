package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/collegetrack/collegetrack-api/internal/models"
)

type mockStudentRepo struct {
	students      map[string]models.Student
	relationships map[string][]string
	summaries     []models.StudentSummary
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	for _, s := range m.students {
		if s.ID == id {
			copied := s
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	if s, ok := m.students[userID]; ok {
		copied := s
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) HasRelationship(ctx context.Context, parentID, studentID string) (bool, error) {
	for _, id := range m.relationships[parentID] {
		if id == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = make(map[string]models.Student)
	}
	m.students[student.UserID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.UserID] = *student
	return nil
}

func (m *mockStudentRepo) ListByParent(ctx context.Context, parentID string) ([]models.StudentSummary, error) {
	return m.summaries, nil
}

type mockApplicationRepo struct {
	apps      map[string]models.Application
	submitted []string
	deleted   []string
}

func (m *mockApplicationRepo) FindByID(ctx context.Context, id string) (*models.Application, error) {
	if app, ok := m.apps[id]; ok {
		copied := app
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockApplicationRepo) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, int, error) {
	apps, err := m.ListByStudent(ctx, filter.StudentID)
	return apps, len(apps), err
}

func (m *mockApplicationRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Application, error) {
	var result []models.Application
	for _, app := range m.apps {
		if app.StudentID == studentID {
			result = append(result, app)
		}
	}
	return result, nil
}

func (m *mockApplicationRepo) Exists(ctx context.Context, studentID, universityID string, appType models.ApplicationType) (bool, error) {
	for _, app := range m.apps {
		if app.StudentID == studentID && app.UniversityID == universityID && app.ApplicationType == appType {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockApplicationRepo) CreateWithRequirements(ctx context.Context, app *models.Application, templates []models.UniversityRequirement) error {
	if app.ID == "" {
		app.ID = "app-" + app.UniversityID
	}
	if m.apps == nil {
		m.apps = make(map[string]models.Application)
	}
	m.apps[app.ID] = *app
	return nil
}

func (m *mockApplicationRepo) Update(ctx context.Context, app *models.Application) error {
	m.apps[app.ID] = *app
	return nil
}

func (m *mockApplicationRepo) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	app := m.apps[id]
	app.Status = status
	m.apps[id] = app
	return nil
}

func (m *mockApplicationRepo) Submit(ctx context.Context, id string, submittedAt time.Time) error {
	app := m.apps[id]
	app.Status = models.StatusSubmitted
	app.SubmittedDate = &submittedAt
	m.apps[id] = app
	m.submitted = append(m.submitted, id)
	return nil
}

func (m *mockApplicationRepo) DeleteCascade(ctx context.Context, id string) error {
	delete(m.apps, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockUniversityRepo struct {
	universities map[string]models.University
	templates    map[string][]models.UniversityRequirement
}

func (m *mockUniversityRepo) Search(ctx context.Context, filter models.UniversityFilter) ([]models.University, int, error) {
	var result []models.University
	for _, u := range m.universities {
		result = append(result, u)
	}
	return result, len(result), nil
}

func (m *mockUniversityRepo) FindByID(ctx context.Context, id string) (*models.University, error) {
	if u, ok := m.universities[id]; ok {
		copied := u
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUniversityRepo) FindByIDs(ctx context.Context, ids []string) ([]models.University, error) {
	var result []models.University
	for _, id := range ids {
		if u, ok := m.universities[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *mockUniversityRepo) ListRequirements(ctx context.Context, universityID string) ([]models.UniversityRequirement, error) {
	return m.templates[universityID], nil
}

type mockRequirementRepo struct {
	requirements map[string]models.ApplicationRequirement
}

func (m *mockRequirementRepo) FindByID(ctx context.Context, id, applicationID string) (*models.ApplicationRequirement, error) {
	if r, ok := m.requirements[id]; ok && r.ApplicationID == applicationID {
		copied := r
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRequirementRepo) ListByApplication(ctx context.Context, applicationID string) ([]models.ApplicationRequirement, error) {
	var result []models.ApplicationRequirement
	for _, r := range m.requirements {
		if r.ApplicationID == applicationID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockRequirementRepo) ListByApplicationIDs(ctx context.Context, applicationIDs []string) ([]models.ApplicationRequirement, error) {
	var result []models.ApplicationRequirement
	for _, id := range applicationIDs {
		reqs, _ := m.ListByApplication(ctx, id)
		result = append(result, reqs...)
	}
	return result, nil
}

func (m *mockRequirementRepo) ExistsType(ctx context.Context, applicationID string, reqType models.RequirementType) (bool, error) {
	for _, r := range m.requirements {
		if r.ApplicationID == applicationID && r.RequirementType == reqType {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRequirementRepo) Create(ctx context.Context, req *models.ApplicationRequirement) error {
	if req.ID == "" {
		req.ID = "req-" + string(req.RequirementType)
	}
	if m.requirements == nil {
		m.requirements = make(map[string]models.ApplicationRequirement)
	}
	m.requirements[req.ID] = *req
	return nil
}

func (m *mockRequirementRepo) Update(ctx context.Context, req *models.ApplicationRequirement) error {
	m.requirements[req.ID] = *req
	return nil
}

func (m *mockRequirementRepo) Delete(ctx context.Context, id string) error {
	delete(m.requirements, id)
	return nil
}

type mockNoteRepo struct {
	notes []models.ParentNote
}

func (m *mockNoteRepo) Create(ctx context.Context, note *models.ParentNote) error {
	if note.ID == "" {
		note.ID = "note-1"
	}
	m.notes = append(m.notes, *note)
	return nil
}

func (m *mockNoteRepo) ListByApplication(ctx context.Context, parentID, applicationID string) ([]models.ParentNote, error) {
	var result []models.ParentNote
	for _, n := range m.notes {
		if n.ParentID == parentID && n.ApplicationID == applicationID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (m *mockNoteRepo) ListByStudent(ctx context.Context, parentID, studentID string, limit int) ([]models.ParentNote, error) {
	var result []models.ParentNote
	for _, n := range m.notes {
		if n.ParentID == parentID && n.StudentID == studentID {
			result = append(result, n)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func studentClaims(userID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, Role: models.RoleStudent, Email: userID + "@example.com"}
}

func parentClaims(userID string) *models.JWTClaims {
	return &models.JWTClaims{UserID: userID, Role: models.RoleParent, Email: userID + "@example.com"}
}

func amount(v float64) *float64 {
	return &v
}
