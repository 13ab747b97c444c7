package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/collegetrack/collegetrack-api/internal/models"
	appErrors "github.com/collegetrack/collegetrack-api/pkg/errors"
)

type mockUserRepo struct {
	users  map[string]models.User
	audits []models.AuditLog
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		copied := u
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			copied := u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]models.User)
	}
	m.users[user.Email] = *user
	return nil
}

func (m *mockUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.audits = append(m.audits, *log)
	return nil
}

func newAuthFixture() (*AuthService, *mockUserRepo, *mockStudentRepo) {
	users := &mockUserRepo{}
	students := &mockStudentRepo{}
	svc := NewAuthService(users, students, nil, nil, AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "collegetrack",
	})
	return svc, users, students
}

func TestRegisterStudentCreatesProfile(t *testing.T) {
	svc, users, students := newAuthFixture()

	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:     "student@demo.com",
		Password:  "password123",
		FirstName: "Alex",
		LastName:  "Doe",
		Role:      models.RoleStudent,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleStudent, resp.User.Role)

	user := users.users["student@demo.com"]
	student, err := students.FindByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alex Doe", student.Name)
	require.Len(t, users.audits, 1)
	assert.Equal(t, models.AuditActionRegister, users.audits[0].Action)
}

func TestRegisterParentSkipsProfile(t *testing.T) {
	svc, _, students := newAuthFixture()

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:     "parent@demo.com",
		Password:  "password123",
		FirstName: "Jamie",
		LastName:  "Doe",
		Role:      models.RoleParent,
	})
	require.NoError(t, err)
	assert.Empty(t, students.students)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newAuthFixture()
	req := models.RegisterRequest{
		Email:     "student@demo.com",
		Password:  "password123",
		FirstName: "Alex",
		LastName:  "Doe",
		Role:      models.RoleStudent,
	}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLoginVerifiesPassword(t *testing.T) {
	svc, users, _ := newAuthFixture()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	users.users = map[string]models.User{
		"student@demo.com": {ID: "user-1", Email: "student@demo.com", PasswordHash: string(hash), Role: models.RoleStudent},
	}

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "student@demo.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "student@demo.com", Password: "wrong-password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc, _, _ := newAuthFixture()

	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:     "student@demo.com",
		Password:  "password123",
		FirstName: "Alex",
		LastName:  "Doe",
		Role:      models.RoleStudent,
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)

	_, err = svc.ValidateToken(resp.Token + "tampered")
	require.Error(t, err)
}
