package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegetrack/collegetrack-api/internal/models"
	"github.com/collegetrack/collegetrack-api/internal/service"
	"github.com/collegetrack/collegetrack-api/pkg/response"
)

type userRepoMock struct {
	users map[string]models.User
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		copied := u
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *userRepoMock) FindByID(ctx context.Context, id string) (*models.User, error) {
	return nil, sql.ErrNoRows
}

func (m *userRepoMock) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]models.User)
	}
	m.users[user.Email] = *user
	return nil
}

func (m *userRepoMock) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return nil
}

type studentRepoMock struct {
	created []models.Student
}

func (m *studentRepoMock) Create(ctx context.Context, student *models.Student) error {
	m.created = append(m.created, *student)
	return nil
}

func newAuthTestHandler() (*AuthHandler, *userRepoMock) {
	users := &userRepoMock{}
	auth := service.NewAuthService(users, &studentRepoMock{}, nil, nil, service.AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "collegetrack",
	})
	return NewAuthHandler(auth, "auth-token", 3600), users
}

func performJSON(t *testing.T, h gin.HandlerFunc, method, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	h(c)
	return w
}

func TestAuthHandlerRegisterSetsCookie(t *testing.T) {
	handler, _ := newAuthTestHandler()

	w := performJSON(t, handler.Register, http.MethodPost, "/api/v1/auth/register", models.RegisterRequest{
		Email:     "student@demo.com",
		Password:  "password123",
		FirstName: "Alex",
		LastName:  "Doe",
		Role:      models.RoleStudent,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "auth-token=")

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Error)
	assert.Equal(t, response.Version, envelope.Meta.Version)
}

func TestAuthHandlerRegisterInvalidPayload(t *testing.T) {
	handler, _ := newAuthTestHandler()

	w := performJSON(t, handler.Register, http.MethodPost, "/api/v1/auth/register", models.RegisterRequest{
		Email: "not-an-email",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestAuthHandlerLoginWrongCredentials(t *testing.T) {
	handler, _ := newAuthTestHandler()

	w := performJSON(t, handler.Login, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{
		Email:    "ghost@demo.com",
		Password: "password123",
	})

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "AUTHENTICATION_ERROR", envelope.Error.Code)
}
