package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/appkademy-api/internal/dto"
	"github.com/noah-isme/appkademy-api/internal/middleware"
	"github.com/noah-isme/appkademy-api/internal/models"
	appErrors "github.com/noah-isme/appkademy-api/pkg/errors"
)

type studentServiceMock struct {
	students  map[string]models.Student
	lastQuery dto.StudentListQuery
	deleted   string
}

func (m *studentServiceMock) List(ctx context.Context, query dto.StudentListQuery) ([]models.Student, *models.Pagination, error) {
	m.lastQuery = query
	return []models.Student{}, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func (m *studentServiceMock) Get(ctx context.Context, id string) (*models.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, appErrors.ErrStudentNotFound
	}
	return &s, nil
}

func (m *studentServiceMock) Create(ctx context.Context, req dto.StudentCreateRequest) (*models.Student, error) {
	return &models.Student{ID: "s-new", UserID: req.UserID}, nil
}

func (m *studentServiceMock) Update(ctx context.Context, id string, req dto.StudentUpdateRequest) (*models.Student, error) {
	s := m.students[id]
	return &s, nil
}

func (m *studentServiceMock) Delete(ctx context.Context, id string) error {
	m.deleted = id
	return nil
}

func serveStudent(h *StudentHandler, claims *models.JWTClaims, method, path string, body []byte) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ContextUserKey, claims)
		}
	})
	r.GET("/students", h.List)
	r.GET("/students/:id", h.Get)
	r.POST("/students", h.Create)
	r.PUT("/students/:id", h.Update)
	r.DELETE("/students/:id", h.Delete)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestStudentHandlerListBindsQuery(t *testing.T) {
	svc := &studentServiceMock{}
	w := serveStudent(NewStudentHandler(svc), &models.JWTClaims{Type: models.UserTypeAdmin}, http.MethodGet, "/students?search=ada&enabled=false&page=2&pageSize=5", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada", svc.lastQuery.Search)
	require.NotNil(t, svc.lastQuery.Enabled)
	assert.False(t, *svc.lastQuery.Enabled)
	assert.Equal(t, 2, svc.lastQuery.Page)
	assert.Contains(t, w.Body.String(), `"pagination"`)
}

func TestStudentHandlerGetOwnership(t *testing.T) {
	svc := &studentServiceMock{students: map[string]models.Student{"s1": {ID: "s1", UserID: "owner"}}}
	h := NewStudentHandler(svc)

	w := serveStudent(h, &models.JWTClaims{UserID: "other", Type: models.UserTypeStudent}, http.MethodGet, "/students/s1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serveStudent(h, &models.JWTClaims{UserID: "owner", Type: models.UserTypeStudent}, http.MethodGet, "/students/s1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStudentHandlerCreateAndDelete(t *testing.T) {
	svc := &studentServiceMock{students: map[string]models.Student{"s1": {ID: "s1", UserID: "u1"}}}
	h := NewStudentHandler(svc)
	claims := &models.JWTClaims{UserID: "u1", Type: models.UserTypeNone}

	payload, _ := json.Marshal(map[string]string{"userId": "u1"})
	w := serveStudent(h, claims, http.MethodPost, "/students", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serveStudent(h, claims, http.MethodPost, "/students", []byte(`{`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serveStudent(h, claims, http.MethodDelete, "/students/s1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "s1", svc.deleted)
}
