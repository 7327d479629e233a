package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/appkademy-api/internal/dto"
	"github.com/noah-isme/appkademy-api/internal/models"
	appErrors "github.com/noah-isme/appkademy-api/pkg/errors"
)

type mockStudentRepo struct {
	students   map[string]models.Student
	lastFilter models.StudentFilter
	seq        int
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	m.lastFilter = filter
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *mockStudentRepo) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	for _, s := range m.students {
		if s.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.seq++
	student.ID = fmt.Sprintf("student-%d", m.seq)
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return sql.ErrNoRows
	}
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.students[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.students, id)
	return nil
}

func newStudentServiceForTest(reset bool) (*StudentService, *mockStudentRepo, *memUserRepo, *memTeacherRepo) {
	repo := &mockStudentRepo{students: map[string]models.Student{}}
	teachers := newMemTeacherRepo()
	users := &memUserRepo{items: map[string]*models.User{
		"u1": {ID: "u1", Email: "ada@example.com", Type: models.UserTypeNone},
	}}
	validation := NewTeacherValidationService(teachers, repo, memProficiencies{}, memCharacteristics{}, nil)
	tx := &memTx{snapshots: []func() func(){users.snapshot}}
	svc := NewStudentService(repo, users, tx, validation, nil, nil, zap.NewNop(), reset)
	return svc, repo, users, teachers
}

func validStudentRequest(userID string) dto.StudentCreateRequest {
	return dto.StudentCreateRequest{
		UserID:    userID,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     " ada@example.com ",
		Address:   dto.AddressRequest{Country: "ARGENTINA", Province: "BUENOS_AIRES", City: "LA_PLATA"},
	}
}

func TestStudentServiceCreateLinksUser(t *testing.T) {
	svc, repo, users, _ := newStudentServiceForTest(true)

	student, err := svc.Create(context.Background(), validStudentRequest("u1"))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", student.Email)
	assert.True(t, student.Enabled)
	assert.Len(t, repo.students, 1)

	user := users.items["u1"]
	assert.Equal(t, models.UserTypeStudent, user.Type)
	require.NotNil(t, user.UserTypeID)
	assert.Equal(t, student.ID, *user.UserTypeID)
}

func TestStudentServiceCreateRejectsTeacherUser(t *testing.T) {
	svc, repo, _, teachers := newStudentServiceForTest(true)
	teachers.put(models.Teacher{ID: "t1", UserID: "u1"})

	_, err := svc.Create(context.Background(), validStudentRequest("u1"))
	assert.ErrorIs(t, err, appErrors.ErrDuplicateUserRole)
	assert.Empty(t, repo.students)
}

func TestStudentServiceCreateRejectsBadEmail(t *testing.T) {
	svc, repo, _, _ := newStudentServiceForTest(true)
	req := validStudentRequest("u1")
	req.Email = "nope"

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrInvalidEmail)
	assert.Empty(t, repo.students)
}

func TestStudentServiceListDefaults(t *testing.T) {
	svc, repo, _, _ := newStudentServiceForTest(true)
	repo.students["s1"] = models.Student{ID: "s1"}

	items, pagination, err := svc.List(context.Background(), dto.StudentListQuery{Search: "  ada ", PageSize: 500})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "ada", repo.lastFilter.Search)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestStudentServiceUpdateAndDelete(t *testing.T) {
	svc, repo, users, _ := newStudentServiceForTest(true)
	student, err := svc.Create(context.Background(), validStudentRequest("u1"))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), student.ID, dto.StudentUpdateRequest{
		FirstName: "Augusta",
		LastName:  "King",
		Email:     "augusta@example.com",
		Address:   dto.AddressRequest{Country: "URUGUAY", Province: "MONTEVIDEO", City: "MONTEVIDEO"},
		Enabled:   false,
	})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", updated.FirstName)
	assert.False(t, repo.students[student.ID].Enabled)

	require.NoError(t, svc.Delete(context.Background(), student.ID))
	assert.Empty(t, repo.students)
	assert.Equal(t, models.UserTypeNone, users.items["u1"].Type)

	err = svc.Delete(context.Background(), student.ID)
	assert.ErrorIs(t, err, appErrors.ErrStudentNotFound)
	_, err = svc.Get(context.Background(), student.ID)
	assert.ErrorIs(t, err, appErrors.ErrStudentNotFound)
}
