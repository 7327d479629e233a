package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/appkademy-api/internal/models"
)

func TestSubjectRepositoryListSearches(t *testing.T) {
	db, mock, closeFn := newTeacherRepoMock(t)
	defer closeFn()
	repo := NewSubjectRepository(db)

	mock.ExpectQuery(`SELECT id, name FROM subjects WHERE LOWER\(name\) LIKE \$1 ORDER BY name ASC LIMIT 10 OFFSET 10`).
		WithArgs("%math%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("s1", "Mathematics"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM subjects WHERE LOWER\(name\) LIKE \$1`).
		WithArgs("%math%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	subjects, total, err := repo.List(context.Background(), models.CatalogFilter{Search: " Math ", Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	assert.Equal(t, []models.Subject{{ID: "s1", Name: "Mathematics"}}, subjects)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, closeFn := newTeacherRepoMock(t)
	defer closeFn()

	mock.ExpectQuery(`SELECT id, name FROM subjects WHERE id = \$1`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := NewSubjectRepository(db).FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTeachingProficiencyRepositoryListBySubject(t *testing.T) {
	db, mock, closeFn := newTeacherRepoMock(t)
	defer closeFn()

	mock.ExpectQuery(`FROM teaching_proficiencies p\s+JOIN subjects s ON s.id = p.subject_id\s+WHERE p.subject_id = \$1`).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "mastery_level", "subject_id", "subject_name"}).
			AddRow("p1", "BEGINNER", "s1", "Mathematics").
			AddRow("p2", "EXPERT", "s1", "Mathematics"))

	list, err := NewTeachingProficiencyRepository(db).ListBySubject(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.MasteryExpert, list[1].MasteryLevel)
	assert.Equal(t, "Mathematics", list[0].Subject.Name)
}

func TestCharacteristicRepositoryList(t *testing.T) {
	db, mock, closeFn := newTeacherRepoMock(t)
	defer closeFn()

	mock.ExpectQuery(`SELECT id, name FROM characteristics ORDER BY name ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("c1", "Patient"))

	list, err := NewCharacteristicRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Characteristic{{ID: "c1", Name: "Patient"}}, list)
}
