package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/appkademy-api/internal/models"
	"github.com/noah-isme/appkademy-api/internal/specs"
)

var teacherRowColumns = []string{
	"id", "user_id", "first_name", "last_name", "hourly_rates", "modalities", "weekly_working_schedule",
	"address_country", "address_province", "address_city", "address_street", "provider_category_id",
	"profile_picture_url", "short_description", "full_description", "enabled", "identity_verified",
	"signup_approved_by_admin", "total_likes", "created_on", "last_modified_on",
}

func newTeacherRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func addTeacherRow(rows *sqlmock.Rows, id, userID string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, userID, "Ada", "Lovelace", `{"USD":"25.50"}`, "{REMOTE,FACE_TO_FACE}",
		`{"monday":[{"start":"09:00","end":"12:00"}]}`, "ARGENTINA", "BUENOS_AIRES", "LA_PLATA", "Calle 7",
		int64(1), "https://cdn/pic.png", "short", "full", true, false, true, int64(4), now, now)
}

func TestTeacherRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers t WHERE t.id = $1")).
		WithArgs("t1").
		WillReturnRows(addTeacherRow(sqlmock.NewRows(teacherRowColumns), "t1", "u1"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM teacher_proficiencies tp")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id", "id", "mastery_level", "subject_id", "subject_name"}).
			AddRow("t1", "p2", "EXPERT", "s2", "Physics").
			AddRow("t1", "p1", "BEGINNER", "s1", "Math"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM teacher_characteristics tc")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id", "id", "name"}).AddRow("t1", "c1", "Patient"))

	teacher, err := repo.FindByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "u1", teacher.UserID)
	assert.Equal(t, "LA_PLATA", teacher.Address.City)
	assert.Equal(t, "Calle 7", teacher.Address.StreetAddress)
	assert.True(t, decimal.RequireFromString("25.50").Equal(teacher.HourlyRates[models.CurrencyUSD]))
	assert.Equal(t, models.Modalities{models.ModalityRemote, models.ModalityFaceToFace}, teacher.Modalities)
	require.Len(t, teacher.WeeklyWorkingSchedule.Monday, 1)
	assert.Equal(t, []string{"p2", "p1"}, teacher.ProficiencyIDs())
	assert.Equal(t, "Physics", teacher.Proficiencies[0].Subject.Name)
	assert.Equal(t, []string{"c1"}, teacher.CharacteristicIDs())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers t WHERE t.id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryExistsByUserID(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM teachers WHERE user_id = $1 LIMIT 1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM teachers WHERE user_id = $1 LIMIT 1")).
		WithArgs("u2").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUserID(context.Background(), "u2")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreateWritesLinksInOrder(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	teacher := &models.Teacher{
		UserID:      "u1",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		HourlyRates: models.HourlyRates{models.CurrencyUSD: decimal.NewFromInt(30)},
		Proficiencies: []models.TeachingProficiency{
			{ID: "p1"}, {ID: "p1"},
		},
		Characteristics: []models.Characteristic{{ID: "c1"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO teachers").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teacher_proficiencies (teacher_id, proficiency_id, position)")).
		WithArgs(sqlmock.AnyArg(), "p1", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teacher_proficiencies (teacher_id, proficiency_id, position)")).
		WithArgs(sqlmock.AnyArg(), "p1", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teacher_characteristics (teacher_id, characteristic_id, position)")).
		WithArgs(sqlmock.AnyArg(), "c1", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), teacher))
	assert.NotEmpty(t, teacher.ID)
	assert.False(t, teacher.CreatedOn.IsZero())
	assert.Equal(t, teacher.CreatedOn, teacher.LastModifiedOn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreateRollsBackOnLinkFailure(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO teachers").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO teacher_proficiencies").WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Teacher{UserID: "u1", Proficiencies: []models.TeachingProficiency{{ID: "p1"}}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryUpdateReplacesLinks(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE teachers SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teacher_proficiencies WHERE teacher_id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO teacher_proficiencies").
		WithArgs("t1", "p9", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teacher_characteristics WHERE teacher_id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.Teacher{ID: "t1", Proficiencies: []models.TeachingProficiency{{ID: "p9"}}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE teachers SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Teacher{ID: "missing"})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryClearProficienciesAndDelete(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teacher_proficiencies WHERE teacher_id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teacher_characteristics WHERE teacher_id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teachers WHERE id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ClearProficiencies(context.Background(), "t1"))
	require.NoError(t, repo.Delete(context.Background(), "t1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositorySearchPaginates(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	spec := specs.CountryEquals("ARGENTINA")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM teachers t WHERE t.address_country = $1")).
		WithArgs("ARGENTINA").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	rows := sqlmock.NewRows(teacherRowColumns)
	addTeacherRow(rows, "t6", "u6")
	addTeacherRow(rows, "t7", "u7")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.address_country = $1 ORDER BY t.created_on DESC, t.id LIMIT 5 OFFSET 5")).
		WithArgs("ARGENTINA").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM teacher_proficiencies tp")).
		WithArgs("t6", "t7").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id", "id", "mastery_level", "subject_id", "subject_name"}).
			AddRow("t7", "p1", "ADVANCED", "s1", "Math"))

	page, err := repo.Search(context.Background(), spec, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Empty(t, page.Items[0].Proficiencies)
	assert.Equal(t, []string{"p1"}, page.Items[1].ProficiencyIDs())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositorySearchEmpty(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM teachers t WHERE TRUE")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	page, err := repo.Search(context.Background(), specs.AllOf(), 0, 10)
	require.NoError(t, err)
	assert.True(t, page.Empty())
	assert.Zero(t, page.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositorySearchRejectsInvalidPage(t *testing.T) {
	db, _, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	_, err := repo.Search(context.Background(), specs.AllOf(), -1, 10)
	assert.ErrorIs(t, err, ErrInvalidPageRequest)
	_, err = repo.Search(context.Background(), specs.AllOf(), 0, 0)
	assert.ErrorIs(t, err, ErrInvalidPageRequest)
}

func TestTxManagerSharesTransaction(t *testing.T) {
	db, mock, cleanup := newTeacherRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)
	users := NewUserRepository(db)
	tm := NewTxManager(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teacher_proficiencies WHERE teacher_id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := tm.WithinTx(context.Background(), func(ctx context.Context) error {
		if err := repo.ClearProficiencies(ctx, "t1"); err != nil {
			return err
		}
		return users.UpdateType(ctx, &models.User{ID: "u1", Type: models.UserTypeNone})
	})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
