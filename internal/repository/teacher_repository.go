package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/appkademy-api/internal/models"
	"github.com/noah-isme/appkademy-api/internal/specs"
)

// ErrInvalidPageRequest is returned by paginated queries given a negative page
// index or a page size below one.
var ErrInvalidPageRequest = errors.New("invalid page request")

const teacherColumns = `t.id, t.user_id, t.first_name, t.last_name, t.hourly_rates, t.modalities, t.weekly_working_schedule,
	t.address_country, t.address_province, t.address_city, t.address_street, t.provider_category_id,
	t.profile_picture_url, t.short_description, t.full_description, t.enabled, t.identity_verified,
	t.signup_approved_by_admin, t.total_likes, t.created_on, t.last_modified_on`

// teacherRow flattens the embedded address into its columns.
type teacherRow struct {
	models.Teacher
	AddressCountry  string `db:"address_country"`
	AddressProvince string `db:"address_province"`
	AddressCity     string `db:"address_city"`
	AddressStreet   string `db:"address_street"`
}

func newTeacherRow(t *models.Teacher) *teacherRow {
	return &teacherRow{
		Teacher:         *t,
		AddressCountry:  t.Address.Country,
		AddressProvince: t.Address.Province,
		AddressCity:     t.Address.City,
		AddressStreet:   t.Address.StreetAddress,
	}
}

func (r teacherRow) toModel() models.Teacher {
	teacher := r.Teacher
	teacher.Address = models.Address{
		Country:       r.AddressCountry,
		Province:      r.AddressProvince,
		City:          r.AddressCity,
		StreetAddress: r.AddressStreet,
	}
	return teacher
}

type characteristicLinkRow struct {
	TeacherID string `db:"teacher_id"`
	ID        string `db:"id"`
	Name      string `db:"name"`
}

// TeacherRepository manages persistence for teachers and their proficiency and
// characteristic associations.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindByID fetches a fully hydrated teacher. Returns sql.ErrNoRows when absent.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	return r.findOne(ctx, "t.id", id)
}

// FindByUserID fetches the hydrated teacher owned by a user. Returns
// sql.ErrNoRows when absent.
func (r *TeacherRepository) FindByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	return r.findOne(ctx, "t.user_id", userID)
}

func (r *TeacherRepository) findOne(ctx context.Context, column, value string) (*models.Teacher, error) {
	q := conn(ctx, r.db)
	query := fmt.Sprintf("SELECT %s FROM teachers t WHERE %s = $1 LIMIT 1", teacherColumns, column)
	var row teacherRow
	if err := sqlx.GetContext(ctx, q, &row, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher by %s: %w", column, err)
	}
	teachers := []models.Teacher{row.toModel()}
	if err := r.loadProficiencies(ctx, q, teachers); err != nil {
		return nil, err
	}
	if err := r.loadCharacteristics(ctx, q, teachers); err != nil {
		return nil, err
	}
	return &teachers[0], nil
}

// ExistsByUserID reports whether any teacher references the user.
func (r *TeacherRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	var exists int
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &exists, "SELECT 1 FROM teachers WHERE user_id = $1 LIMIT 1", userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check teacher user: %w", err)
	}
	return true, nil
}

// Create inserts a teacher together with its association rows and assigns its id.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if teacher.CreatedOn.IsZero() {
		teacher.CreatedOn = now
	}
	if teacher.LastModifiedOn.IsZero() {
		teacher.LastModifiedOn = teacher.CreatedOn
	}

	const query = `INSERT INTO teachers (id, user_id, first_name, last_name, hourly_rates, modalities, weekly_working_schedule,
		address_country, address_province, address_city, address_street, provider_category_id, profile_picture_url,
		short_description, full_description, enabled, identity_verified, signup_approved_by_admin, total_likes, created_on, last_modified_on)
		VALUES (:id, :user_id, :first_name, :last_name, :hourly_rates, :modalities, :weekly_working_schedule,
		:address_country, :address_province, :address_city, :address_street, :provider_category_id, :profile_picture_url,
		:short_description, :full_description, :enabled, :identity_verified, :signup_approved_by_admin, :total_likes, :created_on, :last_modified_on)`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := sqlx.NamedExecContext(ctx, tx, query, newTeacherRow(teacher)); err != nil {
			return fmt.Errorf("create teacher: %w", err)
		}
		if err := insertLinks(ctx, tx, "teacher_proficiencies", "proficiency_id", teacher.ID, teacher.ProficiencyIDs()); err != nil {
			return err
		}
		return insertLinks(ctx, tx, "teacher_characteristics", "characteristic_id", teacher.ID, teacher.CharacteristicIDs())
	})
}

// Update rewrites every mutable column and replaces the association rows.
// Returns sql.ErrNoRows when the teacher does not exist.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	if teacher.LastModifiedOn.IsZero() {
		teacher.LastModifiedOn = time.Now().UTC()
	}

	const query = `UPDATE teachers SET first_name = :first_name, last_name = :last_name, hourly_rates = :hourly_rates,
		modalities = :modalities, weekly_working_schedule = :weekly_working_schedule, address_country = :address_country,
		address_province = :address_province, address_city = :address_city, address_street = :address_street,
		profile_picture_url = :profile_picture_url, short_description = :short_description, full_description = :full_description,
		enabled = :enabled, total_likes = :total_likes, last_modified_on = :last_modified_on
		WHERE id = :id`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := sqlx.NamedExecContext(ctx, tx, query, newTeacherRow(teacher))
		if err != nil {
			return fmt.Errorf("update teacher: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM teacher_proficiencies WHERE teacher_id = $1", teacher.ID); err != nil {
			return fmt.Errorf("reset teacher proficiencies: %w", err)
		}
		if err := insertLinks(ctx, tx, "teacher_proficiencies", "proficiency_id", teacher.ID, teacher.ProficiencyIDs()); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM teacher_characteristics WHERE teacher_id = $1", teacher.ID); err != nil {
			return fmt.Errorf("reset teacher characteristics: %w", err)
		}
		return insertLinks(ctx, tx, "teacher_characteristics", "characteristic_id", teacher.ID, teacher.CharacteristicIDs())
	})
}

// ClearProficiencies removes every proficiency association of the teacher.
func (r *TeacherRepository) ClearProficiencies(ctx context.Context, id string) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM teacher_proficiencies WHERE teacher_id = $1", id); err != nil {
		return fmt.Errorf("clear teacher proficiencies: %w", err)
	}
	return nil
}

// Delete removes the teacher row and its characteristic associations.
// Returns sql.ErrNoRows when nothing was deleted.
func (r *TeacherRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM teacher_characteristics WHERE teacher_id = $1", id); err != nil {
			return fmt.Errorf("delete teacher characteristics: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM teachers WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("delete teacher: %w", err)
		}
		return requireAffected(res)
	})
}

// Search returns the zero-based page of teachers matching spec, newest first,
// with each teacher's proficiencies loaded.
func (r *TeacherRepository) Search(ctx context.Context, spec specs.Spec, pageIndex, pageSize int) (*models.TeacherPage, error) {
	if pageIndex < 0 || pageSize < 1 {
		return nil, ErrInvalidPageRequest
	}

	q := conn(ctx, r.db)
	binder := specs.NewBinder()
	where := spec.Where(binder)

	var total int64
	if err := sqlx.GetContext(ctx, q, &total, "SELECT COUNT(*) FROM teachers t WHERE "+where, binder.Args()...); err != nil {
		return nil, fmt.Errorf("count teachers: %w", err)
	}

	page := &models.TeacherPage{
		Items:         []models.Teacher{},
		TotalElements: total,
		TotalPages:    totalPages(total, pageSize),
	}
	offset := int64(pageIndex) * int64(pageSize)
	if offset >= total {
		return page, nil
	}

	query := fmt.Sprintf("SELECT %s FROM teachers t WHERE %s ORDER BY t.created_on DESC, t.id LIMIT %d OFFSET %d", teacherColumns, where, pageSize, offset)
	var rows []teacherRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, binder.Args()...); err != nil {
		return nil, fmt.Errorf("search teachers: %w", err)
	}

	teachers := make([]models.Teacher, len(rows))
	for i := range rows {
		teachers[i] = rows[i].toModel()
	}
	if err := r.loadProficiencies(ctx, q, teachers); err != nil {
		return nil, err
	}
	page.Items = teachers
	return page, nil
}

func (r *TeacherRepository) loadProficiencies(ctx context.Context, q sqlx.QueryerContext, teachers []models.Teacher) error {
	if len(teachers) == 0 {
		return nil
	}
	ids := make([]string, len(teachers))
	for i := range teachers {
		ids[i] = teachers[i].ID
	}

	query, args, err := sqlx.In(`SELECT tp.teacher_id, p.id, p.mastery_level, s.id AS subject_id, s.name AS subject_name
		FROM teacher_proficiencies tp
		JOIN teaching_proficiencies p ON p.id = tp.proficiency_id
		JOIN subjects s ON s.id = p.subject_id
		WHERE tp.teacher_id IN (?) ORDER BY tp.teacher_id, tp.position`, ids)
	if err != nil {
		return fmt.Errorf("build proficiency query: %w", err)
	}
	var rows []proficiencyRow
	if err := sqlx.SelectContext(ctx, q, &rows, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return fmt.Errorf("load teacher proficiencies: %w", err)
	}

	byTeacher := make(map[string][]models.TeachingProficiency, len(teachers))
	for _, row := range rows {
		byTeacher[row.TeacherID] = append(byTeacher[row.TeacherID], row.toModel())
	}
	for i := range teachers {
		teachers[i].Proficiencies = byTeacher[teachers[i].ID]
		if teachers[i].Proficiencies == nil {
			teachers[i].Proficiencies = []models.TeachingProficiency{}
		}
	}
	return nil
}

func (r *TeacherRepository) loadCharacteristics(ctx context.Context, q sqlx.QueryerContext, teachers []models.Teacher) error {
	if len(teachers) == 0 {
		return nil
	}
	ids := make([]string, len(teachers))
	for i := range teachers {
		ids[i] = teachers[i].ID
	}

	query, args, err := sqlx.In(`SELECT tc.teacher_id, c.id, c.name
		FROM teacher_characteristics tc
		JOIN characteristics c ON c.id = tc.characteristic_id
		WHERE tc.teacher_id IN (?) ORDER BY tc.teacher_id, tc.position`, ids)
	if err != nil {
		return fmt.Errorf("build characteristic query: %w", err)
	}
	var rows []characteristicLinkRow
	if err := sqlx.SelectContext(ctx, q, &rows, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return fmt.Errorf("load teacher characteristics: %w", err)
	}

	byTeacher := make(map[string][]models.Characteristic, len(teachers))
	for _, row := range rows {
		byTeacher[row.TeacherID] = append(byTeacher[row.TeacherID], models.Characteristic{ID: row.ID, Name: row.Name})
	}
	for i := range teachers {
		teachers[i].Characteristics = byTeacher[teachers[i].ID]
	}
	return nil
}

// insertLinks writes ordered association rows; duplicates keep their own position.
func insertLinks(ctx context.Context, exec sqlx.ExecerContext, table, column, teacherID string, ids []string) error {
	query := fmt.Sprintf("INSERT INTO %s (teacher_id, %s, position) VALUES ($1, $2, $3)", table, column)
	for i, id := range ids {
		if _, err := exec.ExecContext(ctx, query, teacherID, id, i); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
