package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/appkademy-api/internal/models"
)

const studentColumns = `id, user_id, first_name, last_name, email, address_country, address_province, address_city,
	address_street, profile_picture_url, enabled, created_on, last_modified_on`

type studentRow struct {
	models.Student
	AddressCountry  string `db:"address_country"`
	AddressProvince string `db:"address_province"`
	AddressCity     string `db:"address_city"`
	AddressStreet   string `db:"address_street"`
}

func newStudentRow(s *models.Student) *studentRow {
	return &studentRow{
		Student:         *s,
		AddressCountry:  s.Address.Country,
		AddressProvince: s.Address.Province,
		AddressCity:     s.Address.City,
		AddressStreet:   s.Address.StreetAddress,
	}
}

func (r studentRow) toModel() models.Student {
	student := r.Student
	student.Address = models.Address{
		Country:       r.AddressCountry,
		Province:      r.AddressProvince,
		City:          r.AddressCity,
		StreetAddress: r.AddressStreet,
	}
	return student
}

// StudentRepository manages persistence for student profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters along with the total count.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Enabled != nil {
		conditions = append(conditions, fmt.Sprintf("enabled = $%d", len(args)+1))
		args = append(args, *filter.Enabled)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR LOWER(email) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	q := conn(ctx, r.db)
	query := fmt.Sprintf("SELECT %s %s ORDER BY created_on DESC LIMIT %d OFFSET %d", studentColumns, base, size, offset)
	var rows []studentRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := sqlx.GetContext(ctx, q, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	students := make([]models.Student, len(rows))
	for i := range rows {
		students[i] = rows[i].toModel()
	}
	return students, total, nil
}

// FindByID fetches a student by id. Returns sql.ErrNoRows when absent.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var row studentRow
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	student := row.toModel()
	return &student, nil
}

// ExistsByUserID reports whether any student references the user.
func (r *StudentRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	var exists int
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &exists, "SELECT 1 FROM students WHERE user_id = $1 LIMIT 1", userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check student user: %w", err)
	}
	return true, nil
}

// Create inserts a new student and assigns its id.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedOn.IsZero() {
		student.CreatedOn = now
	}
	student.LastModifiedOn = student.CreatedOn

	const query = `INSERT INTO students (id, user_id, first_name, last_name, email, address_country, address_province,
		address_city, address_street, profile_picture_url, enabled, created_on, last_modified_on)
		VALUES (:id, :user_id, :first_name, :last_name, :email, :address_country, :address_province,
		:address_city, :address_street, :profile_picture_url, :enabled, :created_on, :last_modified_on)`
	if _, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, newStudentRow(student)); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update rewrites every mutable column. Returns sql.ErrNoRows when the student does not exist.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.LastModifiedOn = time.Now().UTC()
	const query = `UPDATE students SET first_name = :first_name, last_name = :last_name, email = :email,
		address_country = :address_country, address_province = :address_province, address_city = :address_city,
		address_street = :address_street, profile_picture_url = :profile_picture_url, enabled = :enabled,
		last_modified_on = :last_modified_on WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, conn(ctx, r.db), query, newStudentRow(student))
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a student. Returns sql.ErrNoRows when nothing was deleted.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return requireAffected(res)
}
