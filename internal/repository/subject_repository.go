package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/appkademy-api/internal/models"
)

// SubjectRepository reads the subject catalogue.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects whose name contains filter.Search, with the total match count.
func (r *SubjectRepository) List(ctx context.Context, filter models.CatalogFilter) ([]models.Subject, int, error) {
	base := "FROM subjects"
	var args []interface{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		base += " WHERE LOWER(name) LIKE $1"
		args = append(args, "%"+strings.ToLower(search)+"%")
	}

	page, size := filter.Normalize()
	query := fmt.Sprintf("SELECT id, name %s ORDER BY name ASC LIMIT %d OFFSET %d", base, size, (page-1)*size)
	var subjects []models.Subject
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &subjects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	var total int
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}
	return subjects, total, nil
}

// FindByID returns a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	var subject models.Subject
	if err := sqlx.GetContext(ctx, conn(ctx, r.db), &subject, `SELECT id, name FROM subjects WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &subject, nil
}
