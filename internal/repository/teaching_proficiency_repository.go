package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/appkademy-api/internal/models"
)

type proficiencyRow struct {
	TeacherID    string `db:"teacher_id"`
	ID           string `db:"id"`
	MasteryLevel string `db:"mastery_level"`
	SubjectID    string `db:"subject_id"`
	SubjectName  string `db:"subject_name"`
}

func (r proficiencyRow) toModel() models.TeachingProficiency {
	return models.TeachingProficiency{
		ID:           r.ID,
		Subject:      models.Subject{ID: r.SubjectID, Name: r.SubjectName},
		MasteryLevel: models.MasteryLevel(r.MasteryLevel),
	}
}

// TeachingProficiencyRepository reads the shared proficiency catalogue.
type TeachingProficiencyRepository struct {
	db *sqlx.DB
}

// NewTeachingProficiencyRepository constructs a TeachingProficiencyRepository.
func NewTeachingProficiencyRepository(db *sqlx.DB) *TeachingProficiencyRepository {
	return &TeachingProficiencyRepository{db: db}
}

// FindByIDs returns the proficiencies whose id is in ids, keyed by id. Unknown ids
// are simply absent from the result.
func (r *TeachingProficiencyRepository) FindByIDs(ctx context.Context, ids []string) (map[string]models.TeachingProficiency, error) {
	result := make(map[string]models.TeachingProficiency, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`SELECT p.id, p.mastery_level, s.id AS subject_id, s.name AS subject_name
		FROM teaching_proficiencies p
		JOIN subjects s ON s.id = p.subject_id
		WHERE p.id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build proficiency lookup: %w", err)
	}
	var rows []proficiencyRow
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rows, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, fmt.Errorf("find proficiencies: %w", err)
	}
	for _, row := range rows {
		result[row.ID] = row.toModel()
	}
	return result, nil
}

// ListBySubject returns every proficiency offered for a subject, lowest mastery first.
func (r *TeachingProficiencyRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.TeachingProficiency, error) {
	const query = `SELECT p.id, p.mastery_level, s.id AS subject_id, s.name AS subject_name
		FROM teaching_proficiencies p
		JOIN subjects s ON s.id = p.subject_id
		WHERE p.subject_id = $1
		ORDER BY CASE p.mastery_level
			WHEN 'BEGINNER' THEN 0 WHEN 'INTERMEDIATE' THEN 1 WHEN 'ADVANCED' THEN 2 ELSE 3 END`
	var rows []proficiencyRow
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rows, query, subjectID); err != nil {
		return nil, fmt.Errorf("list proficiencies: %w", err)
	}
	result := make([]models.TeachingProficiency, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toModel())
	}
	return result, nil
}
