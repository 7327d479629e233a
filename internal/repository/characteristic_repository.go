package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/appkademy-api/internal/models"
)

// CharacteristicRepository reads descriptive teacher tags.
type CharacteristicRepository struct {
	db *sqlx.DB
}

// NewCharacteristicRepository constructs a CharacteristicRepository.
func NewCharacteristicRepository(db *sqlx.DB) *CharacteristicRepository {
	return &CharacteristicRepository{db: db}
}

// FindByIDs returns the characteristics whose id is in ids, keyed by id.
func (r *CharacteristicRepository) FindByIDs(ctx context.Context, ids []string) (map[string]models.Characteristic, error) {
	result := make(map[string]models.Characteristic, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In("SELECT id, name FROM characteristics WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("build characteristic lookup: %w", err)
	}
	var rows []models.Characteristic
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rows, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, fmt.Errorf("find characteristics: %w", err)
	}
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}

// List returns every characteristic ordered by name.
func (r *CharacteristicRepository) List(ctx context.Context) ([]models.Characteristic, error) {
	var rows []models.Characteristic
	if err := sqlx.SelectContext(ctx, conn(ctx, r.db), &rows, "SELECT id, name FROM characteristics ORDER BY name ASC"); err != nil {
		return nil, fmt.Errorf("list characteristics: %w", err)
	}
	return rows, nil
}
