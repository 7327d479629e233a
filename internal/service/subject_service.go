package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/appkademy-api/internal/models"
	appErrors "github.com/noah-isme/appkademy-api/pkg/errors"
)

const (
	catalogCacheTTL     = 10 * time.Minute
	characteristicsKey  = "catalog:characteristics"
	proficiencyKeyScope = "catalog:proficiencies"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.CatalogFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type proficiencyLister interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.TeachingProficiency, error)
}

type characteristicLister interface {
	List(ctx context.Context) ([]models.Characteristic, error)
}

// SubjectService serves the read-only catalogue teachers pick their
// proficiencies and characteristics from.
type SubjectService struct {
	subjects        subjectRepository
	proficiencies   proficiencyLister
	characteristics characteristicLister
	cache           *CacheService
	logger          *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(subjects subjectRepository, proficiencies proficiencyLister, characteristics characteristicLister, cache *CacheService, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{subjects: subjects, proficiencies: proficiencies, characteristics: characteristics, cache: cache, logger: logger}
}

// List returns paginated subjects.
func (s *SubjectService) List(ctx context.Context, filter models.CatalogFilter) ([]models.Subject, *models.Pagination, error) {
	subjects, total, err := s.subjects.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	page, size := filter.Normalize()
	return subjects, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Proficiencies lists the mastery levels offered for one subject.
func (s *SubjectService) Proficiencies(ctx context.Context, subjectID string) ([]models.TeachingProficiency, error) {
	key := proficiencyKeyScope + ":" + subjectID
	var cached []models.TeachingProficiency
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	list, err := s.proficiencies.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list proficiencies")
	}
	s.cache.Set(ctx, key, list, catalogCacheTTL)
	return list, nil
}

// Characteristics lists every descriptive tag.
func (s *SubjectService) Characteristics(ctx context.Context) ([]models.Characteristic, error) {
	var cached []models.Characteristic
	if s.cache.Get(ctx, characteristicsKey, &cached) {
		return cached, nil
	}
	list, err := s.characteristics.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list characteristics")
	}
	s.cache.Set(ctx, characteristicsKey, list, catalogCacheTTL)
	return list, nil
}
