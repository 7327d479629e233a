package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/appkademy-api/internal/dto"
	"github.com/noah-isme/appkademy-api/internal/models"
	"github.com/noah-isme/appkademy-api/internal/repository"
	"github.com/noah-isme/appkademy-api/internal/specs"
	appErrors "github.com/noah-isme/appkademy-api/pkg/errors"
)

const (
	defaultSearchPageNumber = 1
	defaultSearchPageSize   = 10

	teacherSearchCacheNamespace = "teachers:search"
	teacherSearchCachePattern   = teacherSearchCacheNamespace + ":*"
)

type teacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	FindByUserID(ctx context.Context, userID string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	ClearProficiencies(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, spec specs.Spec, pageIndex, pageSize int) (*models.TeacherPage, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateType(ctx context.Context, user *models.User) error
}

type txManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type teacherValidator interface {
	AssertUserDoesNotAlreadyExist(ctx context.Context, userID string) error
	AssertHourlyRatesAreValid(rates models.HourlyRates) error
	AssertTeachingProficienciesExist(ctx context.Context, ids []string) ([]models.TeachingProficiency, error)
	AssertCharacteristicsExist(ctx context.Context, ids []string) ([]models.Characteristic, error)
}

// TeacherServiceConfig tunes teacher lifecycle behaviour.
type TeacherServiceConfig struct {
	DefaultProviderCategoryID int64
	// ResetUserRoleOnDelete clears the owning user's role pointer when its
	// teacher is deleted. When false the pointer is left dangling.
	ResetUserRoleOnDelete bool
}

// TeacherService orchestrates teacher search and the validated write paths.
type TeacherService struct {
	repo       teacherRepository
	users      userRepository
	tx         txManager
	validation teacherValidator
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	cfg        TeacherServiceConfig
	now        func() time.Time
}

// NewTeacherService constructs a TeacherService. cache and metrics may be nil.
func NewTeacherService(repo teacherRepository, users userRepository, tx txManager, validation teacherValidator, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg TeacherServiceConfig) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultProviderCategoryID <= 0 {
		cfg.DefaultProviderCategoryID = 1
	}
	return &TeacherService{
		repo:       repo,
		users:      users,
		tx:         tx,
		validation: validation,
		cache:      cache,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Search returns one page of teachers matching the filter. Missing page fields
// default to 1 and 10; other values pass through to storage untouched.
func (s *TeacherService) Search(ctx context.Context, filter models.TeacherFilter) (*dto.TeacherSearchResponse, error) {
	if filter.PageNumber == nil {
		n := defaultSearchPageNumber
		filter.PageNumber = &n
	}
	if filter.PageSize == nil {
		n := defaultSearchPageSize
		filter.PageSize = &n
	}
	if filter.TeachingProficiency != nil && filter.TeachingProficiency.MasteryLevel != nil && !filter.TeachingProficiency.MasteryLevel.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown mastery level: "+string(*filter.TeachingProficiency.MasteryLevel))
	}

	cacheKey, keyErr := CacheKey(teacherSearchCacheNamespace, filter)
	if keyErr == nil {
		var cached dto.TeacherSearchResponse
		if s.cache.Get(ctx, cacheKey, &cached) {
			return &cached, nil
		}
	}

	start := time.Now()
	page, err := s.repo.Search(ctx, specs.ForTeacherFilter(filter), *filter.PageNumber-1, *filter.PageSize)
	s.metrics.ObserveDBQuery("teacher_search", time.Since(start))
	if err != nil {
		if errors.Is(err, repository.ErrInvalidPageRequest) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "pageNumber and pageSize must be at least 1")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search teachers")
	}
	s.metrics.ObserveSearchMatches(page.TotalElements)

	resp := &dto.TeacherSearchResponse{}
	if !page.Empty() {
		pageNumber, pageSize := *filter.PageNumber, *filter.PageSize
		totalPages, totalItems := page.TotalPages, page.TotalElements
		resp.PageNumberSelected = &pageNumber
		resp.PageSizeSelected = &pageSize
		resp.TotalPagesFound = &totalPages
		resp.TotalItemsFound = &totalItems
		resp.SearchResults = make([]dto.TeacherCompactResponse, len(page.Items))
		for i, teacher := range page.Items {
			resp.SearchResults[i] = dto.NewTeacherCompactResponse(teacher)
		}
	}

	if keyErr == nil {
		s.cache.Set(ctx, cacheKey, resp, 0)
	}
	return resp, nil
}

// Get returns a fully hydrated teacher.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, teacherLookupError(err, id)
	}
	return teacher, nil
}

// GetByUserID returns the teacher profile owned by a user.
func (s *TeacherService) GetByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrTeacherNotFound, "no teacher found for user: "+userID)
		}
		return nil, internalError(err, "failed to load teacher")
	}
	return teacher, nil
}

// Create validates the request, stores the teacher and links it to its owning
// user in a single transaction.
func (s *TeacherService) Create(ctx context.Context, req dto.TeacherCreateRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	if err := s.validation.AssertUserDoesNotAlreadyExist(ctx, req.UserID); err != nil {
		return nil, err
	}
	if err := s.validation.AssertHourlyRatesAreValid(req.HourlyRates); err != nil {
		return nil, err
	}
	proficiencies, err := s.validation.AssertTeachingProficienciesExist(ctx, req.ProficiencyIDs)
	if err != nil {
		return nil, err
	}
	var characteristics []models.Characteristic
	if len(req.CharacteristicIDs) > 0 {
		if characteristics, err = s.validation.AssertCharacteristicsExist(ctx, req.CharacteristicIDs); err != nil {
			return nil, err
		}
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUserNotFound, "no user found for id: "+req.UserID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	now := s.now()
	teacher := &models.Teacher{
		UserID:                req.UserID,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		HourlyRates:           req.HourlyRates,
		Modalities:            req.Modalities,
		Proficiencies:         proficiencies,
		Characteristics:       characteristics,
		WeeklyWorkingSchedule: req.WeeklyWorkingSchedule,
		Address:               req.Address.ToModel(),
		ProviderCategoryID:    s.cfg.DefaultProviderCategoryID,
		ProfilePictureURL:     req.ProfilePictureURL,
		ShortDescription:      req.ShortDescription,
		FullDescription:       req.FullDescription,
		Enabled:               true,
		SignupApprovedByAdmin: true,
		TotalLikes:            0,
		CreatedOn:             now,
		LastModifiedOn:        now,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, teacher); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
		}
		user.LinkProfile(models.UserTypeTeacher, teacher.ID)
		if err := s.users.UpdateType(ctx, user); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link user to teacher")
		}
		return nil
	})
	if err != nil {
		return nil, internalError(err, "failed to create teacher")
	}

	s.afterWrite(ctx, "create")
	s.logger.Info("teacher created", zap.String("teacher_id", teacher.ID), zap.String("user_id", user.ID))
	return teacher, nil
}

// Update overwrites every mutable field of the teacher from the request.
func (s *TeacherService) Update(ctx context.Context, id string, req dto.TeacherUpdateRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, teacherLookupError(err, id)
	}

	if err := s.validation.AssertHourlyRatesAreValid(req.HourlyRates); err != nil {
		return nil, err
	}
	proficiencies, err := s.validation.AssertTeachingProficienciesExist(ctx, req.ProficiencyIDs)
	if err != nil {
		return nil, err
	}
	var characteristics []models.Characteristic
	if len(req.CharacteristicIDs) > 0 {
		if characteristics, err = s.validation.AssertCharacteristicsExist(ctx, req.CharacteristicIDs); err != nil {
			return nil, err
		}
	}

	teacher.FirstName = req.FirstName
	teacher.LastName = req.LastName
	teacher.HourlyRates = req.HourlyRates
	teacher.Modalities = req.Modalities
	teacher.Proficiencies = proficiencies
	teacher.WeeklyWorkingSchedule = req.WeeklyWorkingSchedule
	teacher.ProfilePictureURL = req.ProfilePictureURL
	teacher.ShortDescription = req.ShortDescription
	teacher.FullDescription = req.FullDescription
	teacher.Address = req.Address.ToModel()
	teacher.Enabled = req.Enabled
	teacher.TotalLikes = req.TotalLikes
	teacher.Characteristics = characteristics
	teacher.LastModifiedOn = s.now()

	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, teacherLookupError(err, id)
	}

	s.afterWrite(ctx, "update")
	s.logger.Info("teacher updated", zap.String("teacher_id", teacher.ID))
	return teacher, nil
}

// Delete severs the teacher's proficiency associations and removes it.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return teacherLookupError(err, id)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.ClearProficiencies(ctx, id); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear teacher proficiencies")
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return teacherLookupError(err, id)
		}
		if s.cfg.ResetUserRoleOnDelete {
			return unlinkProfile(ctx, s.users, teacher.UserID, teacher.ID)
		}
		return nil
	})
	if err != nil {
		return internalError(err, "failed to delete teacher")
	}

	if !s.cfg.ResetUserRoleOnDelete {
		s.logger.Warn("teacher deleted while owning user keeps its role pointer",
			zap.String("teacher_id", id), zap.String("user_id", teacher.UserID))
	}
	s.afterWrite(ctx, "delete")
	s.logger.Info("teacher deleted", zap.String("teacher_id", id))
	return nil
}

func (s *TeacherService) afterWrite(ctx context.Context, operation string) {
	s.cache.Invalidate(ctx, teacherSearchCachePattern)
	s.metrics.RecordProfileWrite("teacher", operation)
}

func teacherLookupError(err error, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrTeacherNotFound, "no teacher found for id: "+id)
	}
	return internalError(err, "failed to load teacher")
}

// unlinkProfile resets the user's role pointer if it still targets profileID.
func unlinkProfile(ctx context.Context, users userRepository, userID, profileID string) error {
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load owning user")
	}
	if user.UserTypeID == nil || *user.UserTypeID != profileID {
		return nil
	}
	user.UnlinkProfile()
	if err := users.UpdateType(ctx, user); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset user role")
	}
	return nil
}

// internalError keeps typed errors and wraps everything else as INTERNAL_ERROR.
func internalError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
