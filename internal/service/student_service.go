package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/appkademy-api/internal/dto"
	"github.com/noah-isme/appkademy-api/internal/models"
	appErrors "github.com/noah-isme/appkademy-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type studentValidator interface {
	AssertUserDoesNotAlreadyExist(ctx context.Context, userID string) error
	AssertEmailIsValid(email string) error
}

// StudentService handles student profile use-cases.
type StudentService struct {
	repo          studentRepository
	users         userRepository
	tx            txManager
	validation    studentValidator
	metrics       *MetricsService
	validator     *validator.Validate
	logger        *zap.Logger
	resetUserRole bool
	now           func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, users userRepository, tx txManager, validation studentValidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, resetUserRoleOnDelete bool) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:          repo,
		users:         users,
		tx:            tx,
		validation:    validation,
		metrics:       metrics,
		validator:     validate,
		logger:        logger,
		resetUserRole: resetUserRoleOnDelete,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// List returns students plus pagination metadata.
func (s *StudentService) List(ctx context.Context, query dto.StudentListQuery) ([]models.Student, *models.Pagination, error) {
	filter := models.StudentFilter{
		Search:   strings.TrimSpace(query.Search),
		Enabled:  query.Enabled,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, studentLookupError(err, id)
	}
	return student, nil
}

// Create registers a student and links it to its owning user in one transaction.
func (s *StudentService) Create(ctx context.Context, req dto.StudentCreateRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if err := s.validation.AssertUserDoesNotAlreadyExist(ctx, req.UserID); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(req.Email)
	if err := s.validation.AssertEmailIsValid(email); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUserNotFound, "no user found for id: "+req.UserID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	student := &models.Student{
		UserID:            req.UserID,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             email,
		Address:           req.Address.ToModel(),
		ProfilePictureURL: req.ProfilePictureURL,
		Enabled:           true,
		CreatedOn:         s.now(),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, student); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
		}
		user.LinkProfile(models.UserTypeStudent, student.ID)
		if err := s.users.UpdateType(ctx, user); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link user to student")
		}
		return nil
	})
	if err != nil {
		return nil, internalError(err, "failed to create student")
	}

	s.metrics.RecordProfileWrite("student", "create")
	s.logger.Info("student created", zap.String("student_id", student.ID), zap.String("user_id", user.ID))
	return student, nil
}

// Update overwrites every mutable field of the student.
func (s *StudentService) Update(ctx context.Context, id string, req dto.StudentUpdateRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, studentLookupError(err, id)
	}
	email := strings.TrimSpace(req.Email)
	if err := s.validation.AssertEmailIsValid(email); err != nil {
		return nil, err
	}

	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.Email = email
	student.ProfilePictureURL = req.ProfilePictureURL
	student.Address = req.Address.ToModel()
	student.Enabled = req.Enabled

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, studentLookupError(err, id)
	}
	s.metrics.RecordProfileWrite("student", "update")
	return student, nil
}

// Delete removes a student and, when configured, resets its user's role pointer.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return studentLookupError(err, id)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, id); err != nil {
			return studentLookupError(err, id)
		}
		if s.resetUserRole {
			return unlinkProfile(ctx, s.users, student.UserID, student.ID)
		}
		return nil
	})
	if err != nil {
		return internalError(err, "failed to delete student")
	}

	s.metrics.RecordProfileWrite("student", "delete")
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}

func studentLookupError(err error, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrStudentNotFound, "no student found for id: "+id)
	}
	return internalError(err, "failed to load student")
}
