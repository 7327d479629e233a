package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/appkademy-api/internal/models"
	appErrors "github.com/noah-isme/appkademy-api/pkg/errors"
)

type userRoleLookup interface {
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
}

type proficiencyCatalogue interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]models.TeachingProficiency, error)
}

type characteristicCatalogue interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Characteristic, error)
}

// TeacherValidationService holds the assertions run before any profile write.
// Each assertion either returns nil or a named business error.
type TeacherValidationService struct {
	teachers        userRoleLookup
	students        userRoleLookup
	proficiencies   proficiencyCatalogue
	characteristics characteristicCatalogue
	validator       *validator.Validate
}

// NewTeacherValidationService constructs a TeacherValidationService.
func NewTeacherValidationService(teachers, students userRoleLookup, proficiencies proficiencyCatalogue, characteristics characteristicCatalogue, validate *validator.Validate) *TeacherValidationService {
	if validate == nil {
		validate = validator.New()
	}
	return &TeacherValidationService{
		teachers:        teachers,
		students:        students,
		proficiencies:   proficiencies,
		characteristics: characteristics,
		validator:       validate,
	}
}

// AssertHourlyRatesAreValid fails when any rate is zero or negative.
func (s *TeacherValidationService) AssertHourlyRatesAreValid(rates models.HourlyRates) error {
	for currency, amount := range rates {
		if !amount.IsPositive() {
			return appErrors.Clone(appErrors.ErrInvalidHourlyRates, fmt.Sprintf("hourly rate for %s must be positive", currency))
		}
	}
	return nil
}

// AssertUserDoesNotAlreadyExist fails when a teacher or a student already
// references the user.
func (s *TeacherValidationService) AssertUserDoesNotAlreadyExist(ctx context.Context, userID string) error {
	for _, lookup := range []userRoleLookup{s.teachers, s.students} {
		exists, err := lookup.ExistsByUserID(ctx, userID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check user role")
		}
		if exists {
			return appErrors.ErrDuplicateUserRole
		}
	}
	return nil
}

// AssertTeachingProficienciesExist resolves ids in input order, keeping duplicates.
func (s *TeacherValidationService) AssertTeachingProficienciesExist(ctx context.Context, ids []string) ([]models.TeachingProficiency, error) {
	found, err := s.proficiencies.FindByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve proficiencies")
	}
	resolved := make([]models.TeachingProficiency, 0, len(ids))
	var missing []string
	for _, id := range ids {
		p, ok := found[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		resolved = append(resolved, p)
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrProficiencyNotFound, "teaching proficiency not found: "+strings.Join(missing, ", "))
	}
	return resolved, nil
}

// AssertCharacteristicsExist resolves ids in input order, keeping duplicates.
func (s *TeacherValidationService) AssertCharacteristicsExist(ctx context.Context, ids []string) ([]models.Characteristic, error) {
	found, err := s.characteristics.FindByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve characteristics")
	}
	resolved := make([]models.Characteristic, 0, len(ids))
	var missing []string
	for _, id := range ids {
		c, ok := found[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		resolved = append(resolved, c)
	}
	if len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrCharacteristicNotFound, "characteristic not found: "+strings.Join(missing, ", "))
	}
	return resolved, nil
}

// AssertEmailIsValid fails on a malformed address.
func (s *TeacherValidationService) AssertEmailIsValid(email string) error {
	if err := s.validator.Var(email, "required,email"); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidEmail.Code, appErrors.ErrInvalidEmail.Status, "invalid email: "+email)
	}
	return nil
}
