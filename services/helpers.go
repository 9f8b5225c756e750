package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Dosada05/tkd-competition/repositories"
)

var validate = validator.New()

// validateInput runs struct tag validation and folds the field errors into ErrValidationFailed.
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return withDetail(ErrValidationFailed, "%s", strings.Join(fields, "; "))
}

// repoErrors переводит ошибки репозиториев в категории сервисного слоя.
var repoErrors = []struct {
	repo    error
	service error
}{
	{repositories.ErrEventNotFound, ErrEventNotFound},
	{repositories.ErrSessionNotFound, ErrSessionNotFound},
	{repositories.ErrSessionInvalid, ErrEventNotFound},
	{repositories.ErrCompetitorNotFound, ErrCompetitorNotFound},
	{repositories.ErrCompetitorEventInvalid, ErrEventNotFound},
	{repositories.ErrMatchNotFound, ErrMatchNotFound},
	{repositories.ErrMatchEventInvalid, ErrEventNotFound},
	{repositories.ErrMatchCompetitorInvalid, ErrCompetitorNotFound},
	{repositories.ErrMatchSessionInvalid, ErrSessionNotFound},
	{repositories.ErrMatchNumberConflict, ErrMatchNumberConflict},
	{repositories.ErrMatchConfigNotFound, ErrConfigurationNotFound},
	{repositories.ErrMatchActionMatchInvalid, ErrMatchNotFound},
	{repositories.ErrMatchResultMatchInvalid, ErrMatchNotFound},
	{repositories.ErrMatchResultPositionConflict, ErrResultPositionConflict},
	{repositories.ErrPoolNotFound, ErrPoolNotFound},
	{repositories.ErrPoolEventInvalid, ErrEventNotFound},
	{repositories.ErrPoolCompetitorExists, ErrPoolCompetitorExists},
	{repositories.ErrPoolCompetitorNotFound, ErrPoolCompetitorNotFound},
	{repositories.ErrPoolCompetitorInvalid, ErrCompetitorNotFound},
	{repositories.ErrStandingCompetitorInvalid, ErrCompetitorNotFound},
	{repositories.ErrStandingPoolInvalid, ErrPoolNotFound},
	{repositories.ErrMedalCompetitorInvalid, ErrCompetitorNotFound},
	{repositories.ErrAssignmentMatchInvalid, ErrMatchNotFound},
}

// handleRepositoryError keeps the repository error in the chain and adds the matching service
// sentinel, so both errors.Is(err, ErrMatchNotFound) and errors.Is(err, ErrNotFound) hold.
// Unknown errors are wrapped with the operation name only.
func handleRepositoryError(err error, op string) error {
	if err == nil {
		return nil
	}
	for _, m := range repoErrors {
		if errors.Is(err, m.repo) {
			return fmt.Errorf("%w: %s: %w", m.service, op, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
