package services

import (
	"errors"
	"fmt"
)

// Корневые категории ошибок. Каждая конкретная ошибка ниже оборачивает одну из них,
// поэтому errors.Is(err, ErrNotFound) работает и для ErrMatchNotFound.
var (
	ErrNotFound     = errors.New("requested resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("operation conflicts with current state")
)

type categorizedError struct {
	category error
	msg      string
}

func (e *categorizedError) Error() string { return e.msg }
func (e *categorizedError) Unwrap() error { return e.category }

func notFound(msg string) error { return &categorizedError{category: ErrNotFound, msg: msg} }
func invalid(msg string) error { return &categorizedError{category: ErrInvalidInput, msg: msg} }
func conflict(msg string) error { return &categorizedError{category: ErrConflict, msg: msg} }

var (
	// NotFound
	ErrEventNotFound          = notFound("event not found")
	ErrSessionNotFound        = notFound("session not found")
	ErrCompetitorNotFound     = notFound("competitor not found")
	ErrMatchNotFound          = notFound("match not found")
	ErrConfigurationNotFound  = notFound("match configuration not found")
	ErrPoolNotFound           = notFound("pool not found")
	ErrPoolCompetitorNotFound = notFound("competitor is not a member of this pool")

	// InvalidInput
	ErrValidationFailed      = invalid("validation failed")
	ErrInvalidAction         = invalid("unknown action type")
	ErrInvalidResult         = invalid("invalid match result")
	ErrInvalidScheduleStatus = invalid("unknown schedule status")
	ErrCompetitorNotInEvent  = invalid("competitor does not belong to this event")
	ErrCompetitorNotInMatch  = invalid("competitor does not take part in this match")
	ErrSessionNotInEvent     = invalid("session does not belong to this event")
	ErrDuplicateReferee      = invalid("the same referee is assigned to more than one slot")
	ErrNotEnoughCompetitors  = invalid("at least 2 competitors are required")
	ErrBracketTooLarge       = invalid("bracket too large, maximum 128 competitors")
	ErrInvalidTieBreaker     = invalid("unknown tie-break criterion")

	// ConflictState
	ErrDuplicateAction          = conflict("duplicate action dropped")
	ErrMatchClosed              = conflict("match is finished or cancelled")
	ErrInvalidStatusTransition  = conflict("invalid status transition")
	ErrBracketAlreadyGenerated  = conflict("event already has bracket matches")
	ErrPoolMatchesExist         = conflict("pool already has matches")
	ErrPoolCompetitorExists     = conflict("competitor is already in this pool")
	ErrPoolFull                 = conflict("pool has reached its maximum number of athletes")
	ErrCompetitorHasPoolMatches = conflict("competitor has running or finished pool matches")
	ErrMatchNumberConflict      = conflict("match number already used in this event")
	ErrResultPositionConflict   = conflict("result position already used for this match")
)

// withDetail keeps the sentinel for errors.Is and adds context to the message.
func withDetail(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
