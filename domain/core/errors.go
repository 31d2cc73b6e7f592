package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound            = errors.New("resource not found")
	ErrReportNotFound      = fmt.Errorf("%w: report", ErrNotFound)
	ErrSessionNotFound     = fmt.Errorf("%w: interview session", ErrNotFound)
	ErrQuestionsNotFound   = fmt.Errorf("%w: interview questions", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("%w: user", ErrNotFound)
	ErrNoSetup             = fmt.Errorf("%w: interview setup", ErrNotFound)
	ErrNoActiveInterview   = fmt.Errorf("%w: active interview", ErrNotFound)
	ErrUserStateNotFound   = fmt.Errorf("%w: user state", ErrNotFound)
	ErrMirrorEntryNotFound = fmt.Errorf("%w: mirrored questions", ErrNotFound)

	// Validation errors
	ErrValidation           = errors.New("validation failed")
	ErrInvalidSetup         = errors.New("invalid interview setup")
	ErrInvalidQuestionIndex = errors.New("invalid question index")
	ErrAlreadyAtFirst       = errors.New("already at first question")
	ErrInvalidAnswer        = errors.New("invalid answer")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailTaken           = errors.New("email already registered")

	// Upstream errors
	ErrEmptyCompletion = errors.New("generative service returned an empty response")
	ErrNoJSONArray     = errors.New("response does not contain a JSON array")
	ErrNoValidQuestion = errors.New("response contained no valid question")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w for %s: %s", ErrValidation, field, reason)
}

func NewSetupError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidSetup, field, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidSetup) ||
		errors.Is(err, ErrInvalidQuestionIndex) ||
		errors.Is(err, ErrAlreadyAtFirst) ||
		errors.Is(err, ErrInvalidAnswer)
}
