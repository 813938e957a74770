package interviews

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the interview does not exist for the caller.
	ErrNotFound = errors.New("interview not found")

	// ErrForbidden indicates the interview belongs to another user.
	ErrForbidden = errors.New("forbidden")

	// ErrNotTakeable indicates the interview cannot be taken in its current state.
	ErrNotTakeable = errors.New("interview cannot be taken now")

	// ErrGenerationFailed wraps any failure of the question generator.
	ErrGenerationFailed = errors.New("question generation failed")

	// ErrEmptyTranscript rejects completions without any recorded turns.
	ErrEmptyTranscript = errors.New("transcript is empty")
)

// Validation failures reported by the request builder.
var (
	ErrRoleRequired         = errors.New("role is required")
	ErrTechStackEmpty       = errors.New("tech stack must list at least one technology")
	ErrInvalidQuestionCount = errors.New("question count must be one of 3, 5, 7, 10")
	ErrInvalidSchedule      = errors.New("invalid schedule")
	ErrSchedulingInPast     = fmt.Errorf("%w: scheduled time must be in the future", ErrInvalidSchedule)
)

// Validation codes returned to API clients.
const (
	CodeRoleRequired         = "role_required"
	CodeTechStackEmpty       = "techstack_empty"
	CodeInvalidQuestionCount = "invalid_amount"
	CodeInvalidSchedule      = "invalid_schedule"
	CodeSchedulingInPast     = "schedule_in_past"
)

// ValidationError names the form field that failed and why.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Code maps the failure to a stable client-facing code.
func (e *ValidationError) Code() string {
	switch {
	case errors.Is(e.Err, ErrRoleRequired):
		return CodeRoleRequired
	case errors.Is(e.Err, ErrTechStackEmpty):
		return CodeTechStackEmpty
	case errors.Is(e.Err, ErrInvalidQuestionCount):
		return CodeInvalidQuestionCount
	case errors.Is(e.Err, ErrSchedulingInPast):
		return CodeSchedulingInPast
	default:
		return CodeInvalidSchedule
	}
}

func invalid(field string, sentinel error, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: sentinel}
}
