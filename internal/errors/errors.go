package errors

import (
	"errors"
	"fmt"
)

// AlignError is the structured error type for amanalign.
// It carries enough context for logging and for a useful CLI message.
type AlignError struct {
	// Code is the unique error code (e.g., "ERR_201_FILE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Search, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *AlignError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *AlignError) Unwrap() error {
	return e.Cause
}

// Is matches another AlignError by code, so errors.Is works against sentinel values.
func (e *AlignError) Is(target error) bool {
	if t, ok := target.(*AlignError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *AlignError) WithDetail(key, value string) *AlignError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *AlignError) WithSuggestion(suggestion string) *AlignError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AlignError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *AlignError {
	return &AlignError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an AlignError from an existing error.
// The error's message becomes the AlignError message.
func Wrap(code string, err error) *AlignError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *AlignError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *AlignError {
	return New(ErrCodeFileNotFound, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *AlignError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *AlignError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	var ae *AlignError
	if errors.As(err, &ae) {
		return ae.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from an AlignError anywhere in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var ae *AlignError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// GetCategory extracts the category from an AlignError anywhere in the chain.
func GetCategory(err error) Category {
	var ae *AlignError
	if errors.As(err, &ae) {
		return ae.Category
	}
	return ""
}
