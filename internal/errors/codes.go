// Package errors provides structured error handling for amanalign.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (reference, hypothesis and output files)
//   - 4XX: Validation errors
//   - 5XX: Internal and search errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategorySearch indicates the alignment search ended without a result.
	CategorySearch Category = "SEARCH"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
	// SeverityInfo indicates informational only.
	SeverityInfo Severity = "INFO"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"
	ErrCodeConfigValue    = "ERR_104_CONFIG_VALUE"

	// IO errors (200-299)
	ErrCodeFileNotFound   = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission = "ERR_202_FILE_PERMISSION"
	ErrCodeFileWrite      = "ERR_203_FILE_WRITE"
	ErrCodeFileLocked     = "ERR_204_FILE_LOCKED"

	// Validation errors (400-499)
	ErrCodeInvalidInput   = "ERR_401_INVALID_INPUT"
	ErrCodeLineMismatch   = "ERR_402_LINE_MISMATCH"
	ErrCodeEmptyReference = "ERR_407_EMPTY_REFERENCE"

	// Internal and search errors (500-599)
	ErrCodeInternal        = "ERR_501_INTERNAL"
	ErrCodeNoAlignment     = "ERR_506_NO_ALIGNMENT"
	ErrCodeSearchCancelled = "ERR_507_SEARCH_CANCELLED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	switch code {
	case ErrCodeNoAlignment, ErrCodeSearchCancelled:
		return CategorySearch
	}

	// Numeric portion, e.g. "101" from "ERR_101_CONFIG_NOT_FOUND"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeFileNotFound, ErrCodeFilePermission, ErrCodeFileWrite:
		return SeverityFatal
	case ErrCodeConfigValue:
		return SeverityWarning
	case ErrCodeSearchCancelled:
		return SeverityInfo
	}
	return SeverityError
}
