// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid parameters, windows, tickers, date ranges
//   - Series/data errors (200-299): Empty, unordered or mismatched price series
//   - Indicator errors (300-399): Indicator lookup and insufficient data errors
//   - Overlay formula errors (400-499): Formula parsing and evaluation errors
//   - Market data errors (500-599): Provider fetching and parsing errors
//   - Event annotation errors (600-699): Corporate event fetching and matching
//   - Export errors (700-799): CSV export and import failures
//   - Server errors (800-899): Configuration and streaming errors
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeInvalidParameter, "invalid parameter value")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeFetchFailed, "failed to fetch %s", ticker)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeParseFailed, "failed to parse response", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeFetchFailed) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsFetchError reports whether err is a market data fetch failure.
func IsFetchError(err error) bool {
	return HasCode(err, ErrCodeFetchFailed)
}

// IsFormulaError reports whether err originated from overlay formula
// parsing or evaluation.
func IsFormulaError(err error) bool {
	switch GetCode(err) {
	case ErrCodeFormulaSyntax, ErrCodeFormulaUnknownColumn, ErrCodeFormulaEvaluation, ErrCodeFormulaNonNumeric:
		return true
	default:
		return false
	}
}
