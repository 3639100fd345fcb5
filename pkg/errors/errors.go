// Package errors provides categorized application errors for the finance
// core, carrying machine-readable codes, human-facing suggestions, and stack
// traces for diagnostics.
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryParse         ErrorCategory = "parse"
	CategoryRates         ErrorCategory = "rates"
	CategoryCalculation   ErrorCategory = "calculation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// Validation errors
	CodeInvalidAmount ErrorCode = "invalid_amount"
	CodeInvalidDate   ErrorCode = "invalid_date"
	CodeMissingField  ErrorCode = "missing_field"
	CodeOutOfRange    ErrorCode = "out_of_range"

	// Parse errors
	CodeInvalidFormat ErrorCode = "invalid_format"
	CodeMissingColumn ErrorCode = "missing_column"
	CodeInvalidData   ErrorCode = "invalid_data"

	// Rates errors
	CodeRatesUnavailable ErrorCode = "rates_unavailable"
	CodeRatesInvalid     ErrorCode = "rates_invalid"
	CodeCacheFailure     ErrorCode = "cache_failure"

	// Calculation errors
	CodeInvalidPolicy ErrorCode = "invalid_policy"
	CodeInvalidInput  ErrorCode = "invalid_input"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// CoreError is the base error type for all application errors
type CoreError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *CoreError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *CoreError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *CoreError) GetExitCode() int {
	switch e.Category {
	case CategoryParse, CategoryValidation:
		return 2
	case CategoryConfiguration:
		return 3
	case CategoryRates:
		return 4
	case CategoryCalculation, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *CoreError) WithContext(key string, value interface{}) *CoreError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *CoreError) WithSuggestion(suggestion string) *CoreError {
	e.Suggestion = suggestion
	return e
}

// New creates a new CoreError
func New(category ErrorCategory, code ErrorCode, message string) *CoreError {
	return &CoreError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with CoreError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *CoreError {
	if err == nil {
		return nil
	}

	return &CoreError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// ValidationError creates a validation-related error
func ValidationError(code ErrorCode, field string, value interface{}) *CoreError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidAmount:
		message = fmt.Sprintf("invalid amount in field '%s': %v", field, value)
		suggestion = "ensure amounts are valid decimal numbers (e.g., '12.34')"
	case CodeInvalidDate:
		message = fmt.Sprintf("invalid date in field '%s': %v", field, value)
		suggestion = "use date format YYYY-MM-DD"
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	case CodeOutOfRange:
		message = fmt.Sprintf("value out of range in field '%s': %v", field, value)
		suggestion = "ensure the value is within the acceptable range"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	return New(CategoryValidation, code, message).
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// ParseError creates a parsing-related error for CSV ingestion
func ParseError(code ErrorCode, file string, line int, column string, value string, err error) *CoreError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidFormat:
		message = fmt.Sprintf("invalid format in file %s at line %d, column '%s': '%s'", file, line, column, value)
		suggestion = "check the data format and ensure it matches the expected structure"
	case CodeMissingColumn:
		message = fmt.Sprintf("missing required column '%s' in file %s", column, file)
		suggestion = "verify the file has all required columns with correct headers"
	case CodeInvalidData:
		message = fmt.Sprintf("invalid data in file %s at line %d, column '%s': '%s'", file, line, column, value)
		suggestion = "correct the data format or remove the invalid entry"
	default:
		message = fmt.Sprintf("parse error in file %s at line %d", file, line)
		suggestion = "check the file format and data integrity"
	}

	var result *CoreError
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	} else {
		result = New(CategoryParse, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file", file).
		WithContext("line", line).
		WithContext("column", column)
}

// RatesError creates a rate-index related error
func RatesError(code ErrorCode, source string, err error) *CoreError {
	var message string
	var suggestion string

	switch code {
	case CodeRatesUnavailable:
		message = fmt.Sprintf("rate index source unavailable: %s", source)
		suggestion = "check network connectivity or use the documented fallback snapshot"
	case CodeRatesInvalid:
		message = fmt.Sprintf("rate index source returned invalid data: %s", source)
		suggestion = "the fallback snapshot will be used for any non-positive rate"
	case CodeCacheFailure:
		message = fmt.Sprintf("rate cache failure: %s", source)
		suggestion = "verify the redis address or disable the cache"
	default:
		message = fmt.Sprintf("rates error: %s", source)
		suggestion = "check the rate index source configuration"
	}

	var result *CoreError
	if err != nil {
		result = Wrap(err, CategoryRates, code, message)
	} else {
		result = New(CategoryRates, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("source", source)
}

// CalculationError creates a calculation-related error
func CalculationError(code ErrorCode, message string, err error) *CoreError {
	var result *CoreError
	if err != nil {
		result = Wrap(err, CategoryCalculation, code, message)
	} else {
		result = New(CategoryCalculation, code, message)
	}

	return result.WithSuggestion("check the bill and policy inputs")
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, err error) *CoreError {
	var message string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration setting: %s", setting)
	case CodeMissingConfig:
		message = fmt.Sprintf("missing configuration setting: %s", setting)
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
	}

	var result *CoreError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion("review the configuration file and command-line flags").
		WithContext("setting", setting)
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Category == category
	}
	return false
}

// GetCode extracts the error code from an error, if it is a CoreError
func GetCode(err error) (ErrorCode, bool) {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Code, true
	}
	return "", false
}

// FormatDetailed returns a detailed multi-line description of the error
func FormatDetailed(err error) string {
	var coreErr *CoreError
	if !errors.As(err, &coreErr) {
		return err.Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error [%s/%s]: %s\n", coreErr.Category, coreErr.Code, coreErr.Message))

	if coreErr.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("Suggestion: %s\n", coreErr.Suggestion))
	}

	if len(coreErr.Context) > 0 {
		sb.WriteString("Context:\n")
		for key, value := range coreErr.Context {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", key, value))
		}
	}

	if coreErr.Cause != nil {
		sb.WriteString(fmt.Sprintf("Caused by: %s\n", coreErr.Cause.Error()))
	}

	return sb.String()
}
