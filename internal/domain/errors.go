package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeUpstream      = "UPSTREAM_ERROR"
	ErrCodeTransport     = "TRANSPORT_ERROR"
	ErrCodeGeneration    = "GENERATION_ERROR"
	ErrCodeNotConfigured = "NOT_CONFIGURED"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrMissingCourseID = NewDomainError(ErrCodeValidation, "courseId is required")
	ErrMissingQuestion = NewDomainError(ErrCodeValidation, "question is required")
)

// Generation errors
var (
	ErrEmptyAnswer = NewDomainError(ErrCodeGeneration, "generation backend returned no text")
)
