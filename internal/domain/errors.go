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
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeUpstream      = "UPSTREAM_ERROR"
	ErrCodeParse         = "PARSE_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Knowledge base errors
var (
	ErrKnowledgeBaseMissing = NewDomainError(ErrCodeNotFound, "knowledge base not found, run 'aryamaild build-kb' first")
	ErrNoFAQSections        = NewDomainError(ErrCodeParse, "no FAQ section containers found in page")
	ErrNoFAQRecords         = NewDomainError(ErrCodeParse, "no question/answer pairs matched the target sections")
)

// Mail errors
var (
	ErrMissingSender = NewDomainError(ErrCodeParse, "message has no parseable sender address")
	ErrMessageDecode = NewDomainError(ErrCodeParse, "message body could not be decoded")
	ErrMailboxSelect = NewDomainError(ErrCodeUpstream, "failed to select inbox")
	ErrMailboxSearch = NewDomainError(ErrCodeUpstream, "unseen message search failed")
	ErrReplyNotSent  = NewDomainError(ErrCodeUpstream, "reply could not be delivered")
)

// Configuration errors
var (
	ErrMissingCredentials = NewDomainError(ErrCodeValidation, "required credentials are not configured")
)
