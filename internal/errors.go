package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound         ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized     ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden        ErrorType = "FORBIDDEN"
	ErrorTypeConflict         ErrorType = "CONFLICT"
	ErrorTypeMalformedStorage ErrorType = "MALFORMED_STORAGE"
	ErrorTypeInternal         ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodePasswordTooShort ErrorCode = "PASSWORD_TOO_SHORT"
	ErrCodeEmailRequired    ErrorCode = "EMAIL_REQUIRED"
	ErrCodeEmailTaken       ErrorCode = "EMAIL_TAKEN"
	ErrCodeIncompleteForm   ErrorCode = "INCOMPLETE_FORM"
	ErrCodeUnknownAccount   ErrorCode = "UNKNOWN_ACCOUNT_EMAIL"
	ErrCodeNoItems          ErrorCode = "NO_ITEMS"
	ErrCodeSelfDelete       ErrorCode = "SELF_DELETE"
	ErrCodeNoPendingEmail   ErrorCode = "NO_PENDING_VERIFICATION"
	ErrCodeLastAdmin        ErrorCode = "LAST_ADMIN"

	ErrCodeAccountNotFound    ErrorCode = "ACCOUNT_NOT_FOUND"
	ErrCodeDepartmentNotFound ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodeEmployeeNotFound   ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeCommandNotFound    ErrorCode = "COMMAND_NOT_FOUND"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeNotSignedIn        ErrorCode = "NOT_SIGNED_IN"
	ErrCodeAdminRequired      ErrorCode = "ADMIN_REQUIRED"

	ErrCodeUnparsableDocument ErrorCode = "UNPARSABLE_DOCUMENT"
	ErrCodeDocumentNotFound   ErrorCode = "DOCUMENT_NOT_FOUND"
)

type AppError struct {
	Type    ErrorType   `json:"type"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Cause   error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// GetDetailedMessage joins every field message; it is what users see in notifications.
func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so sentinel values work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	return &AppError{Type: e.Type, Code: e.Code, Message: e.Message, Details: e.Details, Cause: cause}
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	return &AppError{Type: e.Type, Code: e.Code, Message: e.Message, Details: details, Cause: e.Cause}
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    code,
		Message: message,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Code:    code,
		Message: message,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Code:    code,
		Message: message,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    code,
		Message: message,
	}
}

func NewMalformedStorageError(cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeMalformedStorage,
		Code:    ErrCodeUnparsableDocument,
		Message: "stored document could not be parsed",
		Cause:   cause,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Code:    "INTERNAL_ERROR",
		Message: message,
		Cause:   cause,
	}
}

var (
	ErrPasswordTooShort = NewValidationError("Password must be at least 6 characters.", ErrCodePasswordTooShort)
	ErrEmailRequired    = NewValidationError("Email is required.", ErrCodeEmailRequired)
	ErrEmailTaken       = NewConflictError("Email already exists.", ErrCodeEmailTaken)
	ErrIncompleteForm   = NewValidationError("Please complete all fields.", ErrCodeIncompleteForm)
	ErrUnknownAccount   = NewValidationError("User Email must match an existing account.", ErrCodeUnknownAccount)
	ErrNoItems          = NewValidationError("Add at least one item.", ErrCodeNoItems)
	ErrSelfDelete       = NewValidationError("You cannot delete your own account.", ErrCodeSelfDelete)
	ErrNoPendingEmail   = NewValidationError("No unverified email found. Please register first.", ErrCodeNoPendingEmail)
	ErrLastAdmin        = NewValidationError("At least one admin account is required.", ErrCodeLastAdmin)

	ErrAccountNotFound    = NewNotFoundError("Account not found.", ErrCodeAccountNotFound)
	ErrDepartmentNotFound = NewNotFoundError("Department not found.", ErrCodeDepartmentNotFound)
	ErrEmployeeNotFound   = NewNotFoundError("Employee not found.", ErrCodeEmployeeNotFound)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid credentials or unverified account.", ErrCodeInvalidCredentials)
	ErrNotSignedIn        = NewUnauthorizedError("Please login.", ErrCodeNotSignedIn)
	ErrAdminRequired      = NewForbiddenError("Admin access required.", ErrCodeAdminRequired)
)

// IsAppError unwraps err until it finds an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.GetDetailedMessage(),
		Details: e.Details,
	})
}
