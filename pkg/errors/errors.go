package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so that clones and wrapped copies
// of a predefined error satisfy errors.Is against it.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound       = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden      = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized   = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrSessionExpired = New("SESSION_EXPIRED", http.StatusUnauthorized, "session has ended, sign in again")
	ErrConflict       = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation     = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal       = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss      = New("CACHE_MISS", http.StatusNotFound, "cache entry not found")
	ErrFeatureOff     = New("FEATURE_DISABLED", http.StatusNotFound, "feature disabled")
)

// Authorization gate rejections. Messages are shown to the user verbatim.
var (
	ErrUnauthorizedNoEmail   = New("UNAUTHORIZED_NO_EMAIL", http.StatusForbidden, "You are not authorised to access the platform")
	ErrEmployeeNotFound      = New("EMPLOYEE_NOT_FOUND", http.StatusForbidden, "You are not authorized to access this platform.")
	ErrEmployeeNotApproved   = New("EMPLOYEE_NOT_APPROVED", http.StatusForbidden, "Ask admin to approve your account")
	ErrEmployeeNotRegistered = New("EMPLOYEE_NOT_REGISTERED", http.StatusForbidden, "You are not registered as an employee. Please contact an administrator.")
)

// Identity provider failures.
var (
	ErrInvalidCredential                = New("INVALID_CREDENTIAL", http.StatusUnauthorized, "Invalid email or password. Please check your credentials and try again.")
	ErrPopupClosed                      = New("POPUP_CLOSED", http.StatusBadRequest, "sign-in was cancelled")
	ErrAccountExistsDifferentCredential = New("ACCOUNT_EXISTS_DIFFERENT_CREDENTIAL", http.StatusConflict, "An account already exists with this email. Please sign in with your original method.")
	ErrEmailInUse                       = New("EMAIL_IN_USE", http.StatusConflict, "This email address is already registered.")
	ErrWeakPassword                     = New("WEAK_PASSWORD", http.StatusBadRequest, "Password is too weak. Please use at least 6 characters.")
	ErrInvalidEmail                     = New("INVALID_EMAIL", http.StatusBadRequest, "Please enter a valid email address.")
	ErrIdentity                         = New("IDENTITY_ERROR", http.StatusBadGateway, "An unexpected error occurred during sign-in.")
)

// Generic identity copy per entry point.
const (
	MsgSignInFailed    = "An unexpected error occurred during sign-in."
	MsgFederatedFailed = "Failed to sign in with Google. Please try again."
	MsgSignUpFailed    = "Failed to create an account. Please try again."
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// HasCode reports whether err carries an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
