package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error. Each kind maps onto one HTTP status.
type Kind string

const (
	KindConfiguration    Kind = "configuration"
	KindStateValidation  Kind = "state_validation"
	KindProviderExchange Kind = "provider_exchange"
	KindProfileFetch     Kind = "profile_fetch"
	KindAuthentication   Kind = "authentication"
	KindAuthorization    Kind = "authorization"
	KindNotFound         Kind = "not_found"
	KindValidation       Kind = "validation"
	KindInternal         Kind = "internal"
)

// Common sentinel errors
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// OAuth flow errors
	ErrStateNotFound = errors.New("oauth state not found")
	ErrStateMismatch = errors.New("oauth state mismatch")
	ErrStateExpired  = errors.New("oauth state expired")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// General errors
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInternal      = errors.New("internal error")
	ErrUnsupported   = errors.New("unsupported operation")
	ErrNotConfigured = errors.New("not configured")
)

// Error is an application error carrying a stable machine-readable code
// alongside the human-readable message shown to callers.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind onto a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindStateValidation:
		return http.StatusBadRequest
	case KindProviderExchange, KindProfileFetch:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Configuration(message string, err error) *Error {
	return newError(KindConfiguration, "CONFIGURATION_ERROR", message, err)
}

func StateValidation(code string, err error) *Error {
	return newError(KindStateValidation, code, "oauth state validation failed", err)
}

func ProviderExchange(code string, err error) *Error {
	return newError(KindProviderExchange, code, "identity provider exchange failed", err)
}

func ProfileFetch(code string, err error) *Error {
	return newError(KindProfileFetch, code, "identity provider profile unavailable", err)
}

func Authentication(code, message string) *Error {
	return newError(KindAuthentication, code, message, nil)
}

func Authorization(code, message string) *Error {
	return newError(KindAuthorization, code, message, nil)
}

func NotFound(message string) *Error {
	return newError(KindNotFound, "NOT_FOUND", message, ErrNotFound)
}

func Validation(message string) *Error {
	return newError(KindValidation, "VALIDATION_ERROR", message, nil)
}

func Internal(message string, err error) *Error {
	return newError(KindInternal, "INTERNAL_ERROR", message, err)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// CodeOf returns the code of the first *Error in err's chain, or fallback.
func CodeOf(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}
	return fallback
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// New is errors.New, re-exported so callers need only one errors import.
func New(text string) error {
	return errors.New(text)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
