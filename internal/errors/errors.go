package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds surfaced by the API. Every kind except the store faults is
// client-caused and maps to a 4xx status.
var (
	// Authentication errors
	ErrAuthenticationFailed      = errors.New("authentication failed")
	ErrTokenInvalid              = errors.New("token invalid")
	ErrRefreshTokenNotRecognized = errors.New("refresh token not recognized")

	// Authorization errors
	ErrForbidden = errors.New("forbidden")

	// Resource errors
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrConflict         = errors.New("conflict")

	// General errors
	ErrInternal = errors.New("internal error")
)

// ClientError pairs an error kind with the message returned to the caller.
type ClientError struct {
	Kind    error
	Message string
}

func (e *ClientError) Error() string {
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Kind
}

// Client builds a ClientError of the given kind.
func Client(kind error, format string, args ...interface{}) error {
	return &ClientError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// StatusCode returns the HTTP status for err. Unknown errors are server faults.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrRefreshTokenNotRecognized),
		errors.Is(err, ErrInvalidOperation),
		errors.Is(err, ErrInvalidPayload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether err is caused by the caller.
func IsClientError(err error) bool {
	code := StatusCode(err)
	return code >= 400 && code < 500
}

// ClientMessage returns the message safe to show the caller.
func ClientMessage(err error) string {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Message
	}
	for _, kind := range []error{
		ErrAuthenticationFailed, ErrTokenInvalid, ErrRefreshTokenNotRecognized,
		ErrForbidden, ErrNotFound, ErrInvalidOperation, ErrInvalidPayload, ErrConflict,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "an internal server error occurred"
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
