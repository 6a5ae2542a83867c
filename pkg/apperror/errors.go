package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("request not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInternal          = errors.New("internal server error")
	ErrRateLimitExceeded = errors.New("too many requests")

	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrEmailTaken         = errors.New("an account with this email already exists")

	// Match request lifecycle failures.
	ErrInvalidMentor           = errors.New("mentor not found or user is not a mentor")
	ErrDuplicatePendingRequest = errors.New("you already have a pending request")
	ErrInvalidStatus           = errors.New("request has already been processed")
	ErrAlreadyMatched          = errors.New("you already have an accepted match request")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapErrorToStatus maps the error taxonomy to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrInvalidMentor),
		errors.Is(err, ErrDuplicatePendingRequest),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrAlreadyMatched):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
