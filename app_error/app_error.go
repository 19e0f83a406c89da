package app_error

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

type Kind string

const (
	KindValidation           Kind = "VALIDATION"
	KindNotFound             Kind = "NOT_FOUND"
	KindForbidden            Kind = "FORBIDDEN"
	KindCompetitionNotActive Kind = "COMPETITION_NOT_ACTIVE"
	KindLoggingClosed        Kind = "LOGGING_CLOSED"
	KindConflict             Kind = "CONFLICT"
)

type AppError struct {
	Kind Kind
	Err  error
}

func (e *AppError) Error() string {
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return 400
	case KindNotFound:
		return 404
	case KindForbidden, KindLoggingClosed:
		return 403
	case KindCompetitionNotActive, KindConflict:
		return 409
	default:
		return 500
	}
}

func newError(kind Kind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func Validation(format string, args ...any) *AppError {
	return newError(KindValidation, format, args...)
}

func NotFound(format string, args ...any) *AppError {
	return newError(KindNotFound, format, args...)
}

func Forbidden(format string, args ...any) *AppError {
	return newError(KindForbidden, format, args...)
}

func CompetitionNotActive(format string, args ...any) *AppError {
	return newError(KindCompetitionNotActive, format, args...)
}

func LoggingClosed(format string, args ...any) *AppError {
	return newError(KindLoggingClosed, format, args...)
}

func Conflict(format string, args ...any) *AppError {
	return newError(KindConflict, format, args...)
}

func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// WithHTTPStatus writes the error as a JSON response, mapping the error kind
// to its status code. Unclassified errors are reported as 500.
func WithHTTPStatus(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr.Error()})
		return
	}
	c.JSON(500, gin.H{"error": err.Error()})
}
