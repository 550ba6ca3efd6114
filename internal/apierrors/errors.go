// Package apierrors maps service failures onto structured HTTP error
// responses.
package apierrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
)

// Category buckets an error for logging and retry decisions.
type Category string

const (
	CategoryValidation Category = "validation"
	CategoryContention Category = "contention"
	CategoryUpstream   Category = "upstream"
	CategoryInternal   Category = "internal"
)

// AppError carries an errbuilder error plus the HTTP mapping.
type AppError struct {
	*errbuilder.ErrBuilder
	Category   Category
	HTTPStatus int
	Timestamp  time.Time

	// RetryAfter, in seconds, is set on contention errors only.
	RetryAfter int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Category, e.ErrBuilder.Msg)
}

func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// MarshalJSON assembles the response document itself. The embedded builder's
// marshaller would otherwise be promoted onto AppError, hiding the HTTP
// fields, and it dereferences a nil Cause.
func (e *AppError) MarshalJSON() ([]byte, error) {
	doc := map[string]any{
		"code":        e.ErrBuilder.Code,
		"message":     e.ErrBuilder.Msg,
		"category":    e.Category,
		"http_status": e.HTTPStatus,
		"timestamp":   e.Timestamp,
	}
	if cause := e.ErrBuilder.Cause; cause != nil {
		doc["cause"] = cause.Error()
	}
	if e.RetryAfter > 0 {
		doc["retry_after"] = e.RetryAfter
	}
	return json.Marshal(doc)
}

func newAppError(builder *errbuilder.ErrBuilder, category Category, status int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: status,
		Timestamp:  time.Now(),
	}
}

// NewValidationError rejects a malformed request parameter.
func NewValidationError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategoryValidation, http.StatusBadRequest)
}

// NewContentionError tells the caller a leaderboard is mid-rebuild and the
// read should be retried shortly.
func NewContentionError(retryAfterSeconds int) *AppError {
	appErr := newAppError(errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg("Leaderboard update in progress"),
		CategoryContention, http.StatusServiceUnavailable)
	appErr.RetryAfter = retryAfterSeconds
	return appErr
}

// NewUpstreamError reports a failure of the entry log backing the
// leaderboards.
func NewUpstreamError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategoryUpstream, http.StatusBadGateway)
}

// NewInternalError covers everything without a more specific mapping.
func NewInternalError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategoryInternal, http.StatusInternalServerError)
}

// ToAppError converts any error into an AppError, defaulting to internal.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("An unexpected error occurred", err)
}

// Abort writes the structured response, the Retry-After header when set, and
// records the error on the gin context for the logging middleware.
func Abort(c *gin.Context, err *AppError) {
	LogError(c, err)
	if err.RetryAfter > 0 {
		c.Header("Retry-After", fmt.Sprintf("%d", err.RetryAfter))
	}
	c.AbortWithStatusJSON(err.HTTPStatus, err)
}

// LogError logs one request failure with its HTTP context.
func LogError(c *gin.Context, err *AppError) {
	entry := slog.With(
		"error_category", err.Category,
		"error_code", err.ErrBuilder.ErrCode(),
		"http_status", err.HTTPStatus,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"ip", c.ClientIP(),
	)

	switch err.Category {
	case CategoryValidation, CategoryContention:
		entry.Warn(err.ErrBuilder.Msg)
	default:
		if cause := err.ErrBuilder.Unwrap(); cause != nil {
			entry.Error(err.ErrBuilder.Msg, "cause", cause)
		} else {
			entry.Error(err.ErrBuilder.Msg)
		}
	}
}
