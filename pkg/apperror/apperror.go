package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrPermission      = errors.New("permission denied")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal server error")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUpstream        = errors.New("upstream failure")
	ErrUnavailable     = errors.New("upstream unavailable")
	ErrTooManyRequests = errors.New("too many requests")
)

// Kind is the caller-facing failure kind. It survives every translation
// between components so the boundary can pick a user-facing message.
type Kind string

const (
	KindInsufficientInput   Kind = "InsufficientInput"
	KindInvalidInput        Kind = "InvalidInput"
	KindValidation          Kind = "ValidationError"
	KindNotFoundOrForbidden Kind = "NotFoundOrForbidden"
	KindTransport           Kind = "TransportError"
	KindProvider            Kind = "ProviderError"
	KindEmptyResponse       Kind = "EmptyResponse"
	KindMalformedPayload    Kind = "MalformedPayload"
	KindUpload              Kind = "UploadError"
	KindTransform           Kind = "TransformError"
	KindPersistence         Kind = "PersistenceError"
	KindConflict            Kind = "Conflict"
	KindUnauthorized        Kind = "Unauthorized"
	KindRateLimited         Kind = "RateLimited"
	KindInternal            Kind = "Internal"
)

type AppError struct {
	BaseError error
	Kind      Kind
	Message   string
	Details   string
	Err       error
	// Payload carries structured detail that is safe to show the caller,
	// such as validation defects.
	Payload any
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Kind, e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s (Details: %s)", e.BaseError.Error(), e.Kind, e.Message, e.Details)
}

func (e *AppError) Unwrap() error {
	return e.BaseError
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Kind: defaultKind(base), Message: msg, Details: details, Err: err}
}

// WithKind overrides the kind derived from the base error.
func (e *AppError) WithKind(k Kind) *AppError {
	e.Kind = k
	return e
}

// WithPayload attaches caller-visible structured detail.
func (e *AppError) WithPayload(p any) *AppError {
	e.Payload = p
	return e
}

func NewNotFound(resource, identifier string) *AppError {
	msg := fmt.Sprintf("%s not found", resource)
	details := fmt.Sprintf("%s with identifier '%s' was not found", resource, identifier)
	return NewAppError(ErrNotFound, msg, details, nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

func NewConflict(resource, field, value string) *AppError {
	msg := fmt.Sprintf("%s conflict", resource)
	details := fmt.Sprintf("%s with %s '%s' already exists", resource, field, value)
	return NewAppError(ErrConflict, msg, details, nil)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "An internal server error occurred", details, err)
}

func NewUnauthorized(details string, err error) *AppError {
	return NewAppError(ErrUnauthorized, "Invalid credentials", details, err)
}

func NewPermissionDenied(details string) *AppError {
	return NewAppError(ErrPermission, "Permission denied", details, nil)
}

func NewTooManyRequests(details string) *AppError {
	return NewAppError(ErrTooManyRequests, "Too many requests, try again later", details, nil)
}

// NewUpstream reports a failure of an external service. Transport failures
// map to ErrUnavailable so callers can offer a retry; everything else is a
// logical upstream failure.
func NewUpstream(kind Kind, details string, err error) *AppError {
	if kind == KindTransport {
		return NewAppError(ErrUnavailable, "The service is temporarily unreachable, try again", details, err).WithKind(kind)
	}
	return NewAppError(ErrUpstream, "The upstream service could not process the request", details, err).WithKind(kind)
}

func defaultKind(base error) Kind {
	switch {
	case errors.Is(base, ErrNotFound):
		return KindNotFoundOrForbidden
	case errors.Is(base, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(base, ErrUnauthorized), errors.Is(base, ErrPermission):
		return KindUnauthorized
	case errors.Is(base, ErrConflict):
		return KindConflict
	case errors.Is(base, ErrTooManyRequests):
		return KindRateLimited
	case errors.Is(base, ErrUnavailable):
		return KindTransport
	case errors.Is(base, ErrUpstream):
		return KindProvider
	}
	return KindInternal
}

type kinded interface {
	ErrorKind() Kind
}

// KindOf returns the failure kind carried by err, looking through wraps.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	var k kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return KindInternal
}

func ToHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrPermission) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrTooManyRequests) {
		return http.StatusTooManyRequests
	}
	if errors.Is(err, ErrUpstream) {
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (e *AppError) ToJSON() gin.H {
	body := gin.H{
		"error":   e.BaseError.Error(),
		"kind":    e.Kind,
		"message": e.Message,
	}
	if e.Payload != nil {
		body["details"] = e.Payload
	}
	return body
}
