package server

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Canonical error type strings, keyed by HTTP status in errorTypes.
const (
	TypeBadRequest          = "BAD_REQUEST"
	TypeUnauthorized        = "UNAUTHORIZED"
	TypeForbidden           = "FORBIDDEN"
	TypeNotFound            = "NOT_FOUND"
	TypeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	TypeNotAcceptable       = "NOT_ACCEPTABLE"
	TypeConflict            = "CONFLICT"
	TypeUnprocessable       = "UNPROCESSABLE_ENTITY"
	TypeTooManyRequests     = "TOO_MANY_REQUESTS"
	TypeInternalServerError = "INTERNAL_SERVER_ERROR"
	TypeServiceUnavailable  = "SERVICE_UNAVAILABLE"

	TypeUnknownClientError = "UNKNOWN_CLIENT_ERROR"
	TypeUnknownServerError = "UNKNOWN_SERVER_ERROR"
)

// errorTypes is the process-wide classification table. Read-only after init.
var errorTypes = map[int]string{
	http.StatusBadRequest:          TypeBadRequest,
	http.StatusUnauthorized:        TypeUnauthorized,
	http.StatusForbidden:           TypeForbidden,
	http.StatusNotFound:            TypeNotFound,
	http.StatusMethodNotAllowed:    TypeMethodNotAllowed,
	http.StatusNotAcceptable:       TypeNotAcceptable,
	http.StatusConflict:            TypeConflict,
	http.StatusUnprocessableEntity: TypeUnprocessable,
	http.StatusTooManyRequests:     TypeTooManyRequests,
	http.StatusInternalServerError: TypeInternalServerError,
	http.StatusServiceUnavailable:  TypeServiceUnavailable,
}

// ErrorTypeForStatus looks up the canonical error type for a status code,
// falling back to the 4xx/5xx buckets.
func ErrorTypeForStatus(status int) string {
	if t, ok := errorTypes[status]; ok {
		return t
	}
	switch {
	case status >= 400 && status < 500:
		return TypeUnknownClientError
	case status >= 500 && status < 600:
		return TypeUnknownServerError
	default:
		return TypeUnknownServerError
	}
}

// Classify maps a raw error into an error envelope. It never returns an
// invalid envelope and never panics: unclassifiable errors become 500s.
//
// Detection precedence, first match wins: storage uniqueness violation,
// structured validation failure, declared API error, framework HTTP error,
// fallback 500.
func Classify(err error) ErrorEnvelope {
	env := classify(err)
	if env.ErrorType == "" {
		env.ErrorType = ErrorTypeForStatus(env.Status)
	}
	env.ErrorLine = callerLine()
	if env.Meta == nil {
		env.Meta = map[string]any{}
	}
	return env
}

func classify(err error) ErrorEnvelope {
	if err == nil {
		return ErrorEnvelope{Status: http.StatusInternalServerError, ErrorMessage: "Internal Server Error"}
	}

	if isDuplicateKey(err) {
		return ErrorEnvelope{
			Status:       http.StatusConflict,
			ErrorType:    TypeConflict,
			ErrorMessage: "Duplicate key violates a uniqueness constraint",
		}
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve.Errors))
		for _, fe := range ve.Errors {
			msgs = append(msgs, fmt.Sprintf("[%s -> %s]", fe.Field, fe.Message))
		}
		return ErrorEnvelope{
			Status:       http.StatusBadRequest,
			ErrorType:    TypeBadRequest,
			ErrorMessage: strings.Join(msgs, " "),
			Meta:         map[string]any{"errors": ve.Errors},
		}
	}

	var apiErr IAPIError
	if errors.As(err, &apiErr) {
		env := ErrorEnvelope{
			Status:       apiErr.HTTPStatus(),
			ErrorType:    apiErr.ErrorCode(),
			ErrorMessage: apiErr.Message(),
		}
		if details := apiErr.Details(); details != nil {
			env.Meta = map[string]any{"details": details}
		}
		return env
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return ErrorEnvelope{
			Status:       he.Code,
			ErrorMessage: fmt.Sprintf("%v", he.Message),
		}
	}

	msg := err.Error()
	if msg == "" {
		msg = "Internal Server Error"
	}
	return ErrorEnvelope{Status: http.StatusInternalServerError, ErrorMessage: msg}
}

// isDuplicateKey detects storage uniqueness violations: the structured
// ErrDuplicateKey marker, the driver's own classification, and as a last
// resort the well-known markers in the error text.
func isDuplicateKey(err error) bool {
	if errors.Is(err, ErrDuplicateKey) {
		return true
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	text := err.Error()
	return strings.Contains(text, "E11000") || strings.Contains(strings.ToLower(text), "duplicate key")
}

// callerLine extracts the first call site outside this package, as a
// diagnostic nicety. Returns "" when nothing useful is found.
func callerLine() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		internal := strings.Contains(frame.Function, "go-conduit/server.") ||
			strings.HasPrefix(frame.Function, "runtime.")
		if frame.File != "" && !internal {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}
		if !more {
			return ""
		}
	}
}
