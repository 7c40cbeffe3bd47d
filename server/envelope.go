package server

import (
	"net/http"

	"github.com/gaborage/go-conduit/filter"
)

// Envelope is the normalized top-level response shape. Exactly one of the
// two variants is built per request; the envelope is immutable once built
// and consumed exactly once by the content negotiator.
type Envelope interface {
	StatusCode() int
	// Payload renders the wire shape: {"meta": {...}, "data": ...}.
	Payload() map[string]any
}

// SuccessEnvelope wraps handler output.
type SuccessEnvelope struct {
	Status int
	Data   any
	Meta   map[string]any
	Paging *filter.Page
}

// ErrorEnvelope wraps a classified error.
type ErrorEnvelope struct {
	Status       int
	ErrorType    string
	ErrorMessage string
	ErrorLine    string
	Meta         map[string]any
	Data         any
}

// StatusCode returns the HTTP status of the success envelope.
func (e SuccessEnvelope) StatusCode() int { return e.Status }

// Payload renders the success wire shape. A 204 never carries data.
func (e SuccessEnvelope) Payload() map[string]any {
	meta := make(map[string]any, len(e.Meta)+1)
	for k, v := range e.Meta {
		meta[k] = v
	}
	if e.Paging != nil {
		meta["paging"] = *e.Paging
	}

	payload := map[string]any{"meta": meta}
	if e.Status != http.StatusNoContent {
		payload["data"] = e.Data
	}
	return payload
}

// StatusCode returns the HTTP status of the error envelope.
func (e ErrorEnvelope) StatusCode() int { return e.Status }

// Payload renders the error wire shape. The classification fields live under
// meta; any extra meta entries are merged alongside them.
func (e ErrorEnvelope) Payload() map[string]any {
	meta := make(map[string]any, len(e.Meta)+4)
	for k, v := range e.Meta {
		meta[k] = v
	}
	meta["statusCode"] = e.Status
	meta["errorType"] = e.ErrorType
	meta["errorMessage"] = e.ErrorMessage
	if e.ErrorLine != "" {
		meta["errorLine"] = e.ErrorLine
	}

	return map[string]any{"meta": meta, "data": e.Data}
}
