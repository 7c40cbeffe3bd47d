package server

import (
	"net/http"
	"strings"
)

// HandlerFunc is one pipeline stage. Returning an error aborts the chain and
// routes the request through error normalization.
type HandlerFunc func(*Ctx) error

// MethodAll registers a route for every HTTP method.
const MethodAll = "ALL"

// SanitizeDirective names a registered sanitizer and its argument.
type SanitizeDirective struct {
	Name string
	Arg  string
}

// RouteSpec declares one route of a controller.
type RouteSpec struct {
	// Method defaults to GET; MethodAll matches every method.
	Method string
	// Path is case-normalized (lowercased) at registration.
	Path string
	// Action is the business handler. It sets its result on the Ctx.
	Action HandlerFunc

	// Sanitize maps parameter names to sanitizer directives applied before
	// validation.
	Sanitize map[string][]SanitizeDirective
	// Validate maps parameter names to validator tag expressions
	// (e.g. "required,max=64"). Any failure aborts the chain before Action.
	Validate map[string]string
	// Blacklist removes the named parameters.
	Blacklist []string
	// Whitelist, when non-empty, keeps only the named parameters. It runs
	// after Blacklist and wins for overlapping fields.
	Whitelist []string

	// Before and After run around Action, inside the controller-level stages.
	Before []HandlerFunc
	After  []HandlerFunc
}

// normalize applies registration-time defaults.
func (r RouteSpec) normalize() RouteSpec {
	if r.Method == "" {
		r.Method = http.MethodGet
	}
	r.Method = strings.ToUpper(r.Method)
	r.Path = strings.ToLower(r.Path)
	if !strings.HasPrefix(r.Path, "/") {
		r.Path = "/" + r.Path
	}
	return r
}

// key identifies a route for de-duplication.
func (r RouteSpec) key() string {
	return r.Method + " " + r.Path
}
