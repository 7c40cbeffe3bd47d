package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/go-conduit/filter"
	"github.com/gaborage/go-conduit/logger"
)

// Ctx is the request-scoped state threaded through a pipeline. It is created
// fresh per request and discarded once the response is sent; nothing on it is
// shared across requests.
type Ctx struct {
	echoCtx echo.Context
	log     logger.Logger

	// Params is the merged, mutable view of path params, query parameters
	// and JSON body fields. Sanitizers and black/whitelisting operate on it.
	Params map[string]any

	// Parsed query state, populated by the begin stage before any user code.
	Filter filter.Expression
	Page   filter.Page
	Order  filter.Order
	Fields []string

	status int
	result any
	meta   map[string]any

	fieldErrors []FieldError
}

func newCtx(ec echo.Context, log logger.Logger) *Ctx {
	return &Ctx{
		echoCtx: ec,
		log:     log,
		Params:  make(map[string]any),
		status:  http.StatusOK,
		meta:    make(map[string]any),
	}
}

// Echo exposes the underlying framework context.
func (c *Ctx) Echo() echo.Context { return c.echoCtx }

// Logger returns the request logger.
func (c *Ctx) Logger() logger.Logger { return c.log }

// Request returns the underlying HTTP request.
func (c *Ctx) Request() *http.Request { return c.echoCtx.Request() }

// Param returns a merged parameter value, or nil when absent.
func (c *Ctx) Param(name string) any { return c.Params[name] }

// ParamString returns a merged parameter as a string ("" when absent or not
// a string).
func (c *Ctx) ParamString(name string) string {
	s, _ := c.Params[name].(string)
	return s
}

// Result sets the success payload with status 200.
func (c *Ctx) Result(data any) {
	c.result = data
	c.status = http.StatusOK
}

// ResultWithStatus sets the success payload with an explicit status.
func (c *Ctx) ResultWithStatus(status int, data any) {
	c.result = data
	c.status = status
}

// NoContent marks the response as 204. Any payload is discarded at
// normalization time.
func (c *Ctx) NoContent() {
	c.result = nil
	c.status = http.StatusNoContent
}

// SetMeta attaches a metadata entry to the response envelope.
func (c *Ctx) SetMeta(key string, value any) { c.meta[key] = value }

// AddFieldError records a request-level validation failure. The core stage
// aborts the chain when any are present.
func (c *Ctx) AddFieldError(field, message string) {
	c.fieldErrors = append(c.fieldErrors, FieldError{Field: field, Message: message})
}

// FieldErrors returns the request-level validation failures collected so far.
func (c *Ctx) FieldErrors() []FieldError { return c.fieldErrors }
