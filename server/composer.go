package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/gaborage/go-conduit/config"
	"github.com/gaborage/go-conduit/filter"
	"github.com/gaborage/go-conduit/logger"
)

// Stages are the controller-scoped middleware arrays merged around each
// route. The composition order is fixed:
//
//	begin → Pre → route.Before → Before → core → After → route.After → End → send
//
// where begin parses fields/paging/ordering/filter state and core applies
// sanitizers, validation directives, black/whitelisting and the action.
// An error anywhere short-circuits into error normalization; the terminal
// send always runs.
type Stages struct {
	Pre    []HandlerFunc
	Before []HandlerFunc
	After  []HandlerFunc
	End    []HandlerFunc
}

// Composer flattens a RouteSpec plus its controller stages into a single
// ordered Echo handler.
type Composer struct {
	log        logger.Logger
	validator  *Validator
	sanitizers Sanitizers

	filterOpts   filter.Options
	pageDefaults filter.PageDefaults
}

// NewComposer creates a Composer using the query settings from cfg.
func NewComposer(cfg *config.Config, log logger.Logger) *Composer {
	if log == nil {
		log = logger.Noop{}
	}
	return &Composer{
		log:        log,
		validator:  NewValidator(),
		sanitizers: DefaultSanitizers(),
		filterOpts: filter.Options{
			MatchAll:      cfg.Query.MatchAll,
			StrictLogical: cfg.Query.StrictLogical,
		},
		pageDefaults: filter.PageDefaults{
			Limit:    cfg.Query.DefaultLimit,
			MaxLimit: cfg.Query.MaxLimit,
		},
	}
}

// RegisterSanitizer adds or replaces a named sanitizer capability.
func (cp *Composer) RegisterSanitizer(name string, fn SanitizerFunc) {
	cp.sanitizers[name] = fn
}

// Compose builds the flattened handler for one route.
func (cp *Composer) Compose(route RouteSpec, schema filter.Schema, stages Stages) echo.HandlerFunc {
	route = route.normalize()

	return func(ec echo.Context) error {
		ctx := newCtx(ec, cp.log)

		err := cp.runChain(ctx, route, schema, stages)

		var env Envelope
		if err != nil {
			env = Classify(err)
		} else {
			env = cp.buildSuccess(ctx)
		}
		return writeEnvelope(ec, env)
	}
}

func (cp *Composer) runChain(ctx *Ctx, route RouteSpec, schema filter.Schema, stages Stages) error {
	if err := cp.begin(ctx, schema); err != nil {
		return err
	}
	for _, h := range stages.Pre {
		if err := h(ctx); err != nil {
			return err
		}
	}
	for _, h := range route.Before {
		if err := h(ctx); err != nil {
			return err
		}
	}
	for _, h := range stages.Before {
		if err := h(ctx); err != nil {
			return err
		}
	}
	if err := cp.core(ctx, route); err != nil {
		return err
	}
	for _, h := range stages.After {
		if err := h(ctx); err != nil {
			return err
		}
	}
	for _, h := range route.After {
		if err := h(ctx); err != nil {
			return err
		}
	}
	for _, h := range stages.End {
		if err := h(ctx); err != nil {
			return err
		}
	}
	return nil
}

// begin populates the parsed request state so every later stage observes
// fields, paging, ordering and the compiled filter.
func (cp *Composer) begin(ctx *Ctx, schema filter.Schema) error {
	if err := cp.mergeParams(ctx); err != nil {
		return err
	}

	query := ctx.Request().URL.Query()
	ctx.Fields = filter.ResolveFields(query)
	ctx.Page = filter.ResolvePaging(query, cp.pageDefaults)
	ctx.Order = filter.ResolveOrdering(query)

	expr, err := filter.Compile(schema, query, cp.filterOpts)
	if err != nil {
		return NewBadRequestError(err.Error())
	}
	ctx.Filter = expr
	return nil
}

// mergeParams builds the mutable parameter map: query values first, then
// JSON body fields, then path parameters (highest precedence).
func (cp *Composer) mergeParams(ctx *Ctx) error {
	ec := ctx.Echo()

	for name, vs := range ec.QueryParams() {
		if len(vs) > 0 {
			ctx.Params[name] = vs[0]
		}
	}

	req := ec.Request()
	if req.Body != nil && req.ContentLength != 0 {
		if mt, _, _ := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType)); mt == echo.MIMEApplicationJSON {
			body := map[string]any{}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return NewBadRequestError("Invalid JSON body").WithDetails("error", err.Error())
			}
			for k, v := range body {
				ctx.Params[k] = v
			}
		}
	}

	names := ec.ParamNames()
	values := ec.ParamValues()
	for i, name := range names {
		if i < len(values) {
			ctx.Params[name] = values[i]
		}
	}
	return nil
}

// core applies the route's field directives and invokes the action:
// sanitizers, then validators (any failure aborts without invoking the
// action), then blacklist, then whitelist.
func (cp *Composer) core(ctx *Ctx, route RouteSpec) error {
	cp.sanitizers.apply(ctx, route.Sanitize)

	for field, tag := range route.Validate {
		if fe := cp.validator.CheckField(field, ctx.Params[field], tag); fe != nil {
			ctx.fieldErrors = append(ctx.fieldErrors, *fe)
		}
	}
	if len(ctx.fieldErrors) > 0 {
		return &ValidationError{Errors: ctx.fieldErrors}
	}

	applyBlacklist(ctx, route.Blacklist)
	applyWhitelist(ctx, route.Whitelist)

	if route.Action == nil {
		return NewInternalServerError("route has no action")
	}
	return route.Action(ctx)
}

func (cp *Composer) buildSuccess(ctx *Ctx) SuccessEnvelope {
	meta := make(map[string]any, len(ctx.meta)+2)
	for k, v := range ctx.meta {
		meta[k] = v
	}
	meta["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	meta["requestId"] = requestID(ctx.Echo())

	env := SuccessEnvelope{Status: ctx.status, Data: ctx.result, Meta: meta}
	if ctx.status != http.StatusNoContent {
		page := ctx.Page
		env.Paging = &page
	}
	return env
}

// requestID prefers the upstream request ID header and generates one
// otherwise, mirroring it on the response for downstream correlation.
func requestID(ec echo.Context) string {
	if id := ec.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	if id := ec.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	id := uuid.New().String()
	ec.Response().Header().Set(echo.HeaderXRequestID, id)
	return id
}

// Router is the subset of Echo's registration surface the registry needs.
// Both *echo.Echo and *echo.Group satisfy it.
type Router interface {
	Add(method, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) *echo.Route
	Any(path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) []*echo.Route
}

// Registry accumulates composed routes and de-duplicates them by
// (method, path). The first registration wins; later duplicates are skipped
// with a warning so composed apps can override by omission.
type Registry struct {
	log      logger.Logger
	composer *Composer
	seen     map[string]struct{}
	routes   []composedRoute
}

type composedRoute struct {
	method  string
	path    string
	handler echo.HandlerFunc
}

// NewRegistry creates an empty route registry.
func NewRegistry(composer *Composer, log logger.Logger) *Registry {
	if log == nil {
		log = logger.Noop{}
	}
	return &Registry{
		log:      log,
		composer: composer,
		seen:     make(map[string]struct{}),
	}
}

// Register composes and records one route. It reports whether the route was
// accepted; duplicates are skipped, never overridden.
func (r *Registry) Register(route RouteSpec, schema filter.Schema, stages Stages) bool {
	route = route.normalize()

	if _, dup := r.seen[route.key()]; dup {
		r.log.Warn().
			Str("method", route.Method).
			Str("path", route.Path).
			Msg("Duplicate route skipped; first registration wins")
		return false
	}
	r.seen[route.key()] = struct{}{}

	r.routes = append(r.routes, composedRoute{
		method:  route.Method,
		path:    route.Path,
		handler: r.composer.Compose(route, schema, stages),
	})
	return true
}

// Count returns the number of accepted routes.
func (r *Registry) Count() int { return len(r.routes) }

// Mount attaches every accepted route to the router.
func (r *Registry) Mount(router Router) {
	for _, cr := range r.routes {
		if cr.method == MethodAll {
			router.Any(cr.path, cr.handler)
		} else {
			router.Add(cr.method, cr.path, cr.handler)
		}
		r.log.Debug().
			Str("method", cr.method).
			Str("path", cr.path).
			Msg("Route mounted")
	}
}
