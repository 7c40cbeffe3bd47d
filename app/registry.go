package app

import (
	"fmt"

	"github.com/gaborage/go-conduit/config"
	"github.com/gaborage/go-conduit/logger"
	"github.com/gaborage/go-conduit/server"
)

// Deps carries the dependencies injected into controllers at registration.
type Deps struct {
	Logger logger.Logger
	Config *config.Config
}

// Registry registers controllers and composes their routes. Controllers are
// processed in registration order; duplicate (method, path) pairs across
// controllers keep the first registration.
type Registry struct {
	log         logger.Logger
	deps        *Deps
	routes      *server.Registry
	controllers []Controller
}

// NewRegistry creates a controller registry backed by a fresh route registry.
func NewRegistry(cfg *config.Config, log logger.Logger) *Registry {
	if log == nil {
		log = logger.Noop{}
	}
	composer := server.NewComposer(cfg, log)
	return &Registry{
		log:    log,
		deps:   &Deps{Logger: log, Config: cfg},
		routes: server.NewRegistry(composer, log),
	}
}

// Register initializes a controller and composes its routes.
func (r *Registry) Register(ctrl Controller) error {
	r.log.Info().Str("controller", ctrl.Name()).Msg("Registering controller")

	if init, ok := ctrl.(Initializer); ok {
		if err := init.Init(r.deps); err != nil {
			return fmt.Errorf("controller %s init failed: %w", ctrl.Name(), err)
		}
	}

	var stages server.Stages
	if sp, ok := ctrl.(StageProvider); ok {
		stages = sp.Stages()
	}

	schema := ctrl.Schema()
	for _, route := range ctrl.Routes() {
		r.routes.Register(route, schema, stages)
	}

	r.controllers = append(r.controllers, ctrl)
	return nil
}

// Mount attaches all composed routes to the router.
func (r *Registry) Mount(router server.Router) {
	r.routes.Mount(router)
}

// RouteCount returns the number of accepted routes.
func (r *Registry) RouteCount() int { return r.routes.Count() }

// Shutdown stops controllers in registration order. Failures are logged, not
// propagated; shutdown always visits every controller.
func (r *Registry) Shutdown() {
	for _, ctrl := range r.controllers {
		sd, ok := ctrl.(Shutdowner)
		if !ok {
			continue
		}
		r.log.Info().Str("controller", ctrl.Name()).Msg("Shutting down controller")
		if err := sd.Shutdown(); err != nil {
			r.log.Error().Err(err).Str("controller", ctrl.Name()).Msg("Controller shutdown failed")
		}
	}
}
