// Package app wires controllers into a running HTTP service. Controllers
// declare routes and a query-parameter schema; the app composes them into
// ordered pipelines and mounts them on an Echo server.
package app

import (
	"github.com/gaborage/go-conduit/filter"
	"github.com/gaborage/go-conduit/server"
)

// Controller is the interface every registered controller implements.
type Controller interface {
	// Name identifies the controller in logs.
	Name() string
	// Schema declares the query parameters accepted by this controller's
	// filters. Defined once, never mutated.
	Schema() filter.Schema
	// Routes lists the controller's route declarations.
	Routes() []server.RouteSpec
}

// StageProvider is an optional interface for controllers that contribute
// controller-scoped middleware stages around every one of their routes.
type StageProvider interface {
	Stages() server.Stages
}

// Initializer is an optional interface for controllers needing setup before
// their routes are composed.
type Initializer interface {
	Init(deps *Deps) error
}

// Shutdowner is an optional interface for controllers holding resources.
type Shutdowner interface {
	Shutdown() error
}
