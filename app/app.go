package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/gaborage/go-conduit/config"
	"github.com/gaborage/go-conduit/logger"
	"github.com/gaborage/go-conduit/server"
)

// App owns the Echo instance, the controller registry and the server
// lifecycle.
type App struct {
	cfg      *config.Config
	log      logger.Logger
	echo     *echo.Echo
	registry *Registry
}

// New builds an App with the stock middleware installed.
func New(cfg *config.Config, log logger.Logger) *App {
	if log == nil {
		log = logger.New(cfg.Log.Level, cfg.Log.Pretty)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	server.SetupMiddlewares(e, log, cfg)
	e.Use(server.RequestLogger(log))

	return &App{
		cfg:      cfg,
		log:      log,
		echo:     e,
		registry: NewRegistry(cfg, log),
	}
}

// Register adds a controller. Must be called before Run.
func (a *App) Register(ctrl Controller) error {
	return a.registry.Register(ctrl)
}

// Echo exposes the underlying Echo instance for additional wiring.
func (a *App) Echo() *echo.Echo { return a.echo }

// Run mounts all registered controllers and serves until the context is
// cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var router server.Router = a.echo
	if base := a.cfg.Server.BasePath; base != "" && base != "/" {
		router = a.echo.Group(base)
	}
	a.registry.Mount(router)

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	a.echo.Server.ReadTimeout = a.cfg.Server.ReadTimeout
	a.echo.Server.WriteTimeout = a.cfg.Server.WriteTimeout
	a.echo.Server.IdleTimeout = a.cfg.Server.IdleTimeout

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info().
			Str("addr", addr).
			Int("routes", a.registry.RouteCount()).
			Msg("Server starting")
		if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		a.log.Info().Msg("Server shutting down")
		err := a.echo.Shutdown(shutdownCtx)
		a.registry.Shutdown()
		return err
	})

	return g.Wait()
}
