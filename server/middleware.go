package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/gaborage/go-conduit/config"
	"github.com/gaborage/go-conduit/logger"
)

// SetupMiddlewares registers the stock middleware set on the Echo instance:
// request IDs, panic recovery, CORS, body limit, timeout, rate limiting and
// response timing. Pipelines composed by this package run inside these.
func SetupMiddlewares(e *echo.Echo, log logger.Logger, cfg *config.Config) {
	e.Use(middleware.RequestID())

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Error().
				Err(err).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Interface("stack", string(stack)).
				Msg("Panic recovered")
			return err
		},
	}))

	e.Use(middleware.CORS())

	bodyLimit := cfg.Server.BodyLimit
	if bodyLimit == "" {
		bodyLimit = DefaultBodyLimit
	}
	e.Use(middleware.BodyLimit(bodyLimit))

	timeout := cfg.Server.HandlerTimeout
	if timeout <= 0 {
		timeout = DefaultHandlerTimeout
	}
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{Timeout: timeout}))

	e.Use(RateLimit(cfg.App.Rate.Limit))

	e.Use(Timing())
}

// RateLimit limits requests per client IP. A non-positive rate disables the
// middleware.
func RateLimit(requestsPerSecond int) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(requestsPerSecond),
				Burst:     requestsPerSecond * rateLimitBurstMultiplier,
				ExpiresIn: rateLimitCleanup,
			},
		),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return tooManyRequests(c)
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return tooManyRequests(c)
		},
	})
}

func tooManyRequests(c echo.Context) error {
	env := ErrorEnvelope{
		Status:       http.StatusTooManyRequests,
		ErrorType:    TypeTooManyRequests,
		ErrorMessage: "Rate limit exceeded",
		Meta:         map[string]any{},
	}
	return writeEnvelope(c, env)
}

// Timing adds an X-Response-Time header with the measured latency.
func Timing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if resp := c.Response(); resp != nil {
				resp.Header().Set(HeaderXResponseTime, time.Since(start).String())
			}
			return err
		}
	}
}

// RequestLogger emits one structured line per request.
func RequestLogger(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("Request handled")
			return err
		}
	}
}
