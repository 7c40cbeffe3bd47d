package server

import "time"

const (
	// HeaderXResponseTime carries the measured handler latency.
	HeaderXResponseTime = "X-Response-Time"

	// DefaultBodyLimit caps request body size when configuration is silent.
	DefaultBodyLimit = "10M"

	// DefaultHandlerTimeout bounds a single request pipeline.
	DefaultHandlerTimeout = 5 * time.Second

	// rateLimitBurstMultiplier scales the per-second rate into the burst
	// allowance when no explicit burst is configured.
	rateLimitBurstMultiplier = 2

	// rateLimitCleanup is how long idle visitors stay in the limiter store.
	rateLimitCleanup = 3 * time.Minute
)
