package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config is the root configuration for a conduit-based service.
type Config struct {
	App    AppConfig    `koanf:"app"`
	Server ServerConfig `koanf:"server"`
	Query  QueryConfig  `koanf:"query"`
	Log    LogConfig    `koanf:"log"`

	// k holds the underlying koanf instance for access to custom keys
	k *koanf.Koanf
}

type AppConfig struct {
	Name    string `koanf:"name"`
	Version string `koanf:"version"`
	Env     string `koanf:"env"`
	Debug   bool   `koanf:"debug"`
	Rate    RateConfig
}

type RateConfig struct {
	Limit int `koanf:"limit"`
	Burst int `koanf:"burst"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	HandlerTimeout  time.Duration `koanf:"handler_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	BasePath        string        `koanf:"base_path"`
	BodyLimit       string        `koanf:"body_limit"`
}

// QueryConfig governs filter compilation and pagination defaults.
type QueryConfig struct {
	// DefaultLimit is applied when a request carries no limit/count parameter.
	DefaultLimit int64 `koanf:"default_limit"`
	// MaxLimit caps client-supplied limits; 0 disables the cap.
	MaxLimit int64 `koanf:"max_limit"`
	// MatchAll is the sentinel value that removes a filter key ("*" by default).
	MatchAll string `koanf:"match_all"`
	// StrictLogical rejects logical operators outside {and,or,nor} with a
	// client error instead of passing them through.
	StrictLogical bool `koanf:"strict_logical"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}
