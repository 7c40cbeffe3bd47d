// Package config loads layered configuration for conduit services.
// Priority: environment variables > YAML files > built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Load loads configuration from defaults, an optional config.yaml (plus an
// optional config.<env>.yaml), and finally environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// YAML files are optional
	_ = k.Load(file.Provider("config.yaml"), yaml.Parser())
	if env := k.String("app.env"); env != "" {
		_ = k.Load(file.Provider(fmt.Sprintf("config.%s.yaml", env)), yaml.Parser())
	}

	if err := k.Load(envprovider.Provider(".", envprovider.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return finish(k)
}

// LoadBytes builds a Config from raw YAML on top of the defaults.
// Intended for tests and embedded configuration.
func LoadBytes(b []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config bytes: %w", err)
	}

	return finish(k)
}

func finish(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.App.Rate.Limit = k.Int("app.rate.limit")
	cfg.App.Rate.Burst = k.Int("app.rate.burst")
	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Get returns a raw custom configuration value by dotted key.
func (c *Config) Get(key string) any {
	if c.k == nil {
		return nil
	}
	return c.k.Get(key)
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":       "conduit-service",
		"app.version":    "v1.0.0",
		"app.env":        EnvDevelopment,
		"app.debug":      false,
		"app.rate.limit": 100,
		"app.rate.burst": 200,

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "15s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "60s",
		"server.handler_timeout":  "5s",
		"server.shutdown_timeout": "10s",
		"server.base_path":        "",
		"server.body_limit":       "10M",

		"query.default_limit":  20,
		"query.max_limit":      1000,
		"query.match_all":      "*",
		"query.strict_logical": true,

		"log.level":  "info",
		"log.pretty": false,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
