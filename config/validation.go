package config

import "fmt"

// Validate checks invariants that would otherwise surface as confusing
// runtime behavior deep inside the pipeline.
func Validate(cfg *Config) error {
	if cfg.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Query.DefaultLimit < 0 {
		return fmt.Errorf("query.default_limit cannot be negative, got %d", cfg.Query.DefaultLimit)
	}
	if cfg.Query.MaxLimit < 0 {
		return fmt.Errorf("query.max_limit cannot be negative, got %d", cfg.Query.MaxLimit)
	}
	if cfg.Query.MaxLimit > 0 && cfg.Query.DefaultLimit > cfg.Query.MaxLimit {
		return fmt.Errorf("query.default_limit (%d) exceeds query.max_limit (%d)",
			cfg.Query.DefaultLimit, cfg.Query.MaxLimit)
	}
	if cfg.Query.MatchAll == "" {
		return fmt.Errorf("query.match_all cannot be empty")
	}
	return nil
}

// IsDevelopment reports whether the app runs in a development-like environment.
func (c *Config) IsDevelopment() bool {
	switch c.App.Env {
	case EnvDevelopment, "dev", "local", "test":
		return true
	}
	return false
}
