package server

import (
	"html"
	"strconv"
	"strings"
)

// SanitizerFunc transforms a parameter value. The directive argument is
// passed through from the route declaration.
type SanitizerFunc func(value, arg string) string

// Sanitizers is the capability registry consulted when applying sanitizer
// directives. Unknown directive names are skipped, not errors.
type Sanitizers map[string]SanitizerFunc

// DefaultSanitizers returns the built-in sanitizer set.
func DefaultSanitizers() Sanitizers {
	return Sanitizers{
		"trim":     func(v, _ string) string { return strings.TrimSpace(v) },
		"lower":    func(v, _ string) string { return strings.ToLower(v) },
		"upper":    func(v, _ string) string { return strings.ToUpper(v) },
		"escape":   func(v, _ string) string { return html.EscapeString(v) },
		"truncate": truncateSanitizer,
		"default":  defaultSanitizer,
	}
}

func truncateSanitizer(v, arg string) string {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || len(v) <= n {
		return v
	}
	return v[:n]
}

func defaultSanitizer(v, arg string) string {
	if v == "" {
		return arg
	}
	return v
}

// apply runs the route's sanitizer directives against string parameters.
func (s Sanitizers) apply(c *Ctx, directives map[string][]SanitizeDirective) {
	for field, dirs := range directives {
		value, ok := c.Params[field].(string)
		if !ok {
			continue
		}
		for _, d := range dirs {
			fn, ok := s[d.Name]
			if !ok {
				continue
			}
			value = fn(value, d.Arg)
		}
		c.Params[field] = value
	}
}

// applyBlacklist removes the named fields from the merged parameters.
func applyBlacklist(c *Ctx, fields []string) {
	for _, f := range fields {
		delete(c.Params, f)
	}
}

// applyWhitelist keeps only the named fields. An empty whitelist keeps
// everything.
func applyWhitelist(c *Ctx, fields []string) {
	if len(fields) == 0 {
		return
	}
	keep := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		keep[f] = struct{}{}
	}
	for name := range c.Params {
		if _, ok := keep[name]; !ok {
			delete(c.Params, name)
		}
	}
}
