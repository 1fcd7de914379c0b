// Package config loads the site configuration (config.yml) and the generator's
// own paths and remote theme registry.
package config

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/logfields"
)

const (
	DefaultFile  = "config.yml"
	DefaultTheme = "freelancer"
	DefaultName  = "John Doe"

	// RemotesKey holds the merged remote theme registry inside a SiteConfig.
	RemotesKey = "remotes"
)

// SiteConfig is the loosely typed site configuration. A SiteConfig is never
// mutated after Load returns.
type SiteConfig struct {
	path    string
	values  map[string]any
	remotes map[string]string
}

// Load reads the site configuration at path and attaches the remote theme
// registry found at paths.RemotesFile. A missing registry yields no remotes.
func Load(path string, paths Paths) (*SiteConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.ConfigNotFound(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", path).Fatal().Build()
	}

	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
			WithContext("path", path).Fatal().UserAction().Build()
	}
	if values == nil {
		values = map[string]any{}
	}
	for k, v := range values {
		values[k] = expandEnv(v)
	}

	remotes, err := LoadRemotes(paths.RemotesFile)
	if err != nil {
		return nil, err
	}
	// Entries in config.yml override the shared registry.
	if own, ok := values[RemotesKey].(map[string]any); ok {
		for name, url := range own {
			remotes[name] = fmt.Sprint(url)
		}
	}
	registry := make(map[string]any, len(remotes))
	for name, url := range remotes {
		registry[name] = url
	}
	values[RemotesKey] = registry

	return New(values, remotes).withPath(path), nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references in string values with the variable's
// value. Unset variables and any other `$` text are left as written.
func expandEnv(v any) any {
	switch t := v.(type) {
	case string:
		return envRef.ReplaceAllStringFunc(t, func(ref string) string {
			if val, ok := os.LookupEnv(ref[2 : len(ref)-1]); ok {
				return val
			}
			return ref
		})
	case map[string]any:
		for k, e := range t {
			t[k] = expandEnv(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = expandEnv(e)
		}
		return t
	default:
		return v
	}
}

// New builds a SiteConfig from already parsed values, applying defaults.
func New(values map[string]any, remotes map[string]string) *SiteConfig {
	v := maps.Clone(values)
	if v == nil {
		v = map[string]any{}
	}
	if !Truthy(v["theme"]) {
		v["theme"] = DefaultTheme
	}
	if !Truthy(v["name"]) {
		v["name"] = DefaultName
	}
	if remotes == nil {
		remotes = map[string]string{}
	}
	return &SiteConfig{values: v, remotes: remotes}
}

func (c *SiteConfig) withPath(p string) *SiteConfig {
	c.path = p
	return c
}

// Path is the file the configuration was read from, empty for in-memory configs.
func (c *SiteConfig) Path() string { return c.path }

// Lookup returns the value for key and whether it was set.
func (c *SiteConfig) Lookup(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Get returns the value for key, or false when it is not set. Misses are
// logged so that misspelt keys show up with --verbose.
func (c *SiteConfig) Get(key string) any {
	if v, ok := c.values[key]; ok {
		return v
	}
	slog.Debug("config key not set", logfields.Key(key))
	return false
}

// String returns key formatted as a string, or "" when unset.
func (c *SiteConfig) String(key string) string {
	v, ok := c.Lookup(key)
	if !ok || v == nil {
		slog.Debug("config key not set", logfields.Key(key))
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Bool reports whether key is set to a truthy value.
func (c *SiteConfig) Bool(key string) bool {
	return Truthy(c.Get(key))
}

func (c *SiteConfig) Theme() string { return c.String("theme") }
func (c *SiteConfig) Name() string  { return c.String("name") }

// Remotes returns a copy of the remote theme registry.
func (c *SiteConfig) Remotes() map[string]string { return maps.Clone(c.remotes) }

// Keys returns the configured keys in sorted order.
func (c *SiteConfig) Keys() []string {
	return slices.Sorted(maps.Keys(c.values))
}

// Values returns a shallow copy of the underlying map.
func (c *SiteConfig) Values() map[string]any { return maps.Clone(c.values) }

// Truthy mirrors template truthiness: false, zero numbers, empty strings and
// empty collections are false.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case uint64:
		return t != 0
	case float64:
		return t != 0
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}
