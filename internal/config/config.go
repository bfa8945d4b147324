// Package config loads graphscope.toml.
//
// A minimal file:
//
//	[engine]
//	layout = "force"
//	node_size_by = "degree"
//	max_nodes = 5000
//
//	[colors.person]
//	color = "#1f77b4"
//	label = "People"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "72h"
//
//	[server]
//	addr = ":8080"
//
// Every key is optional; Default lists the values used for missing keys.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	gserrors "github.com/matzehuels/graphscope/pkg/errors"
	"github.com/matzehuels/graphscope/pkg/graph"
	"github.com/matzehuels/graphscope/pkg/positions"
	"github.com/matzehuels/graphscope/pkg/scheduler"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// FileName is the config file looked up in the config directory.
	FileName = "graphscope.toml"

	// Cache backends.
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	DefaultCacheBackend = CacheFile
	DefaultRedisAddr    = "localhost:6379"
	DefaultServerAddr   = ":8080"
)

// =============================================================================
// Config
// =============================================================================

// Config is the decoded config file.
type Config struct {
	Engine Engine                     `toml:"engine"`
	Colors map[string]graph.TypeStyle `toml:"colors"`
	Cache  Cache                      `toml:"cache"`
	Server Server                     `toml:"server"`
}

// Engine holds engine defaults. Command-line flags override them.
type Engine struct {
	Layout     string `toml:"layout"`
	NodeSizeBy string `toml:"node_size_by"`
	MaxNodes   int    `toml:"max_nodes"`
	DebounceMS int    `toml:"debounce_ms"`
	Seed       uint64 `toml:"seed"`
}

// Cache selects the position snapshot store.
type Cache struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	TTL       string `toml:"ttl"`
}

// Server configures the HTTP host.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills in every unset value.
func (c *Config) SetDefaults() {
	if c.Engine.Layout == "" {
		c.Engine.Layout = graph.LayoutForce
	}
	if c.Engine.NodeSizeBy == "" {
		c.Engine.NodeSizeBy = graph.SizeByCount
	}
	if c.Engine.DebounceMS <= 0 {
		c.Engine.DebounceMS = int(scheduler.DefaultDelay / time.Millisecond)
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = DefaultCacheBackend
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = DefaultRedisAddr
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = positions.DefaultTTL.String()
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// Validate checks enumerations, colors and durations.
func (c *Config) Validate() error {
	if err := gserrors.ValidateLayoutType(c.Engine.Layout, graph.ValidLayouts); err != nil {
		return err
	}
	if err := gserrors.ValidateSizeBy(c.Engine.NodeSizeBy, graph.ValidSizeBy); err != nil {
		return err
	}
	if c.Engine.MaxNodes < 0 {
		return gserrors.New(gserrors.ErrCodeInvalidInput, "max_nodes must not be negative")
	}
	for name, style := range c.Colors {
		if style.Color == "" {
			continue
		}
		if err := gserrors.ValidateColor(style.Color); err != nil {
			return gserrors.Wrap(gserrors.ErrCodeInvalidColor, err, "colors.%s", name)
		}
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return gserrors.New(gserrors.ErrCodeInvalidInput, "unknown cache backend: %q", c.Cache.Backend)
	}
	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		return gserrors.Wrap(gserrors.ErrCodeInvalidInput, err, "cache.ttl")
	}
	return nil
}

// Debounce returns the engine debounce delay.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Engine.DebounceMS) * time.Millisecond
}

// TTL returns the snapshot lifetime. Invalid values fall back to the default.
func (c *Config) TTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return positions.DefaultTTL
	}
	return d
}

// EntityColors converts the [colors.<type>] tables to engine overrides.
func (c *Config) EntityColors() map[graph.EntityType]graph.TypeStyle {
	if len(c.Colors) == 0 {
		return nil
	}
	out := make(map[graph.EntityType]graph.TypeStyle, len(c.Colors))
	for name, style := range c.Colors {
		out[graph.EntityType(name)] = style
	}
	return out
}

// =============================================================================
// Loading
// =============================================================================

// Load reads path, applies defaults and validates. An empty path loads
// DefaultPath and tolerates a missing file; an explicit path must exist.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	var c Config
	md, err := toml.DecodeFile(path, &c)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return Default(), nil
	case errors.Is(err, fs.ErrNotExist):
		return Config{}, gserrors.Wrap(gserrors.ErrCodeFileNotFound, err, "config %s", path)
	default:
		return Config{}, gserrors.Wrap(gserrors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, gserrors.New(gserrors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}

	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/graphscope/graphscope.toml, falling
// back to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "graphscope", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "graphscope", FileName), nil
}
