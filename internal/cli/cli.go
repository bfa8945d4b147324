// Package cli implements the graphscope command-line interface.
//
// Every command runs the same engine a browser host would mount, on a
// headless container:
//   - layout: compute positions and write layout JSON
//   - render: draw one frame to SVG, PNG or PDF
//   - explore: drive the interaction state machine from a terminal UI
//   - serve: host engines over HTTP
//   - cache: manage persisted position snapshots
//
// All commands accept --verbose (-v) for debug logging and --config for a
// graphscope.toml file. The logger travels through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphscope/internal/config"
	"github.com/matzehuels/graphscope/pkg/buildinfo"
	"github.com/matzehuels/graphscope/pkg/engine"
	"github.com/matzehuels/graphscope/pkg/positions"
	"github.com/matzehuels/graphscope/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "graphscope"

	// redisPrefix namespaces snapshot keys in a shared redis.
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// graphvizLoader initializes the Graphviz runtime once per process. Every
// engine the CLI creates waits on it before its first build.
var graphvizLoader = engine.NewLoader(func(ctx context.Context) error {
	return render.NewGraphvizBackend(nil).Probe(ctx)
})

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     config.Config

	// newBackend and loader are swapped out in tests.
	newBackend func(render.Sink) render.Backend
	loader     *engine.Loader
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
		newBackend: func(sink render.Sink) render.Backend {
			return render.NewGraphvizBackend(sink)
		},
		loader: graphvizLoader,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Graphscope lays out and explores entity networks",
		Long:         `Graphscope computes force-directed, circular and radial layouts for entity co-occurrence networks and lets you explore them interactively, from the terminal or over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/graphscope/graphscope.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and attaches the logger to the command
// context.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("config loaded", "path", c.configPath, "layout", cfg.Engine.Layout, "cache", cfg.Cache.Backend)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Snapshot Store
// =============================================================================

// openStore opens the snapshot store selected by [cache] backend.
func (c *CLI) openStore(ctx context.Context, noCache bool) (positions.Store, error) {
	if noCache {
		return positions.NewNullStore(), nil
	}
	switch c.config.Cache.Backend {
	case config.CacheNone:
		return positions.NewNullStore(), nil
	case config.CacheRedis:
		return positions.DialRedis(ctx, c.config.Cache.RedisAddr, redisPrefix)
	default:
		dir, err := c.snapshotDir()
		if err != nil {
			c.Logger.Warn("no cache directory, snapshots disabled", "err", err)
			return positions.NewNullStore(), nil
		}
		return positions.NewFileStore(dir)
	}
}

// snapshotDir returns [cache] dir, or the default cache directory.
func (c *CLI) snapshotDir() (string, error) {
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir, nil
	}
	return cacheDir()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/graphscope/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
