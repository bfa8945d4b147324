package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphscope/internal/server"
	"github.com/matzehuels/graphscope/pkg/observability"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		maxGraphs int
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host engines over HTTP",
		Long: `Host engines over HTTP.

Each POST /api/graphs mounts a new engine and returns its id. The graph's
endpoints under /api/graphs/{id} update props, feed clicks and hovers,
move the camera and return layout JSON or the current SVG frame.
Prometheus metrics are served on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, maxGraphs, noCache, !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().IntVar(&maxGraphs, "max-graphs", server.DefaultMaxGraphs, "maximum number of mounted graphs")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not read or write position snapshots")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not record prometheus metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, maxGraphs int, noCache, metrics bool) error {
	logger := loggerFromContext(ctx)

	if metrics {
		observability.NewPrometheusHooks(prometheus.DefaultRegisterer).Install()
	}

	store, err := c.openStore(ctx, noCache)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer store.Close()

	srv := server.New(server.Options{
		Addr:        addr,
		Logger:      logger,
		NewBackend:  c.newBackend,
		Loader:      c.loader,
		MaxNodes:    c.config.Engine.MaxNodes,
		Debounce:    c.config.Debounce(),
		Seed:        c.config.Engine.Seed,
		Store:       store,
		SnapshotTTL: c.config.TTL(),
		MaxGraphs:   maxGraphs,
	})

	printInfo("Serving on %s", StyleHighlight.Render(addr))
	printKeyValue("cache", c.config.Cache.Backend)
	printKeyValue("metrics", fmt.Sprint(metrics))
	return srv.Run(ctx)
}
