package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphscope/pkg/graph"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  viewFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions for a network graph",
		Long: `Compute node positions for a network graph.

The layout command builds the graph on a headless engine and writes the
placed nodes, styled edges and camera as layout JSON. Force layouts reuse
positions cached from earlier runs of the same dataset, so adding a few
nodes keeps the rest of the picture stable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], flags, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	addViewFlags(cmd, &flags)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, flags viewFlags, output string) error {
	prog := newProgress(loggerFromContext(ctx))

	spinner := newSpinner(ctx, "Computing layout...")
	spinner.Start()

	h, err := c.mountHeadless(ctx, input, flags, nil)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	defer h.Close()
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(h.eng.Layout(), output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	st := h.eng.Stats()
	prog.done("layout complete", "strategy", st.Strategy, "iterations", st.Iterations)

	printSuccess("Layout complete")
	printFile(output)
	printStats(st)
	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}
