package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphscope/pkg/render"
)

// Output formats.
const (
	formatSVG = "svg"
	formatPNG = "png"
	formatPDF = "pdf"
)

var validFormats = []string{formatSVG, formatPNG, formatPDF}

// renderCommand creates the render command for drawing a single frame.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		hover   string
		scale   float64
		flags   viewFlags
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a network graph to SVG, PNG or PDF",
		Long: `Render a network graph to SVG, PNG or PDF.

The frame is drawn the way an interactive view would show it: --select,
--focus and --hover apply the same highlighting and hiding rules.

PNG and PDF output require rsvg-convert on PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := parseFormats(formats)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], flags, renderOpts{
				output:  output,
				formats: fs,
				hover:   hover,
				scale:   scale,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input name without extension)")
	cmd.Flags().StringVarP(&formats, "format", "f", formatSVG, "comma-separated output formats: svg, png, pdf")
	cmd.Flags().StringVar(&hover, "hover", "", "node id to hover before drawing")
	cmd.Flags().Float64Var(&scale, "scale", 2, "PNG scale factor")
	addViewFlags(cmd, &flags)

	return cmd
}

type renderOpts struct {
	output  string
	formats []string
	hover   string
	scale   float64
}

func (c *CLI) runRender(ctx context.Context, input string, flags viewFlags, opts renderOpts) error {
	spinner := newSpinner(ctx, "Rendering...")
	spinner.Start()

	h, err := c.mountHeadless(ctx, input, flags, nil)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	defer h.Close()

	if opts.hover != "" {
		if !h.eng.HasNode(opts.hover) {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("hover: unknown node %q", opts.hover)
		}
		h.eng.Hover(opts.hover)
	}

	svg, err := h.SVG(ctx)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("render svg: %w", err)
	}

	base := opts.output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var paths []string
	for _, format := range opts.formats {
		data, err := convert(ctx, svg, format, opts.scale)
		if err != nil {
			return err
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	st := h.eng.Stats()
	printSuccess("Rendered %s", st.Mode)
	for _, p := range paths {
		printFile(p)
	}
	printStats(st)
	if st.Dropped > 0 {
		printWarning("%d edges referenced unknown nodes and were dropped", st.Dropped)
	}
	return nil
}

func convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	switch format {
	case formatPNG:
		return render.ToPNG(ctx, svg, scale)
	case formatPDF:
		return render.ToPDF(ctx, svg)
	default:
		return svg, nil
	}
}

// parseFormats splits and validates a comma-separated format list.
func parseFormats(s string) ([]string, error) {
	if s == "" {
		return []string{formatSVG}, nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if !slices.Contains(validFormats, f) {
			return nil, fmt.Errorf("unknown format %q (want svg, png or pdf)", f)
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}
