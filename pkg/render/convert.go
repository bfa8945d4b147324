package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	gserrors "github.com/matzehuels/graphscope/pkg/errors"
)

// rsvgBinary converts SVG to raster and print formats.
const rsvgBinary = "rsvg-convert"

// ToPDF converts an SVG frame to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convertSVG(ctx, svg, "pdf")
}

// ToPNG converts an SVG frame to PNG, scaled by zoom.
func ToPNG(ctx context.Context, svg []byte, zoom float64) ([]byte, error) {
	return convertSVG(ctx, svg, "png", "--zoom", strconv.FormatFloat(zoom, 'f', 2, 64))
}

// convertSVG pipes svg through rsvg-convert. A missing binary is reported
// as UNSUPPORTED so callers can fall back to SVG output.
func convertSVG(ctx context.Context, svg []byte, format string, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(rsvgBinary)
	if err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeUnsupported, err,
			"%s output needs %s (brew install librsvg, or apt install librsvg2-bin)", format, rsvgBinary)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, gserrors.Wrap(gserrors.ErrCodeInternal, err, "%s: %s", rsvgBinary, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
