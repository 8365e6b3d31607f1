package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/RomanSalimgareev/friction-problem/internal/solver"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotOptions controls the chart written by Plot.
type PlotOptions struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	// Nodes selects active nodes by index; empty means all of them.
	Nodes []int
}

// Plot draws the displacement of the selected nodes against time. The
// image format follows the file extension (.png, .svg, .pdf).
func Plot(path string, result *solver.Result, opts PlotOptions) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg":
	default:
		return fmt.Errorf("export: unsupported image format %q", filepath.Ext(path))
	}
	if opts.Width == 0 {
		opts.Width = 8 * vg.Inch
	}
	if opts.Height == 0 {
		opts.Height = 4 * vg.Inch
	}
	nodes := opts.Nodes
	if len(nodes) == 0 {
		for i := range solver.NodeLabels {
			nodes = append(nodes, i)
		}
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "t, s"
	p.Y.Label.Text = "x, m"
	p.Add(plotter.NewGrid())

	for n, idx := range nodes {
		col, err := result.Node(idx)
		if err != nil {
			return err
		}
		if len(result.Times) < len(col) {
			return fmt.Errorf("export: %d time samples for %d rows", len(result.Times), len(col))
		}
		xys := make(plotter.XYs, len(col))
		for i, v := range col {
			xys[i].X = result.Times[i]
			xys[i].Y = v
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("export: node %s: %w", solver.NodeLabels[idx], err)
		}
		line.Color = plotutil.Color(n)
		line.Dashes = plotutil.Dashes(n)
		p.Add(line)
		p.Legend.Add(solver.NodeLabels[idx], line)
	}

	return p.Save(opts.Width, opts.Height, path)
}
