package analysis

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D holds displacement and speed samples of one DOF.
type PhasePortrait2D struct {
	Points []Point
}

// NewPhasePortrait pairs each displacement with its central-difference
// speed. The end points use one-sided differences.
func NewPhasePortrait(x []float64, dt float64) *PhasePortrait2D {
	n := len(x)
	if n < 2 || dt <= 0 {
		return nil
	}
	portrait := &PhasePortrait2D{Points: make([]Point, n)}
	for i := range x {
		var v float64
		switch i {
		case 0:
			v = (x[1] - x[0]) / dt
		case n - 1:
			v = (x[n-1] - x[n-2]) / dt
		default:
			v = (x[i+1] - x[i-1]) / (2 * dt)
		}
		portrait.Points[i] = Point{X: x[i], Y: v}
	}
	return portrait
}

// Components splits the portrait into displacement and speed series.
func (p *PhasePortrait2D) Components() (xs, vs []float64) {
	xs = make([]float64, len(p.Points))
	vs = make([]float64, len(p.Points))
	for i, pt := range p.Points {
		xs[i], vs[i] = pt.X, pt.Y
	}
	return xs, vs
}

// axis maps values in [lo, hi] padded by a tenth of the span onto
// 0..cells-1.
type axis struct {
	lo, span float64
	cells    int
}

func newAxis(values []float64, cells int) axis {
	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo
	if span == 0 {
		span = math.Max(math.Abs(lo), 1)
	}
	return axis{lo: lo - span/10, span: span * 1.2, cells: cells}
}

func (a axis) cell(v float64) int {
	return int(math.Floor((v - a.lo) / a.span * float64(a.cells-1)))
}

// PhasePortraitToASCII draws speed (up) against displacement (right).
// Zero axes are drawn where they fall inside the plot.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}
	xs, vs := portrait.Components()
	ax, ay := newAxis(xs, width), newAxis(vs, height)

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	put := func(col, row int, c rune, over bool) {
		row = height - 1 - row
		if row < 0 || row >= height || col < 0 || col >= width {
			return
		}
		if over || grid[row][col] == ' ' {
			grid[row][col] = c
		}
	}

	for i := range xs {
		put(ax.cell(xs[i]), ay.cell(vs[i]), '•', true)
	}
	zeroCol, zeroRow := ax.cell(0), ay.cell(0)
	for r := 0; r < height; r++ {
		put(zeroCol, r, '│', false)
	}
	for c := 0; c < width; c++ {
		put(c, zeroRow, '─', false)
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
