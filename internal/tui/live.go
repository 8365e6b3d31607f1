package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/RomanSalimgareev/friction-problem/internal/solver"
	"github.com/RomanSalimgareev/friction-problem/internal/symmetry"
)

const (
	width       = 70
	height      = 9
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer draws the element inside the tube while a run progresses.
// It implements solver.Observer.
type LiveRenderer struct {
	out       io.Writer
	frameRate int
	lastFrame time.Time
	canvas    [][]rune

	// largest displacement seen, used to scale the drawing
	scale   float64
	history []float64
}

// NewLiveRenderer renders at most frameRate frames per second; a
// non-positive frameRate renders every step.
func NewLiveRenderer(out io.Writer, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:       out,
		frameRate: frameRate,
		canvas:    canvas,
		history:   make([]float64, 0, 60),
	}
}

func (r *LiveRenderer) OnStep(s solver.StepInfo) {
	x := leading(s)
	r.scale = math.Max(r.scale, math.Abs(x))
	r.history = append(r.history, x)
	if len(r.history) > 60 {
		r.history = r.history[1:]
	}

	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}

	r.clear()
	r.drawTube(x, s.Decision.Stick)
	r.render(s, x)
}

// leading is the displacement of the first active node.
func leading(s solver.StepInfo) float64 {
	idx := symmetry.Active[0]
	if idx >= len(s.Displacement) {
		return 0
	}
	return s.Displacement[idx]
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) drawTube(x float64, stick bool) {
	for i := 0; i < width; i++ {
		r.set(i, 1, '═')
		r.set(i, height-2, '═')
	}

	span := float64(width/2 - 6)
	cx := width / 2
	if r.scale > 0 {
		cx += int(x / r.scale * span)
	}
	block := '█'
	if stick {
		block = '▓'
	}
	for dy := 2; dy < height-2; dy++ {
		for dx := -3; dx <= 3; dx++ {
			r.set(cx+dx, dy, block)
		}
	}
	r.set(width/2, height-1, '┴')
}

func (r *LiveRenderer) render(s solver.StepInfo, x float64) {
	var b strings.Builder
	b.WriteString(clearScreen)

	status := green.Render("slide")
	if s.Decision.Stick {
		status = yellow.Render("stick")
	}
	b.WriteString(fmt.Sprintf("  %s  step %d  t=%.6fs  %s\n", cyan.Render("friction"), s.Step, s.Time, status))

	for _, row := range r.canvas {
		b.WriteString("  " + string(row) + "\n")
	}

	b.WriteString(fmt.Sprintf("  %s %s  %s %s  %s %s\n",
		dim.Render("x="), white.Render(fmt.Sprintf("%.4e", x)),
		dim.Render("v="), white.Render(fmt.Sprintf("%.4e", s.Decision.AverageSpeed)),
		dim.Render("F="), white.Render(fmt.Sprintf("%.2f", s.Decision.Friction))))
	if len(r.history) > 1 {
		b.WriteString("  " + dim.Render("x ") + cyan.Render(Sparkline(r.history, 48)) + "\n")
	}
	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

// Sparkline renders data as a row of block characters at most width wide.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	rang := maxVal - minVal
	if rang == 0 {
		rang = 1
	}
	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		v := data[i*step]
		idx := int((v - minVal) / rang * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}
