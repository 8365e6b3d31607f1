package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/RomanSalimgareev/friction-problem/internal/config"
	"github.com/RomanSalimgareev/friction-problem/internal/fem"
	"github.com/RomanSalimgareev/friction-problem/internal/friction"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
)

// ErrAborted is returned by Editor.Supply when the user quits without
// starting a run.
var ErrAborted = errors.New("tui: parameter input aborted")

var modeInfo = map[friction.Mode]string{
	friction.DryFree:   "dry friction, no drive",
	friction.DryDriven: "dry friction with drive",
	friction.Viscous:   "viscous friction with drive",
}

type state int

const (
	stateMenu state = iota
	stateConfig
	stateDone
)

// field is one editable parameter bound to a location in the config.
type field struct {
	name     string
	get      func(*config.Config) float64
	set      func(*config.Config, float64)
	validate func(float64) error
}

func elementField(name string, ptr func(*config.Config) *float64) field {
	return field{
		name:     name,
		get:      func(c *config.Config) float64 { return *ptr(c) },
		set:      func(c *config.Config, v float64) { *ptr(c) = v },
		validate: func(v float64) error { return fem.ValidateProperty(name, v) },
	}
}

func scalarField(name string, ptr func(*config.Config) *float64, validate func(float64) error) field {
	return field{
		name:     name,
		get:      func(c *config.Config) float64 { return *ptr(c) },
		set:      func(c *config.Config, v float64) { *ptr(c) = v },
		validate: validate,
	}
}

func positive(v float64) error {
	if !(v > 0) {
		return errors.New("must be positive")
	}
	return nil
}

func nonNegative(v float64) error {
	if v < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func unchecked(float64) error { return nil }

var (
	elementFields = []field{
		elementField(fem.PropModulusElastic, func(c *config.Config) *float64 { return &c.Element.ModulusElastic }),
		elementField(fem.PropPoissonRatio, func(c *config.Config) *float64 { return &c.Element.PoissonRatio }),
		elementField(fem.PropDensity, func(c *config.Config) *float64 { return &c.Element.Density }),
		elementField(fem.PropLength, func(c *config.Config) *float64 { return &c.Element.Length }),
		elementField(fem.PropWidth, func(c *config.Config) *float64 { return &c.Element.Width }),
		elementField(fem.PropHeight, func(c *config.Config) *float64 { return &c.Element.Height }),
	}
	timeFields = []field{
		scalarField("time", func(c *config.Config) *float64 { return &c.Simulation.Time }, positive),
		scalarField("dt", func(c *config.Config) *float64 { return &c.Simulation.Dt }, positive),
	}
	dryFields = []field{
		scalarField("rest", func(c *config.Config) *float64 { return &c.Friction.Rest }, nonNegative),
		scalarField("sliding", func(c *config.Config) *float64 { return &c.Friction.Sliding }, nonNegative),
	}
	viscousFields = []field{
		scalarField("viscous", func(c *config.Config) *float64 { return &c.Friction.Viscous }, nonNegative),
	}
	initialFields = []field{
		scalarField("speed", func(c *config.Config) *float64 { return &c.Initial.Speed }, unchecked),
		scalarField("acceleration", func(c *config.Config) *float64 { return &c.Initial.Acceleration }, unchecked),
		scalarField("static_force", func(c *config.Config) *float64 { return &c.Initial.StaticForce }, unchecked),
	}
)

// fieldsFor returns the editable parameters of a friction mode.
func fieldsFor(mode friction.Mode) []field {
	fields := append([]field{}, elementFields...)
	fields = append(fields, timeFields...)
	if mode == friction.Viscous {
		fields = append(fields, viscousFields...)
	} else {
		fields = append(fields, dryFields...)
	}
	return append(fields, initialFields...)
}

type model struct {
	state  state
	cursor int
	modes  []friction.Mode

	cfg         *config.Config
	fields      []field
	paramCursor int
	editing     bool
	editBuf     string
	message     string

	width  int
	height int
}

func newModel(base *config.Config) model {
	return model{
		state:  stateMenu,
		modes:  friction.Modes(),
		cfg:    base.Clone(),
		width:  80,
		height: 24,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.modes)-1 {
			m.cursor++
		}
	case "1", "2", "3":
		m.cursor = int(msg.String()[0] - '1')
		return m.selectMode()
	case "enter", " ":
		return m.selectMode()
	}
	return m, nil
}

func (m model) selectMode() (model, tea.Cmd) {
	mode := m.modes[m.cursor]
	m.cfg.Simulation.Mode = int(mode)
	m.fields = fieldsFor(mode)
	m.paramCursor = 0
	m.message = ""
	m.state = stateConfig
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			m.commit()
		case "esc":
			m.editing = false
			m.editBuf = ""
			m.message = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' || c == '+' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
		m.message = ""
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.fields)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = strconv.FormatFloat(m.fields[m.paramCursor].get(m.cfg), 'g', -1, 64)
		m.message = ""
	case "t":
		m.cfg.Initial.FromStatic = !m.cfg.Initial.FromStatic
	case "m":
		if m.cfg.Simulation.Mass == fem.Consistent {
			m.cfg.Simulation.Mass = fem.Lumped
		} else {
			m.cfg.Simulation.Mass = fem.Consistent
		}
	case "s":
		if err := m.cfg.Validate(); err != nil {
			m.message = err.Error()
			return m, nil
		}
		m.state = stateDone
		return m, tea.Quit
	}
	return m, nil
}

// commit parses and validates the edit buffer. An invalid value keeps the
// field in edit mode with the reason shown.
func (m *model) commit() {
	f := m.fields[m.paramCursor]
	v, err := strconv.ParseFloat(strings.TrimSpace(m.editBuf), 64)
	if err != nil {
		m.message = fmt.Sprintf("%s: %q is not a number", f.name, m.editBuf)
		return
	}
	if err := f.validate(v); err != nil {
		m.message = fmt.Sprintf("%s: %v", f.name, err)
		return
	}
	f.set(m.cfg, v)
	m.editing = false
	m.editBuf = ""
	m.message = ""
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + cyan.Render("f r i c t i o n") + "\n")
	b.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, mode := range m.modes {
		label := fmt.Sprintf("%d %-10s", int(mode), mode)
		desc := modeInfo[mode]
		if i == m.cursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(label) + dim.Render(desc) + "\n")
		} else {
			b.WriteString("        " + dim.Render(label) + dimmer.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select   enter choose   q quit") + "\n")

	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	mode := m.cfg.Mode()

	b.WriteString("\n")
	b.WriteString("      " + cyan.Render(mode.String()) + "  " + dim.Render(modeInfo[mode]) + "\n")
	b.WriteString(dimmer.Render("      "+strings.Repeat("─", 36)) + "\n\n")

	for i, f := range m.fields {
		val := fmt.Sprintf("%12.6g", f.get(m.cfg))
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%12s", m.editBuf+"▋")
		}
		if i == m.paramCursor {
			b.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", f.name)) + magenta.Render(val) + "\n")
		} else {
			b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", f.name)) + dim.Render(val) + "\n")
		}
	}

	static := yellow.Render("off")
	if m.cfg.Initial.FromStatic {
		static = green.Render("on")
	}
	b.WriteString("\n        " + dim.Render(fmt.Sprintf("%-16s", "static start")) + static + "\n")
	b.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", "mass")) + white.Render(string(m.cfg.Simulation.Mass)) + "\n")

	if m.message != "" {
		b.WriteString("\n      " + red.Render(m.message) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dim.Render("      ↑↓ select  enter edit  t static  m mass  s start  esc back") + "\n")

	return b.String()
}

// Editor collects run parameters interactively. It implements
// config.Supplier.
type Editor struct {
	Base    *config.Config
	options []tea.ProgramOption
}

func NewEditor(base *config.Config, opts ...tea.ProgramOption) *Editor {
	if base == nil {
		base = config.DefaultConfig()
	}
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &Editor{Base: base, options: opts}
}

func (e *Editor) Supply(cfg *config.Config) error {
	p := tea.NewProgram(newModel(e.Base), e.options...)
	final, err := p.Run()
	if err != nil {
		return err
	}
	m, ok := final.(model)
	if !ok || m.state != stateDone {
		return ErrAborted
	}
	*cfg = *m.cfg
	return nil
}
