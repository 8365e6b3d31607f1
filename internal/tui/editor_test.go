package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/RomanSalimgareev/friction-problem/internal/config"
	"github.com/RomanSalimgareev/friction-problem/internal/fem"
	"github.com/RomanSalimgareev/friction-problem/internal/friction"
	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
	"github.com/RomanSalimgareev/friction-problem/internal/solver"
	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m model, keys ...tea.KeyMsg) (model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(model)
	}
	return m, cmd
}

func typeText(s string) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		keys = append(keys, runes(string(r)))
	}
	return keys
}

func clearBuf(n int) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, n)
	for i := range keys {
		keys[i] = tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return keys
}

func TestMenuSelectsMode(t *testing.T) {
	m := newModel(config.DefaultConfig())

	m, _ = press(t, m, runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateConfig {
		t.Fatalf("expected config state, got %d", m.state)
	}
	if m.cfg.Mode() != friction.Viscous {
		t.Errorf("expected viscous mode, got %v", m.cfg.Mode())
	}
	for _, f := range m.fields {
		if f.name == "rest" {
			t.Error("viscous mode should not offer dry coefficients")
		}
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc}, runes("2"))
	if m.cfg.Mode() != friction.DryDriven {
		t.Errorf("expected driven mode, got %v", m.cfg.Mode())
	}
}

func TestMenuQuit(t *testing.T) {
	m := newModel(config.DefaultConfig())
	_, cmd := press(t, m, runes("q"))
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestEditRejectsInvalidProperty(t *testing.T) {
	m := newModel(config.DefaultConfig())
	m, _ = press(t, m, runes("1"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.editing || m.editBuf != "0.33" {
		t.Fatalf("expected editing poisson ratio, got editing=%v buf=%q", m.editing, m.editBuf)
	}

	keys := append(clearBuf(4), typeText("0.5")...)
	keys = append(keys, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, keys...)
	if !m.editing {
		t.Error("invalid value should keep the field in edit mode")
	}
	if !strings.Contains(m.message, fem.PropPoissonRatio) {
		t.Errorf("expected message about %s, got %q", fem.PropPoissonRatio, m.message)
	}
	if m.cfg.Element.PoissonRatio != 0.33 {
		t.Errorf("invalid value must not be stored, got %g", m.cfg.Element.PoissonRatio)
	}

	keys = append(clearBuf(3), typeText("0.3")...)
	keys = append(keys, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, keys...)
	if m.editing || m.message != "" {
		t.Errorf("expected accepted value, editing=%v message=%q", m.editing, m.message)
	}
	if m.cfg.Element.PoissonRatio != 0.3 {
		t.Errorf("expected poisson ratio 0.3, got %g", m.cfg.Element.PoissonRatio)
	}
}

func TestEditRejectsGarbage(t *testing.T) {
	m := newModel(config.DefaultConfig())
	m, _ = press(t, m, runes("1"), tea.KeyMsg{Type: tea.KeyEnter})
	keys := append(clearBuf(20), typeText("1e")...)
	keys = append(keys, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = press(t, m, keys...)
	if !m.editing || !strings.Contains(m.message, "not a number") {
		t.Errorf("expected parse error, got editing=%v message=%q", m.editing, m.message)
	}
}

func TestStartValidatesAndQuits(t *testing.T) {
	base := config.DefaultConfig()
	m := newModel(base)
	m, _ = press(t, m, runes("1"), runes("t"), runes("m"))
	if !m.cfg.Initial.FromStatic {
		t.Error("expected static start toggled on")
	}
	if m.cfg.Simulation.Mass != fem.Consistent {
		t.Errorf("expected consistent mass, got %s", m.cfg.Simulation.Mass)
	}
	if base.Initial.FromStatic {
		t.Error("editing must not change the base configuration")
	}

	m.cfg.Simulation.Dt = 1
	m, cmd := press(t, m, runes("s"))
	if m.state != stateConfig || m.message == "" || cmd != nil {
		t.Fatalf("expected validation failure, got state=%d message=%q", m.state, m.message)
	}

	m.cfg.Simulation.Dt = config.DefaultDt
	m, cmd = press(t, m, runes("s"))
	if m.state != stateDone || cmd == nil {
		t.Errorf("expected done state with quit command, got state=%d", m.state)
	}
}

func TestViews(t *testing.T) {
	m := newModel(config.DefaultConfig())
	if !strings.Contains(m.View(), "dry friction, no drive") {
		t.Error("menu should describe the modes")
	}
	m, _ = press(t, m, runes("3"))
	view := m.View()
	if !strings.Contains(view, "viscous") || !strings.Contains(view, fem.PropDensity) {
		t.Errorf("config view missing fields:\n%s", view)
	}
}

func TestLiveRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRenderer(&buf, 0)
	r.Start()
	x := make(linalg.Vector, 12)
	for i := 0; i < 3; i++ {
		x[0] = float64(i) * 1e-7
		r.OnStep(solver.StepInfo{Step: i, Time: float64(i) * 1e-6, Displacement: x, Decision: friction.Decision{Stick: i == 0}})
	}
	r.Stop()

	out := buf.String()
	if !strings.Contains(out, "step 2") {
		t.Errorf("expected last frame in output")
	}
	if !strings.Contains(out, "stick") || !strings.Contains(out, "slide") {
		t.Errorf("expected both stick and slide frames")
	}
}

func TestSparkline(t *testing.T) {
	if Sparkline(nil, 10) != "" {
		t.Error("expected empty sparkline")
	}
	s := Sparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8)
	if s != "▁▂▃▄▅▆▇█" {
		t.Errorf("unexpected sparkline %q", s)
	}
}
