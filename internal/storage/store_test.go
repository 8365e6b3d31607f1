package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RomanSalimgareev/friction-problem/internal/config"
	"github.com/RomanSalimgareev/friction-problem/internal/friction"
	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
	"github.com/RomanSalimgareev/friction-problem/internal/solver"
)

func testResult() *solver.Result {
	h := linalg.NewMatrix(3, 2)
	h.Set(1, 0, 1.25e-7)
	h.Set(2, 1, -3.5e-9)
	return &solver.Result{
		History:    h,
		Times:      linalg.Vector{0, 1e-6, 2e-6},
		Metrics:    map[string]float64{"stick_ratio": 0.5},
		Steps:      3,
		StickSteps: 1,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Simulation.Mode = int(friction.Viscous)
	runID, err := st.Save(cfg, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Mode != friction.Viscous.String() {
		t.Errorf("expected mode %s, got %s", friction.Viscous, meta.Mode)
	}
	if meta.Config != *cfg {
		t.Errorf("expected config %+v, got %+v", cfg, meta.Config)
	}
	if meta.Metrics["stick_ratio"] != 0.5 {
		t.Errorf("expected stick ratio 0.5, got %f", meta.Metrics["stick_ratio"])
	}

	res, err := st.LoadResult(runID)
	if err != nil {
		t.Fatalf("load result failed: %v", err)
	}
	if !linalg.Equal(res.History, testResult().History, 0) {
		t.Errorf("history changed in storage:\n%v", res.History)
	}
	if res.Times[2] != 2e-6 {
		t.Errorf("expected time 2e-6, got %g", res.Times[2])
	}
	if res.StickSteps != 1 {
		t.Errorf("expected 1 stick step, got %d", res.StickSteps)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	first, _ := st.Save(config.DefaultConfig(), testResult())
	second, _ := st.Save(config.DefaultConfig(), testResult())
	if err := os.MkdirAll(filepath.Join(st.baseDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("expected runs in save order, got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestLoadResultCorrupt(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(config.DefaultConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	path := filepath.Join(st.baseDir, runID, historyFile)
	if err := os.WriteFile(path, []byte("time,x0\n0,abc\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := st.LoadResult(runID); err == nil {
		t.Error("expected parse error")
	}

	if _, err := st.LoadResult("missing"); err == nil {
		t.Error("expected error for missing run")
	}
}
