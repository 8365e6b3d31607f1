package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/RomanSalimgareev/friction-problem/internal/config"
	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
	"github.com/RomanSalimgareev/friction-problem/internal/solver"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "displacements.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Mode       string             `json:"mode"`
	Timestamp  time.Time          `json:"timestamp"`
	Config     config.Config      `json:"config"`
	Steps      int                `json:"steps"`
	StickSteps int                `json:"stick_steps"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes the metadata and the reduced displacement history of a run
// into a new directory and returns its ID.
func (s *Store) Save(cfg *config.Config, result *solver.Result) (string, error) {
	now := time.Now()
	mode := cfg.Mode().String()
	runID := fmt.Sprintf("%s_%d", mode, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Mode:       mode,
		Timestamp:  now,
		Config:     *cfg,
		Steps:      result.Steps,
		StickSteps: result.StickSteps,
		Metrics:    result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeHistory(filepath.Join(runDir, historyFile), result); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeHistory(path string, result *solver.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := WriteCSV(w, result); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteCSV writes one row per time step: the time followed by every
// reduced DOF.
func WriteCSV(w *csv.Writer, result *solver.Result) error {
	h := result.History
	header := []string{"time"}
	for i := 0; i < h.Cols(); i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := 0; i < h.Rows(); i++ {
		row, err := h.Row(i)
		if err != nil {
			return err
		}
		t := 0.0
		if i < len(result.Times) {
			t = result.Times[i]
		}
		record := []string{strconv.FormatFloat(t, 'g', -1, 64)}
		for _, val := range row {
			record = append(record, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// List returns the stored runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadResult rebuilds the displacement history and time vector of a run.
func (s *Store) LoadResult(runID string) (*solver.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("run %s: empty history", runID)
	}

	rows := len(records) - 1
	cols := len(records[0]) - 1
	history := linalg.NewMatrix(rows, cols)
	times := make(linalg.Vector, rows)
	for i, record := range records[1:] {
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: row %d: %w", runID, i+1, err)
			}
			if j == 0 {
				times[i] = v
			} else {
				history.Set(i, j-1, v)
			}
		}
	}

	return &solver.Result{
		History:    history,
		Times:      times,
		Metrics:    meta.Metrics,
		Steps:      meta.Steps,
		StickSteps: meta.StickSteps,
		Completed:  rows,
	}, nil
}
