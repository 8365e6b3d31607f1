package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/RomanSalimgareev/friction-problem/internal/config"
	"github.com/RomanSalimgareev/friction-problem/internal/solver"
)

type ExportData struct {
	Mode       string             `json:"mode"`
	Config     config.Config      `json:"config"`
	Steps      int                `json:"steps"`
	StickSteps int                `json:"stick_steps"`
	Times      []float64          `json:"times"`
	History    [][]float64        `json:"history"`
	Metrics    map[string]float64 `json:"metrics"`
}

func newExportData(cfg *config.Config, result *solver.Result) ExportData {
	h := result.History
	data := ExportData{
		Mode:       cfg.Mode().String(),
		Config:     *cfg,
		Steps:      result.Steps,
		StickSteps: result.StickSteps,
		Times:      result.Times,
		History:    make([][]float64, h.Rows()),
		Metrics:    result.Metrics,
	}
	for i := range data.History {
		row, _ := h.Row(i)
		data.History[i] = row
	}
	return data
}

// WriteJSON encodes the run as indented JSON.
func WriteJSON(w io.Writer, cfg *config.Config, result *solver.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(cfg, result))
}

func ExportJSON(path string, cfg *config.Config, result *solver.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, cfg, result)
}

func ExportJSONStdout(cfg *config.Config, result *solver.Result) error {
	return WriteJSON(os.Stdout, cfg, result)
}
