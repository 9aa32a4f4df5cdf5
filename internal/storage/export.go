package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

type runExport struct {
	Meta   RunMetadata `json:"meta"`
	Times  []float64   `json:"times"`
	Series [][]float64 `json:"series"`
	Cols   []string    `json:"columns"`
}

// ExportJSON writes the run's metadata and trajectory as a single JSON
// document.
func (s *Store) ExportJSON(runID string, out io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, rows, cols, err := s.LoadPositions(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(runExport{Meta: *meta, Times: times, Series: rows, Cols: cols})
}

// ExportCSV streams the stored positions file unchanged.
func (s *Store) ExportCSV(runID string, out io.Writer) error {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "positions.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(out, f)
	return err
}
