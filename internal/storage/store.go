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

	"github.com/google/uuid"

	"github.com/san-kum/kinet/internal/config"
	"github.com/san-kum/kinet/internal/registry"
	"github.com/san-kum/kinet/internal/sim"
)

// Store keeps one directory per recorded run: metadata.json holding the
// full scenario config plus the trajectory checksum, and positions.csv
// with the sampled positions.
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
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Engine    string         `json:"engine_version"`
	Checksum  string         `json:"checksum"`
	Config    *config.Config `json:"config"`
}

var newRunID = func(scenario string) string {
	return fmt.Sprintf("%s_%s", scenario, uuid.NewString()[:8])
}

// Save writes the run under a fresh id and returns it. Storing the full
// config makes a saved run replayable for determinism verification. A run
// that fails partway through is removed so List never reports a run whose
// trajectory is missing.
func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	runID := newRunID(cfg.Scenario)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Engine:    registry.Version(),
		Checksum:  strconv.FormatUint(result.Checksum(), 16),
		Config:    cfg,
	}
	if err := writeRun(runDir, meta, result); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, result *sim.Result) error {
	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "positions.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(header(len(result.Handles))); err != nil {
		return err
	}
	for i, row := range result.Positions {
		rec := make([]string, 0, 1+3*len(row))
		rec = append(rec, formatFloat(result.Times[i]))
		for _, p := range row {
			rec = append(rec, formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func header(bodies int) []string {
	h := []string{"time"}
	for i := 0; i < bodies; i++ {
		h = append(h, fmt.Sprintf("b%d_x", i), fmt.Sprintf("b%d_y", i), fmt.Sprintf("b%d_z", i))
	}
	return h
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadPositions reads the sampled trajectory back. Every row holds the flat
// per-body columns named by the returned header (time excluded).
func (s *Store) LoadPositions(runID string) (times []float64, rows [][]float64, cols []string, err error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "positions.csv"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) == 0 {
		return nil, nil, nil, fmt.Errorf("run %s: empty positions file", runID)
	}

	cols = records[0][1:]
	for _, rec := range records[1:] {
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("run %s: %w", runID, err)
		}
		row := make([]float64, 0, len(rec)-1)
		for _, v := range rec[1:] {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("run %s: %w", runID, err)
			}
			row = append(row, f)
		}
		times = append(times, t)
		rows = append(rows, row)
	}
	return times, rows, cols, nil
}
