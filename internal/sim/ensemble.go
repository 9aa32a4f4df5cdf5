package sim

import (
	"context"
	"sync"

	"github.com/san-kum/kinet/internal/config"
)

// Ensemble runs the same scenario on several independent worlds at once.
// Each goroutine owns its world outright, so no locking is needed below
// the ensemble itself.
type Ensemble struct {
	cfg  *config.Config
	runs int
}

// NewEnsemble prepares runs concurrent executions of cfg.
func NewEnsemble(cfg *config.Config, runs int) *Ensemble {
	if runs < 1 {
		runs = 1
	}
	return &Ensemble{cfg: cfg, runs: runs}
}

// Run executes all runs and returns their results in launch order.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.runs)
	errs := make([]error, e.runs)

	var wg sync.WaitGroup
	for i := 0; i < e.runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = NewRunner(e.cfg).Run(ctx)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Deterministic reports whether every result carries the same trajectory
// checksum.
func Deterministic(results []*Result) bool {
	if len(results) == 0 {
		return true
	}
	want := results[0].Checksum()
	for _, r := range results[1:] {
		if r.Checksum() != want {
			return false
		}
	}
	return true
}
