package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/kinet/internal/config"
)

func TestRunnerRecordsTrajectory(t *testing.T) {
	cfg := config.Default()
	cfg.Steps = 60

	res, err := NewRunner(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Initial sample plus one per step.
	if len(res.Times) != 61 || len(res.Positions) != 61 {
		t.Fatalf("expected 61 samples, got %d times, %d rows", len(res.Times), len(res.Positions))
	}
	if res.Times[0] != 0 {
		t.Errorf("first sample at t=%v", res.Times[0])
	}

	first := res.Positions[0][0]
	if first.Y != 5 {
		t.Errorf("initial y = %v, want 5", first.Y)
	}

	last := res.Positions[len(res.Positions)-1][0]
	want := 5 - 9.81*(1.0/3600.0)*1830
	if math.Abs(float64(last.Y)-want) > 1e-3 {
		t.Errorf("final y = %v, want ~%v", last.Y, want)
	}
}

func TestRunnerChecksumStable(t *testing.T) {
	cfg := config.GetPreset("volley")
	cfg.Steps = 120

	a, err := NewRunner(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := NewRunner(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if a.Checksum() != b.Checksum() {
		t.Errorf("checksums differ: %x vs %x", a.Checksum(), b.Checksum())
	}
}

func TestRunnerCancellation(t *testing.T) {
	cfg := config.Default()
	cfg.Steps = 1 << 20

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(cfg).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBuildRejectsUnknownIntegrator(t *testing.T) {
	cfg := config.Default()
	cfg.Integrator = "rk4"

	if _, _, err := Build(cfg); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestBuildAppliesGravityOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Gravity = &config.Vector{} // free space
	cfg.Steps = 10

	res, err := NewRunner(cfg).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	last := res.Positions[len(res.Positions)-1][0]
	if last.Y != 5 {
		t.Errorf("body moved without gravity: y = %v", last.Y)
	}
}

func TestEnsembleDeterministic(t *testing.T) {
	cfg := config.GetPreset("rain")
	cfg.Steps = 60

	results, err := NewEnsemble(cfg, 8).Run(context.Background())
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}
	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d", len(results))
	}
	if !Deterministic(results) {
		t.Error("ensemble runs diverged")
	}
}

func TestEulerDiffersFromSymplectic(t *testing.T) {
	base := config.Default()
	base.Steps = 60

	symp, err := NewRunner(base).Run(context.Background())
	if err != nil {
		t.Fatalf("symplectic run: %v", err)
	}

	alt := config.Default()
	alt.Steps = 60
	alt.Integrator = "euler"
	expl, err := NewRunner(alt).Run(context.Background())
	if err != nil {
		t.Fatalf("euler run: %v", err)
	}

	sy := symp.Positions[len(symp.Positions)-1][0].Y
	ey := expl.Positions[len(expl.Positions)-1][0].Y
	if sy == ey {
		t.Error("explicit Euler produced the symplectic trajectory")
	}
	// Explicit Euler lags by one velocity sample under constant force.
	if !(ey > sy) {
		t.Errorf("expected explicit Euler above symplectic: %v vs %v", ey, sy)
	}
}
