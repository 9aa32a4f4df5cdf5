package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/kinet/internal/config"
	"github.com/san-kum/kinet/internal/rigid"
)

// Result is one recorded run: a time axis and, per step, the position of
// every body in creation order.
type Result struct {
	Handles   []rigid.Handle
	Times     []float32
	Positions [][]rigid.Vec3
	Pairs     []int
}

// Runner executes a scenario on a fresh world and records the trajectory.
type Runner struct {
	cfg    *config.Config
	logger *zap.Logger
}

func NewRunner(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg, logger: zap.NewNop()}
}

func (r *Runner) WithLogger(l *zap.Logger) *Runner {
	if l != nil {
		r.logger = l
	}
	return r
}

// Build constructs a world populated with the scenario's bodies. On any
// body failure the partially built world is destroyed before returning.
func Build(cfg *config.Config) (*rigid.World, []rigid.Handle, error) {
	var opts []rigid.Option
	switch cfg.Integrator {
	case "", "symplectic":
	case "euler":
		opts = append(opts, rigid.WithIntegrator(rigid.NewExplicitEuler()))
	default:
		return nil, nil, fmt.Errorf("unknown integrator: %s", cfg.Integrator)
	}
	if g := cfg.Gravity; g != nil {
		opts = append(opts, rigid.WithGravity(rigid.Vec3{X: g.X, Y: g.Y, Z: g.Z}))
	}

	w := rigid.NewWorld(opts...)
	handles := make([]rigid.Handle, 0, len(cfg.Bodies))
	for i, b := range cfg.Bodies {
		h, err := w.CreateBody(rigid.BodyDesc{
			Position: rigid.Vec3{X: b.Position.X, Y: b.Position.Y, Z: b.Position.Z},
			Velocity: rigid.Vec3{X: b.Velocity.X, Y: b.Velocity.Y, Z: b.Velocity.Z},
			Mass:     b.Mass,
		})
		if err != nil {
			w.Destroy()
			return nil, nil, fmt.Errorf("body %d: %w", i, err)
		}
		handles = append(handles, h)
	}
	return w, handles, nil
}

// Run steps the scenario to completion, checking ctx between steps. The
// world lives only for the duration of the call.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	w, handles, err := Build(r.cfg)
	if err != nil {
		return nil, err
	}
	defer w.Destroy()

	res := &Result{
		Handles:   handles,
		Times:     make([]float32, 0, r.cfg.Steps+1),
		Positions: make([][]rigid.Vec3, 0, r.cfg.Steps+1),
		Pairs:     make([]int, 0, r.cfg.Steps+1),
	}
	if err := res.record(w, 0); err != nil {
		return nil, err
	}

	t := float32(0)
	for i := 0; i < r.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		if err := w.Step(r.cfg.Dt); err != nil {
			return res, fmt.Errorf("step %d: %w", i, err)
		}
		t += r.cfg.Dt

		if err := res.record(w, t); err != nil {
			return res, err
		}
	}

	r.logger.Debug("run complete",
		zap.String("scenario", r.cfg.Scenario),
		zap.Int("steps", r.cfg.Steps),
		zap.Int("bodies", len(handles)),
		zap.Uint64("checksum", res.Checksum()),
	)
	return res, nil
}

func (res *Result) record(w *rigid.World, t float32) error {
	row := make([]rigid.Vec3, len(res.Handles))
	for i, h := range res.Handles {
		p, err := w.Position(h)
		if err != nil {
			return err
		}
		row[i] = p
	}
	res.Positions = append(res.Positions, row)
	res.Times = append(res.Times, t)
	res.Pairs = append(res.Pairs, w.BroadphasePairs())
	return nil
}
