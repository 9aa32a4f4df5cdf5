package rigid

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/san-kum/kinet/internal/broadphase"
)

// DefaultGravity is applied to every body unless overridden.
var DefaultGravity = Vec3{0, -9.81, 0}

// bodyRadius is the bounding-sphere radius used for broadphase boxes until
// bodies carry shapes.
const bodyRadius = 0.5

// World owns a body table and advances it through an integrator. A world is
// not internally synchronized: it belongs to one goroutine at a time, and a
// host that wants concurrency runs one world per goroutine or serializes
// access externally.
type World struct {
	table     bodyTable
	integ     Integrator
	gravity   Vec3
	destroyed bool

	boxes     []broadphase.AABB
	pairs     []broadphase.Pair
	lastPairs int
}

// Option configures a new world.
type Option func(*World)

// WithGravity overrides the default gravity vector.
func WithGravity(g Vec3) Option {
	return func(w *World) { w.gravity = g }
}

// WithIntegrator replaces the default symplectic Euler integrator.
func WithIntegrator(i Integrator) Option {
	return func(w *World) { w.integ = i }
}

// NewWorld returns an empty active world. It acquires no external resources
// and never fails.
func NewWorld(opts ...Option) *World {
	w := &World{
		table:   newBodyTable(),
		integ:   NewSymplecticEuler(),
		gravity: DefaultGravity,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// CreateBody validates desc and reserves a slot for it. Handles returned by
// consecutive calls are strictly increasing and never reused.
func (w *World) CreateBody(desc BodyDesc) (Handle, error) {
	if w.destroyed {
		return 0, ErrWorldDestroyed
	}
	return w.table.allocate(desc)
}

// Step advances every body by dt seconds. dt must be finite and
// non-negative; zero is a legal no-op. After integration the naive
// broadphase refreshes the candidate pair count, and ErrUnstable is
// reported if any body diverged to NaN or Inf.
func (w *World) Step(dt float32) error {
	if w.destroyed {
		return ErrWorldDestroyed
	}
	if math32.IsNaN(dt) || math32.IsInf(dt, 0) || dt < 0 {
		return fmt.Errorf("%w: dt must be finite and non-negative, got %v", ErrInvalidArgument, dt)
	}
	if dt == 0 {
		return nil
	}

	diverged := false
	w.boxes = w.boxes[:0]
	w.table.forEach(func(b *BodyState) {
		w.integ.Integrate(b, w.gravity, dt)
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			diverged = true
		}
		w.boxes = append(w.boxes, broadphase.Bound(b.Position.X, b.Position.Y, b.Position.Z, bodyRadius))
	})

	w.pairs = broadphase.AppendPairs(w.pairs[:0], w.boxes)
	w.lastPairs = len(w.pairs)

	if diverged {
		return ErrUnstable
	}
	return nil
}

// Position returns a copy of the body's current position.
func (w *World) Position(h Handle) (Vec3, error) {
	if w.destroyed {
		return Vec3{}, ErrWorldDestroyed
	}
	b, err := w.table.resolve(h)
	if err != nil {
		return Vec3{}, err
	}
	return b.Position, nil
}

// SetGravity replaces the gravity vector applied on subsequent steps.
func (w *World) SetGravity(g Vec3) error {
	if w.destroyed {
		return ErrWorldDestroyed
	}
	if !g.IsFinite() {
		return fmt.Errorf("%w: non-finite gravity component", ErrInvalidArgument)
	}
	w.gravity = g
	return nil
}

// Gravity returns the gravity vector applied on the next step.
func (w *World) Gravity() (Vec3, error) {
	if w.destroyed {
		return Vec3{}, ErrWorldDestroyed
	}
	return w.gravity, nil
}

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int {
	return w.table.len()
}

// BroadphasePairs returns the candidate pair count from the last step.
func (w *World) BroadphasePairs() int {
	return w.lastPairs
}

// Destroy releases all body storage and moves the world to its terminal
// state. Every handle issued by this world becomes invalid; any further
// operation, including a second Destroy, reports ErrWorldDestroyed.
func (w *World) Destroy() error {
	if w.destroyed {
		return ErrWorldDestroyed
	}
	w.destroyed = true
	w.table.release()
	w.boxes = nil
	w.pairs = nil
	w.lastPairs = 0
	return nil
}
