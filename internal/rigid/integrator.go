package rigid

// Integrator advances one body's kinematic state by a single timestep under
// the given gravity. Implementations must be deterministic: identical input
// state and dt always produce identical output state.
type Integrator interface {
	Integrate(b *BodyState, gravity Vec3, dt float32)
}

// SymplecticEuler updates velocity from acceleration first, then position
// from the already-updated velocity. This is the engine default: it stays
// stable under repeated constant-force steps where the explicit form drifts.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Integrate(b *BodyState, gravity Vec3, dt float32) {
	total := b.force.Add(gravity.Scale(b.Mass))
	accel := total.Scale(1 / b.Mass)
	b.Velocity = b.Velocity.Add(accel.Scale(dt))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.force = Vec3{}
}

// ExplicitEuler advances position with the pre-update velocity. It exists
// for side-by-side comparison runs and is never the default.
type ExplicitEuler struct{}

func NewExplicitEuler() *ExplicitEuler {
	return &ExplicitEuler{}
}

func (e *ExplicitEuler) Integrate(b *BodyState, gravity Vec3, dt float32) {
	total := b.force.Add(gravity.Scale(b.Mass))
	accel := total.Scale(1 / b.Mass)
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Velocity = b.Velocity.Add(accel.Scale(dt))
	b.force = Vec3{}
}
