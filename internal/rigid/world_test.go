package rigid

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func TestGravityRecurrence(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	h, err := w.CreateBody(BodyDesc{Position: Vec3{0, 5, 0}, Mass: 1})
	g.Expect(err).NotTo(HaveOccurred())

	dt := float32(1.0 / 60.0)
	for i := 0; i < 60; i++ {
		g.Expect(w.Step(dt)).To(Succeed())
	}

	pos, err := w.Position(h)
	g.Expect(err).NotTo(HaveOccurred())

	// Discrete semi-implicit recurrence, not the continuous fall formula:
	// y = 5 - 9.81 * dt^2 * (60*61)/2.
	want := 5 - 9.81*(1.0/3600.0)*1830
	g.Expect(float64(pos.Y)).To(BeNumerically("~", want, 1e-3))
	g.Expect(float64(pos.X)).To(BeZero())
	g.Expect(float64(pos.Z)).To(BeZero())
}

func TestStepDeterminism(t *testing.T) {
	g := NewWithT(t)

	build := func() (*World, []Handle) {
		w := NewWorld()
		descs := []BodyDesc{
			{Position: Vec3{0, 5, 0}, Mass: 1},
			{Position: Vec3{2, 10, -1}, Velocity: Vec3{0.5, 0, 0.25}, Mass: 3.5},
			{Position: Vec3{-4, 7, 2}, Velocity: Vec3{-1, 2, 0}, Mass: 0.125},
		}
		handles := make([]Handle, len(descs))
		for i, d := range descs {
			h, err := w.CreateBody(d)
			g.Expect(err).NotTo(HaveOccurred())
			handles[i] = h
		}
		return w, handles
	}

	a, ah := build()
	b, bh := build()

	dts := []float32{1.0 / 60.0, 0.01, 0.02, 1.0 / 60.0, 0.001}
	for _, dt := range dts {
		for i := 0; i < 50; i++ {
			g.Expect(a.Step(dt)).To(Succeed())
			g.Expect(b.Step(dt)).To(Succeed())
		}
	}

	for i := range ah {
		pa, err := a.Position(ah[i])
		g.Expect(err).NotTo(HaveOccurred())
		pb, err := b.Position(bh[i])
		g.Expect(err).NotTo(HaveOccurred())
		// Bit-identical, not approximately equal.
		g.Expect(pa).To(Equal(pb))
	}
}

func TestZeroStepIsNoOp(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	h, err := w.CreateBody(BodyDesc{Position: Vec3{1, 2, 3}, Velocity: Vec3{4, 5, 6}, Mass: 2})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(w.Step(0)).To(Succeed())

	pos, err := w.Position(h)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(pos).To(Equal(Vec3{1, 2, 3}))

	b, err := w.table.resolve(h)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(b.Velocity).To(Equal(Vec3{4, 5, 6}))
}

func TestStepRejectsBadDt(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	h, err := w.CreateBody(BodyDesc{Position: Vec3{0, 5, 0}, Mass: 1})
	g.Expect(err).NotTo(HaveOccurred())

	for _, dt := range []float32{-0.01, float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))} {
		g.Expect(w.Step(dt)).To(MatchError(ErrInvalidArgument))
	}

	// Rejected steps leave state untouched.
	pos, err := w.Position(h)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(pos).To(Equal(Vec3{0, 5, 0}))
}

func TestCrossWorldIsolation(t *testing.T) {
	g := NewWithT(t)

	a := NewWorld()
	b := NewWorld()

	// Both worlds hold a body, so the foreign slot index is in range in b.
	ha, err := a.CreateBody(BodyDesc{Position: Vec3{0, 5, 0}, Mass: 1})
	g.Expect(err).NotTo(HaveOccurred())
	_, err = b.CreateBody(BodyDesc{Position: Vec3{0, 9, 0}, Mass: 1})
	g.Expect(err).NotTo(HaveOccurred())

	_, err = b.Position(ha)
	g.Expect(err).To(MatchError(ErrInvalidHandle))
}

func TestDestroyedWorldOperations(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	h, err := w.CreateBody(BodyDesc{Position: Vec3{0, 5, 0}, Mass: 1})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(w.Destroy()).To(Succeed())

	_, err = w.CreateBody(BodyDesc{Mass: 1})
	g.Expect(err).To(MatchError(ErrWorldDestroyed))
	g.Expect(w.Step(0.01)).To(MatchError(ErrWorldDestroyed))
	_, err = w.Position(h)
	g.Expect(err).To(MatchError(ErrWorldDestroyed))
	g.Expect(w.SetGravity(Vec3{})).To(MatchError(ErrWorldDestroyed))
	_, err = w.Gravity()
	g.Expect(err).To(MatchError(ErrWorldDestroyed))
	g.Expect(w.Destroy()).To(MatchError(ErrWorldDestroyed))
}

func TestSetGravity(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	got, err := w.Gravity()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got).To(Equal(DefaultGravity))

	g.Expect(w.SetGravity(Vec3{0, -1.62, 0})).To(Succeed())
	got, err = w.Gravity()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(got).To(Equal(Vec3{0, -1.62, 0}))

	g.Expect(w.SetGravity(Vec3{float32(math.NaN()), 0, 0})).To(MatchError(ErrInvalidArgument))

	h, err := w.CreateBody(BodyDesc{Velocity: Vec3{1, 0, 0}, Mass: 1})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(w.SetGravity(Vec3{})).To(Succeed())
	g.Expect(w.Step(1)).To(Succeed())

	pos, err := w.Position(h)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(pos).To(Equal(Vec3{1, 0, 0}))
}

func TestBroadphasePairTelemetry(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld(WithGravity(Vec3{}))
	// Two bodies closer than a box width overlap; the third is far away.
	for _, d := range []BodyDesc{
		{Position: Vec3{0, 0, 0}, Mass: 1},
		{Position: Vec3{0.25, 0, 0}, Mass: 1},
		{Position: Vec3{100, 0, 0}, Mass: 1},
	} {
		_, err := w.CreateBody(d)
		g.Expect(err).NotTo(HaveOccurred())
	}

	g.Expect(w.BroadphasePairs()).To(BeZero())
	g.Expect(w.Step(0.01)).To(Succeed())
	g.Expect(w.BroadphasePairs()).To(Equal(1))
}

func TestStepReportsDivergence(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	_, err := w.CreateBody(BodyDesc{Position: Vec3{0, 5, 0}, Mass: 1})
	g.Expect(err).NotTo(HaveOccurred())

	// A huge finite dt overflows float32 within a few steps.
	var stepErr error
	for i := 0; i < 50 && stepErr == nil; i++ {
		stepErr = w.Step(3e38)
	}
	g.Expect(stepErr).To(MatchError(ErrUnstable))
}
