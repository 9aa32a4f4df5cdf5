package rigid

import (
	"fmt"
	"sync/atomic"

	"github.com/chewxy/math32"
)

// worldTags mints the per-world tag embedded in every handle. Tags are 16
// bits wide, so after 65535 worlds in one process they recycle and a handle
// from a long-destroyed world can alias a newer world carrying the same
// tag. Tag zero is skipped so the zero Handle is never a valid reference.
var worldTags atomic.Uint32

func nextWorldTag() uint16 {
	for {
		if tag := uint16(worldTags.Add(1)); tag != 0 {
			return tag
		}
	}
}

// bodyTable owns all body storage for one world. Slots are append-only:
// there is no removal, so every slot stays live until the world is
// destroyed and handle-as-index lookup is O(1) with no free list.
type bodyTable struct {
	tag    uint16
	bodies []BodyState
}

func newBodyTable() bodyTable {
	return bodyTable{tag: nextWorldTag()}
}

func (t *bodyTable) allocate(desc BodyDesc) (Handle, error) {
	if !(desc.Mass > 0) || math32.IsInf(desc.Mass, 0) {
		return 0, fmt.Errorf("%w: mass must be positive and finite, got %v", ErrInvalidArgument, desc.Mass)
	}
	if !desc.Position.IsFinite() || !desc.Velocity.IsFinite() {
		return 0, fmt.Errorf("%w: non-finite component in body description", ErrInvalidArgument)
	}
	if len(t.bodies) >= maxBodies {
		return 0, ErrTableFull
	}

	idx := len(t.bodies)
	t.bodies = append(t.bodies, BodyState{
		Position: desc.Position,
		Velocity: desc.Velocity,
		Mass:     desc.Mass,
	})
	return packHandle(t.tag, idx), nil
}

func (t *bodyTable) resolve(h Handle) (*BodyState, error) {
	if h.tag() != t.tag || h.index() >= len(t.bodies) {
		return nil, fmt.Errorf("%w: %#x", ErrInvalidHandle, uint32(h))
	}
	return &t.bodies[h.index()], nil
}

// forEach visits every live body. Iteration order is not part of the
// contract; bodies do not interact, so no caller may depend on it.
func (t *bodyTable) forEach(fn func(b *BodyState)) {
	for i := range t.bodies {
		fn(&t.bodies[i])
	}
}

func (t *bodyTable) len() int {
	return len(t.bodies)
}

func (t *bodyTable) release() {
	t.bodies = nil
}
