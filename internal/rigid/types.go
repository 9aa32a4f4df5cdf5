package rigid

// Handle identifies a body within the world that issued it. The high 16 bits
// carry the issuing world's tag and the low 16 bits the storage slot, so a
// handle leaked into another world never resolves there. Handles issued by
// one world are strictly increasing.
type Handle uint32

const (
	indexBits = 16
	indexMask = 1<<indexBits - 1

	// maxBodies bounds a world to 16-bit slot indices.
	maxBodies = 1 << indexBits
)

func packHandle(tag uint16, index int) Handle {
	return Handle(uint32(tag)<<indexBits | uint32(index))
}

func (h Handle) index() int {
	return int(uint32(h) & indexMask)
}

func (h Handle) tag() uint16 {
	return uint16(uint32(h) >> indexBits)
}

// BodyDesc describes a rigid body at creation time. Mass must be positive
// and finite; position and velocity must be finite.
type BodyDesc struct {
	Position Vec3
	Velocity Vec3
	Mass     float32
}

// BodyState is the live simulated state of one body. The force accumulator
// is applied and cleared on every step; there is no external force API.
type BodyState struct {
	Position Vec3
	Velocity Vec3
	Mass     float32

	force Vec3
}
