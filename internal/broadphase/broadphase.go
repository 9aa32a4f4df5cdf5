// Package broadphase finds candidate collision pairs between axis-aligned
// bounding boxes. Only the naive all-pairs finder is implemented; it exists
// to validate the stepping pipeline and feed the pair-count telemetry, not
// to scale.
package broadphase

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	MinX, MinY, MinZ float32
	MaxX, MaxY, MaxZ float32
}

// Bound returns the box enclosing a sphere of radius r centered at (x, y, z).
func Bound(x, y, z, r float32) AABB {
	return AABB{
		MinX: x - r, MinY: y - r, MinZ: z - r,
		MaxX: x + r, MaxY: y + r, MaxZ: z + r,
	}
}

// Overlaps reports whether the boxes intersect on all three axes. The
// comparison is inclusive: touching faces count as overlap.
func (a AABB) Overlaps(b AABB) bool {
	return a.MinX <= b.MaxX && a.MaxX >= b.MinX &&
		a.MinY <= b.MaxY && a.MaxY >= b.MinY &&
		a.MinZ <= b.MaxZ && a.MaxZ >= b.MinZ
}

// Pair holds indices (A < B) into the box slice passed to the pair finder.
type Pair struct {
	A, B uint32
}

// AppendPairs writes every overlapping i<j pair to dst and returns it.
// Callers reuse dst across steps to avoid churn.
func AppendPairs(dst []Pair, boxes []AABB) []Pair {
	for i := 0; i+1 < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].Overlaps(boxes[j]) {
				dst = append(dst, Pair{A: uint32(i), B: uint32(j)})
			}
		}
	}
	return dst
}

// Pairs is AppendPairs with a fresh result slice.
func Pairs(boxes []AABB) []Pair {
	if len(boxes) < 2 {
		return nil
	}
	return AppendPairs(make([]Pair, 0, len(boxes)), boxes)
}
