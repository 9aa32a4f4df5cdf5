package sim

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Checksum hashes the raw bit patterns of every recorded position. Two runs
// of the same scenario must produce the same value; a mismatch means the
// engine lost bit-level determinism.
func (res *Result) Checksum() uint64 {
	d := xxhash.New()
	var buf [4]byte
	for _, row := range res.Positions {
		for _, p := range row {
			for _, c := range [3]float32{p.X, p.Y, p.Z} {
				binary.LittleEndian.PutUint32(buf[:], math.Float32bits(c))
				d.Write(buf[:])
			}
		}
	}
	return d.Sum64()
}
