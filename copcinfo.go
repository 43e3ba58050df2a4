package copc

import (
	"encoding/binary"
	"fmt"
	"math"
)

// CopcInfoSize is the exact on-disk payload size of the COPC Info VLR
// (excluding the VLR header), per spec.md §3/§6.
const CopcInfoSize = 160

// CopcInfo is the COPC Info VLR payload: the octree's root cube, nominal
// spacing, the location of the root hierarchy page, and the GPS time range
// covered by the file.
type CopcInfo struct {
	Center   Vector3
	Halfsize float64
	Spacing  float64

	RootHierOffset uint64
	RootHierSize   uint64

	GPSTimeMinimum float64
	GPSTimeMaximum float64
}

// RootBounds returns the cube of side 2*Halfsize centered at Center — the
// root of the octree (spec.md §4.5 "Query planner").
func (c CopcInfo) RootBounds() Bounds {
	return CubeBounds(c.Center, c.Halfsize)
}

// Marshal serializes c as the exact 160-byte COPC Info payload: center,
// halfsize, spacing, root hierarchy offset/size, gpstime min/max, followed
// by 11 reserved zero u64s.
func (c CopcInfo) Marshal() []byte {
	buf := make([]byte, CopcInfoSize)
	le := binary.LittleEndian
	le.PutUint64(buf[0:8], math.Float64bits(c.Center.X))
	le.PutUint64(buf[8:16], math.Float64bits(c.Center.Y))
	le.PutUint64(buf[16:24], math.Float64bits(c.Center.Z))
	le.PutUint64(buf[24:32], math.Float64bits(c.Halfsize))
	le.PutUint64(buf[32:40], math.Float64bits(c.Spacing))
	le.PutUint64(buf[40:48], c.RootHierOffset)
	le.PutUint64(buf[48:56], c.RootHierSize)
	le.PutUint64(buf[56:64], math.Float64bits(c.GPSTimeMinimum))
	le.PutUint64(buf[64:72], math.Float64bits(c.GPSTimeMaximum))
	// bytes [72:160) are the 11 reserved u64 zeros: buf is already
	// zero-initialized, and they MUST NOT be touched on read either
	// (spec.md §4.2).
	return buf
}

// ParseCopcInfo deserializes a CopcInfo from the 160-byte VLR payload src.
// Reserved bytes are ignored, never validated.
func ParseCopcInfo(src []byte) (CopcInfo, error) {
	if len(src) < CopcInfoSize {
		return CopcInfo{}, fmt.Errorf("%w: COPC info VLR needs %d bytes, got %d", ErrCorruptMetadata, CopcInfoSize, len(src))
	}
	le := binary.LittleEndian
	return CopcInfo{
		Center: Vector3{
			X: math.Float64frombits(le.Uint64(src[0:8])),
			Y: math.Float64frombits(le.Uint64(src[8:16])),
			Z: math.Float64frombits(le.Uint64(src[16:24])),
		},
		Halfsize:       math.Float64frombits(le.Uint64(src[24:32])),
		Spacing:        math.Float64frombits(le.Uint64(src[32:40])),
		RootHierOffset: le.Uint64(src[40:48]),
		RootHierSize:   le.Uint64(src[48:56]),
		GPSTimeMinimum: math.Float64frombits(le.Uint64(src[56:64])),
		GPSTimeMaximum: math.Float64frombits(le.Uint64(src[64:72])),
	}, nil
}
