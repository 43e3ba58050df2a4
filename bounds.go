package copc

import "math"

// Vector3 is a three-component double-precision vector, used for CopcInfo's
// center and for a header's scale/offset transforms.
type Vector3 struct {
	X, Y, Z float64
}

// Bounds is an axis-aligned bounding box. Containment and intersection are
// both inclusive on every face: a point or box sitting exactly on a shared
// boundary is admissible on either side.
type Bounds struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// EmptyBounds returns a box with infinite/negative-infinite extents, ready
// to be grown with Expand — mirrors copc-rs's Bounds::default(), used by the
// writer's auto-bounds pre-pass (SPEC_FULL.md §4.6).
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1), MinZ: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1), MaxZ: math.Inf(-1),
	}
}

// Expand grows b in place so it also contains other.
func (b *Bounds) Expand(other Bounds) {
	if other.MinX < b.MinX {
		b.MinX = other.MinX
	}
	if other.MinY < b.MinY {
		b.MinY = other.MinY
	}
	if other.MinZ < b.MinZ {
		b.MinZ = other.MinZ
	}
	if other.MaxX > b.MaxX {
		b.MaxX = other.MaxX
	}
	if other.MaxY > b.MaxY {
		b.MaxY = other.MaxY
	}
	if other.MaxZ > b.MaxZ {
		b.MaxZ = other.MaxZ
	}
}

// ExpandPoint grows b in place so it also contains (x, y, z).
func (b *Bounds) ExpandPoint(x, y, z float64) {
	if x < b.MinX {
		b.MinX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if z < b.MinZ {
		b.MinZ = z
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y > b.MaxY {
		b.MaxY = y
	}
	if z > b.MaxZ {
		b.MaxZ = z
	}
}

// Intersects reports whether the two closed boxes share at least one point
// on every axis. Commutative and reflexive.
func (b Bounds) Intersects(r Bounds) bool {
	if b.MaxX < r.MinX || r.MaxX < b.MinX {
		return false
	}
	if b.MaxY < r.MinY || r.MaxY < b.MinY {
		return false
	}
	if b.MaxZ < r.MinZ || r.MaxZ < b.MinZ {
		return false
	}
	return true
}

// ContainsPoint reports whether (x, y, z) lies in the closed box.
func (b Bounds) ContainsPoint(x, y, z float64) bool {
	return x >= b.MinX && x <= b.MaxX &&
		y >= b.MinY && y <= b.MaxY &&
		z >= b.MinZ && z <= b.MaxZ
}

// validAxisExtent reports whether max-min is a finite, non-zero,
// non-subnormal number, as required of every axis of a writer's header
// bounds (spec.md §3 invariant 1, §4.6 header acceptance).
func validAxisExtent(min, max float64) bool {
	extent := max - min
	if math.IsNaN(extent) || math.IsInf(extent, 0) {
		return false
	}
	if extent == 0 {
		return false
	}
	abs := math.Abs(extent)
	return abs >= math.SmallestNonzeroFloat64*(1<<52) // reject subnormals
}

// Valid reports whether every axis of b has a finite, non-zero,
// non-subnormal extent and min <= max.
func (b Bounds) Valid() bool {
	if b.MinX > b.MaxX || b.MinY > b.MaxY || b.MinZ > b.MaxZ {
		return false
	}
	return validAxisExtent(b.MinX, b.MaxX) &&
		validAxisExtent(b.MinY, b.MaxY) &&
		validAxisExtent(b.MinZ, b.MaxZ)
}

// Halfsize returns the largest half-extent over all three axes — the value
// CopcInfo.Halfsize must be at least as large as (spec.md §3 invariant 3).
func (b Bounds) Halfsize() float64 {
	hx := (b.MaxX - b.MinX) / 2
	hy := (b.MaxY - b.MinY) / 2
	hz := (b.MaxZ - b.MinZ) / 2
	h := hx
	if hy > h {
		h = hy
	}
	if hz > h {
		h = hz
	}
	return h
}

// Center returns the midpoint of b.
func (b Bounds) Center() Vector3 {
	return Vector3{
		X: (b.MinX + b.MaxX) / 2,
		Y: (b.MinY + b.MaxY) / 2,
		Z: (b.MinZ + b.MaxZ) / 2,
	}
}

// CubeBounds builds a cube of side 2*halfsize centered at center — the
// octree root must always be a cube so that VoxelKey.Bounds produces true
// cubes at every level (spec.md §4.1 edge policy).
func CubeBounds(center Vector3, halfsize float64) Bounds {
	return Bounds{
		MinX: center.X - halfsize, MinY: center.Y - halfsize, MinZ: center.Z - halfsize,
		MaxX: center.X + halfsize, MaxY: center.Y + halfsize, MaxZ: center.Z + halfsize,
	}
}
