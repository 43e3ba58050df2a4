package copc

// VoxelKey addresses a node in the EPT octree: a level and an (x, y, z)
// voxel coordinate valid on [0, 2^level) on every axis at that level. A
// negative Level is used only as a zero-value sentinel during octree
// construction — it never appears in a finalized hierarchy.
type VoxelKey struct {
	Level int32
	X, Y, Z int32
}

// InvalidKey is the zero-value sentinel (Level < 0) used while assembling
// an in-memory octree, before a node has been assigned a real key.
var InvalidKey = VoxelKey{Level: -1}

// Valid reports whether k has a non-negative level.
func (k VoxelKey) Valid() bool {
	return k.Level >= 0
}

// Child returns the child key in direction dir (0..8), combining one bit of
// dir into each axis: bit 0 → x, bit 1 → y, bit 2 → z.
func (k VoxelKey) Child(dir int) VoxelKey {
	return VoxelKey{
		Level: k.Level + 1,
		X:     (k.X << 1) | int32(dir&0x1),
		Y:     (k.Y << 1) | int32((dir>>1)&0x1),
		Z:     (k.Z << 1) | int32((dir>>2)&0x1),
	}
}

// Children returns all 8 children of k in direction order 0..7.
func (k VoxelKey) Children() [8]VoxelKey {
	var out [8]VoxelKey
	for dir := 0; dir < 8; dir++ {
		out[dir] = k.Child(dir)
	}
	return out
}

// Bounds returns the cube k occupies, given the root octree's (cube) bounds.
// The root cube is halved per level, so side = rootSide / 2^level.
func (k VoxelKey) Bounds(root Bounds) Bounds {
	rootSide := root.MaxX - root.MinX
	sideSize := rootSide / float64(uint64(1)<<uint(k.Level))

	minX := root.MinX + float64(k.X)*sideSize
	minY := root.MinY + float64(k.Y)*sideSize
	minZ := root.MinZ + float64(k.Z)*sideSize
	return Bounds{
		MinX: minX, MinY: minY, MinZ: minZ,
		MaxX: minX + sideSize, MaxY: minY + sideSize, MaxZ: minZ + sideSize,
	}
}
