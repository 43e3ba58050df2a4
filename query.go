package copc

import (
	"fmt"
	"math"
	"sort"
)

// LodKind discriminates the variants of LodSelection.
type LodKind int

const (
	LodAllKind LodKind = iota
	LodLevelKind
	LodLevelMinMaxKind
	LodResolutionKind
)

// LodSelection chooses which octree levels a query visits, per spec.md
// §4.5 / §6.
type LodSelection struct {
	kind       LodKind
	level      int32
	levelMax   int32
	resolution float64
}

// LodAll selects every level.
func LodAll() LodSelection { return LodSelection{kind: LodAllKind} }

// LodLevel selects exactly one level.
func LodLevel(level int32) LodSelection { return LodSelection{kind: LodLevelKind, level: level} }

// LodLevelMinMax selects the half-open level range [min, max).
func LodLevelMinMax(min, max int32) LodSelection {
	return LodSelection{kind: LodLevelMinMaxKind, level: min, levelMax: max}
}

// LodResolution selects every level down to the one whose nominal point
// spacing is at least as fine as r.
func LodResolution(r float64) LodSelection {
	return LodSelection{kind: LodResolutionKind, resolution: r}
}

// Range resolves the selection to a half-open level range [lmin, lmax),
// given the root node's nominal spacing (needed only by LodResolution).
func (s LodSelection) Range(rootSpacing float64) (lmin, lmax int32, err error) {
	switch s.kind {
	case LodAllKind:
		return 0, math.MaxInt32, nil
	case LodLevelKind:
		return s.level, s.level + 1, nil
	case LodLevelMinMaxKind:
		if s.levelMax <= s.level {
			return 0, 0, fmt.Errorf("copc: LodLevelMinMax requires max > min, got [%d, %d)", s.level, s.levelMax)
		}
		return s.level, s.levelMax, nil
	case LodResolutionKind:
		if !(s.resolution > 0) || math.IsNaN(s.resolution) || math.IsInf(s.resolution, 0) {
			return 0, 0, ErrInvalidResolution
		}
		// spacing halves per level: find the coarsest level whose spacing
		// is still <= resolution, per spec.md §4.5.
		lmax := int32(math.Ceil(math.Log2(rootSpacing/s.resolution))) + 1
		if lmax < 1 {
			lmax = 1
		}
		return 0, lmax, nil
	default:
		return 0, 0, fmt.Errorf("copc: unknown LodSelection kind %d", s.kind)
	}
}

// BoundsKind discriminates the variants of BoundsSelection.
type BoundsKind int

const (
	BoundsAllKind BoundsKind = iota
	BoundsWithinKind
)

// BoundsSelection chooses which spatial region a query visits.
type BoundsSelection struct {
	kind   BoundsKind
	bounds Bounds
}

// BoundsAll selects every point regardless of position.
func BoundsAll() BoundsSelection { return BoundsSelection{kind: BoundsAllKind} }

// BoundsWithin selects only nodes whose cube intersects b; Points further
// yields only the points of those nodes that lie inside b.
func BoundsWithin(b Bounds) BoundsSelection { return BoundsSelection{kind: BoundsWithinKind, bounds: b} }

// QueryNode is one octree node selected by a query: its key, its
// hierarchy entry (a leaf with point_count > 0), and its world-space cube.
type QueryNode struct {
	Key    VoxelKey
	Entry  HierarchyEntry
	Bounds Bounds
}

// PlanQuery walks the materialized hierarchy depth-first with an
// explicit work stack and returns every matching leaf node, sorted by
// ascending file offset — so a caller visiting them in order only ever
// seeks forward, which is the property that makes COPC practical to
// serve over HTTP range requests (spec.md §4.5, testable property 10).
func (r *Reader) PlanQuery(lod LodSelection, bounds BoundsSelection) ([]QueryNode, error) {
	lmin, lmax, err := lod.Range(r.copcInfo.Spacing)
	if err != nil {
		return nil, err
	}

	root := r.copcInfo.RootBounds()
	stack := []VoxelKey{{Level: 0, X: 0, Y: 0, Z: 0}}
	var result []QueryNode

	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entry, ok := r.hierarchy[k]
		if !ok {
			continue
		}
		if k.Level >= lmax {
			continue
		}
		nodeBounds := k.Bounds(root)
		if bounds.kind == BoundsWithinKind && !nodeBounds.Intersects(bounds.bounds) {
			continue
		}

		if entry.PointCount > 0 && k.Level >= lmin && k.Level < lmax {
			result = append(result, QueryNode{Key: k, Entry: entry, Bounds: nodeBounds})
		}

		for _, child := range k.Children() {
			stack = append(stack, child)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Entry.Offset < result[j].Entry.Offset })
	return result, nil
}
