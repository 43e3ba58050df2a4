package copc

import (
	"math"
	"math/rand"
)

// octreeNode is the in-memory octree node used during writing: owned
// exclusively by the writer's root, children materialized lazily, and
// flushed into a flat hierarchy-entry list once full or at close
// (spec.md §9, "Tree of nodes with mutable children").
type octreeNode struct {
	key    VoxelKey
	buffer []byte // concatenated raw point records, not yet flushed
	count  int32

	children [8]*octreeNode // nil entries are not yet materialized

	flushed bool
	entry   HierarchyEntry
}

func newOctreeNode(key VoxelKey) *octreeNode {
	return &octreeNode{key: key}
}

func (n *octreeNode) childrenMaterialized() bool { return n.children[0] != nil }

func (n *octreeNode) materializeChildren() {
	for i, ck := range n.key.Children() {
		n.children[i] = newOctreeNode(ck)
	}
}

// findContainingChild returns the first materialized child whose cube
// contains (x, y, z), per the first-fit-in-iteration-order tie-break
// policy (spec.md §4.1).
func (n *octreeNode) findContainingChild(root Bounds, x, y, z float64) *octreeNode {
	for _, c := range n.children {
		if c == nil {
			continue
		}
		if c.key.Bounds(root).ContainsPoint(x, y, z) {
			return c
		}
	}
	return nil
}

// placeGreedy implements spec.md §4.6's greedy strategy: descend from
// root; split (lazily materialize children) any node already at
// max_node_size; otherwise place here.
func placeGreedy(root *octreeNode, rootBounds Bounds, maxNodeSize int32, x, y, z float64, raw []byte) (*octreeNode, error) {
	node := root
	for {
		if node.count >= maxNodeSize {
			if !node.childrenMaterialized() {
				node.materializeChildren()
			}
			child := node.findContainingChild(rootBounds, x, y, z)
			if child == nil {
				return nil, errPointNotAddedToAnyNode
			}
			node = child
			continue
		}
		node.buffer = append(node.buffer, raw...)
		node.count++
		return node, nil
	}
}

// stochasticPlacer implements spec.md §4.6's stochastic strategy: an
// estimated target depth L, descent materializing children up to depth
// L, weighted-random selection among non-full candidates along the path,
// and a fallback to greedy once the point-count hint is exceeded.
type stochasticPlacer struct {
	rootBounds  Bounds
	maxNodeSize int32
	depth       int32
	hint        uint64
	seen        uint64
	rng         *rand.Rand
}

// newStochasticPlacer computes the target depth L per spec.md §4.6:
// L = ceil( (log2(3N/max_node_size + 1) - 2) / 2 ), N = numPointsHint.
func newStochasticPlacer(rootBounds Bounds, maxNodeSize int32, numPointsHint uint64, seed int64) *stochasticPlacer {
	n := float64(numPointsHint)
	m := float64(maxNodeSize)
	l := math.Ceil((math.Log2(3*n/m+1) - 2) / 2)
	if l < 1 {
		l = 1
	}
	return &stochasticPlacer{
		rootBounds:  rootBounds,
		maxNodeSize: maxNodeSize,
		depth:       int32(l),
		hint:        numPointsHint,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (p *stochasticPlacer) place(root *octreeNode, x, y, z float64, raw []byte) (*octreeNode, error) {
	if p.seen >= p.hint {
		// Hint exhausted: fall back to greedy for the remainder.
		return placeGreedy(root, p.rootBounds, p.maxNodeSize, x, y, z, raw)
	}
	p.seen++

	node := root
	var candidates []*octreeNode
	var weights []float64

	for depth := int32(0); depth <= p.depth; depth++ {
		if node.count < p.maxNodeSize {
			candidates = append(candidates, node)
			weights = append(weights, math.Pow(4, float64(depth)))
		}
		if depth == p.depth {
			break
		}
		if !node.childrenMaterialized() {
			node.materializeChildren()
		}
		child := node.findContainingChild(p.rootBounds, x, y, z)
		if child == nil {
			break
		}
		node = child
	}

	if len(candidates) == 0 {
		// Every node along the path up to depth L is full: extend with
		// greedy splitting from the deepest node reached.
		return placeGreedy(node, p.rootBounds, p.maxNodeSize, x, y, z, raw)
	}

	chosen := weightedChoice(p.rng, weights)
	target := candidates[chosen]
	target.buffer = append(target.buffer, raw...)
	target.count++
	return target, nil
}

func weightedChoice(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	var running float64
	for i, w := range weights {
		running += w
		if r < running {
			return i
		}
	}
	return len(weights) - 1
}
