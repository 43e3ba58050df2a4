package copc

import (
	"fmt"
	"io"

	"github.com/copc-go/copc/internal/iosrc"
	"github.com/copc-go/copc/internal/laz"
	"github.com/copc-go/copc/internal/point"
	"github.com/copc-go/copc/internal/utils"
)

// sourceReadSeeker adapts an iosrc.Source (ReadAt + Seek) to io.ReadSeeker
// via an independent read cursor, so laz.CopcDecompressor (which wants a
// streaming Read) can drive it without disturbing any other cursor the
// caller maintains on the same Source.
type sourceReadSeeker struct {
	s   iosrc.Source
	pos int64
}

func (rs *sourceReadSeeker) Read(p []byte) (int, error) {
	n, err := rs.s.ReadAt(p, rs.pos)
	rs.pos += int64(n)
	return n, err
}

func (rs *sourceReadSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		rs.pos = offset
	case io.SeekCurrent:
		rs.pos += offset
	default:
		return 0, fmt.Errorf("copc: unsupported seek whence %d", whence)
	}
	return rs.pos, nil
}

// rawBoundsFilter is a query bound pre-quantized into the header's raw
// integer frame, per spec.md §4.5 ("avoiding per-point float work").
type rawBoundsFilter struct {
	minX, minY, minZ int32
	maxX, maxY, maxZ int32
}

func (f rawBoundsFilter) admits(x, y, z int32) bool {
	return x >= f.minX && x <= f.maxX &&
		y >= f.minY && y <= f.maxY &&
		z >= f.minZ && z <= f.maxZ
}

// PointIterator is the reader's point-delivery state machine: a node
// stack (already ascending-offset sorted by PlanQuery), a decompressor,
// and a per-record scratch buffer (spec.md §9, "state machine {node_stack,
// cur_node_remaining, total_remaining, decompressor, scratch_buf}").
type PointIterator struct {
	reader *Reader
	nodes  []QueryNode

	nodeIdx      int
	curRemaining int32

	totalRemaining uint64

	decomp    *laz.CopcDecompressor
	scratch   []byte
	recordLen int

	filter    *rawBoundsFilter
	current   Point
	err       error
}

// Points returns a lazy point iterator over the nodes matching lod and
// bounds. The iterator is non-restartable and exclusively owns the
// reader's source cursor for its lifetime (spec.md §5).
func (r *Reader) Points(lod LodSelection, bounds BoundsSelection) (*PointIterator, error) {
	nodes, err := r.PlanQuery(lod, bounds)
	if err != nil {
		return nil, err
	}

	var total uint64
	for _, n := range nodes {
		total += uint64(n.Entry.PointCount)
	}

	rs := &sourceReadSeeker{s: r.source}
	recordLen := int(r.format.RecordLength())

	it := &PointIterator{
		reader:         r,
		nodes:          nodes,
		totalRemaining: total,
		decomp:         laz.NewCopcDecompressor(rs, r.start, r.lazVLR, r.codecFactory),
		scratch:        make([]byte, recordLen),
		recordLen:      recordLen,
	}

	if bounds.kind == BoundsWithinKind {
		h := r.header
		b := bounds.bounds
		it.filter = &rawBoundsFilter{
			minX: h.ToRawX(b.MinX), minY: h.ToRawY(b.MinY), minZ: h.ToRawZ(b.MinZ),
			maxX: h.ToRawX(b.MaxX), maxY: h.ToRawY(b.MaxY), maxZ: h.ToRawZ(b.MaxZ),
		}
	}

	return it, nil
}

// Remaining returns an upper bound on the number of points still to be
// yielded: exact unless a bounds filter rejects some of them (spec.md
// §4.5, "size hint").
func (it *PointIterator) Remaining() uint64 { return it.totalRemaining }

// Err returns the first error encountered, if any.
func (it *PointIterator) Err() error { return it.err }

// Next advances the iterator and reports whether a point is available
// via Point. It returns false at end of stream or on error (check Err).
func (it *PointIterator) Next() bool {
	if it.err != nil {
		return false
	}
	for {
		if it.totalRemaining == 0 {
			return false
		}
		if it.curRemaining == 0 {
			if it.nodeIdx >= len(it.nodes) {
				// Invariant violation: totalRemaining counted points from
				// exactly len(nodes) nodes, so this should be unreachable.
				it.err = fmt.Errorf("copc: %w", ErrCorruptMetadata)
				return false
			}
			node := it.nodes[it.nodeIdx]
			it.nodeIdx++
			if err := utils.ValidateBufferSize(uint64(node.Entry.ByteSize), utils.MaxChunkSize, "point chunk"); err != nil {
				it.err = fmt.Errorf("%w: %v", ErrCorruptMetadata, err)
				return false
			}
			if err := it.decomp.SourceSeek(node.Entry.Offset, uint64(node.Entry.ByteSize)); err != nil {
				it.err = err
				return false
			}
			it.curRemaining = node.Entry.PointCount
		}

		if err := it.decomp.DecompressOne(it.scratch); err != nil {
			it.err = err
			return false
		}
		it.curRemaining--
		it.totalRemaining--

		rec, err := point.Parse(it.scratch, it.reader.format)
		if err != nil {
			it.err = err
			return false
		}

		if it.filter != nil && !it.filter.admits(rec.X, rec.Y, rec.Z) {
			continue
		}

		it.current = toWorldPoint(it.reader.header, rec)
		return true
	}
}

// Point returns the point produced by the most recent successful Next.
func (it *PointIterator) Point() Point { return it.current }
