package copc

import (
	"fmt"
	"io"

	"github.com/copc-go/copc/internal/lasio"
	"github.com/copc-go/copc/internal/laz"
)

// openLayout writes the fixed structural prefix every COPC file shares
// (spec.md §4.6): a zeroed header placeholder (patched in Close), a
// zeroed COPC info VLR placeholder (patched in Close), the LAZ VLR, an
// optional synthesized CRS VLR, and any forwarded VLRs surviving the
// drop policy. It then opens the chunk compressor positioned at the
// start of point data.
func (w *Writer) openLayout() error {
	start, err := w.sink.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("copc: locating write start: %w", err)
	}
	w.start = start

	if _, err := w.sink.Write(make([]byte, lasio.HeaderSize)); err != nil {
		return fmt.Errorf("copc: reserving header: %w", err)
	}

	copcInfoVLR := lasio.NewVLR("copc", 1, "COPC Info VLR", make([]byte, CopcInfoSize))
	copcInfoBytes, err := copcInfoVLR.Marshal()
	if err != nil {
		return fmt.Errorf("copc: %w", err)
	}
	copcInfoPos, err := w.sink.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("copc: locating COPC info VLR: %w", err)
	}
	if _, err := w.sink.Write(copcInfoBytes); err != nil {
		return fmt.Errorf("copc: writing COPC info VLR placeholder: %w", err)
	}
	w.copcInfoPayloadPos = copcInfoPos + lasio.VLRHeaderSize

	lazVLR := lasio.NewVLR("laszip encoded", 22204, "", w.lazVLR.Marshal())
	lazBytes, err := lazVLR.Marshal()
	if err != nil {
		return fmt.Errorf("copc: %w", err)
	}
	if _, err := w.sink.Write(lazBytes); err != nil {
		return fmt.Errorf("copc: writing LAZ VLR: %w", err)
	}

	numVLRs := uint32(2)

	if crsVLR, err := w.resolveCRSVLR(); err != nil {
		return err
	} else if crsVLR != nil {
		b, err := crsVLR.Marshal()
		if err != nil {
			return fmt.Errorf("copc: %w", err)
		}
		if _, err := w.sink.Write(b); err != nil {
			return fmt.Errorf("copc: writing CRS VLR: %w", err)
		}
		numVLRs++
	}

	for _, v := range w.cfg.forwardedVLRs {
		if shouldDropVLR(v.UserIDString(), v.RecordID) {
			continue
		}
		b, err := v.Marshal()
		if err != nil {
			return fmt.Errorf("copc: forwarding VLR %q/%d: %w", v.UserIDString(), v.RecordID, err)
		}
		if _, err := w.sink.Write(b); err != nil {
			return fmt.Errorf("copc: writing forwarded VLR: %w", err)
		}
		numVLRs++
	}

	w.header.NumVLRs = numVLRs

	pointDataPos, err := w.sink.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("copc: locating point data start: %w", err)
	}
	w.pointDataPos = pointDataPos
	w.header.OffsetToPointData = uint32(pointDataPos - w.start)

	compressor, err := laz.NewCopcCompressor(w.sink, w.lazVLR, w.cfg.codecFactory)
	if err != nil {
		return err
	}
	w.compressor = compressor
	return nil
}

// collectEntries walks the octree depth-first, flushing any open
// non-empty buffers that were never filled to max_node_size, and
// returns every node worth a hierarchy entry: flushed leaves (real point
// chunks) and materialized-but-empty interior nodes (explicit
// PointCount==0 markers, per spec.md §4.2).
func (w *Writer) collectEntries(n *octreeNode, out []HierarchyEntry) ([]HierarchyEntry, error) {
	switch {
	case n.flushed:
		out = append(out, n.entry)
	case n.count > 0:
		if err := w.flushNode(n); err != nil {
			return nil, err
		}
		out = append(out, n.entry)
	case n.childrenMaterialized():
		out = append(out, HierarchyEntry{Key: n.key, PointCount: 0})
	}

	if n.childrenMaterialized() {
		for _, c := range n.children {
			var err error
			out, err = w.collectEntries(c, out)
			if err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Close finalizes the file: it flushes any still-open octree buffers,
// writes the chunk table, emits the EPT hierarchy as a single root page,
// and patches the header and COPC info VLR in place (spec.md §4.6),
// leaving the sink positioned at the file's start. It returns
// ErrEmptyCopcFile if no point was ever added, and ErrClosedWriter if the
// writer is already closed.
func (w *Writer) Close() error {
	if w.closed {
		return ErrClosedWriter
	}
	defer func() {
		w.closed = true
		if w.closer != nil {
			w.closer.Close()
		}
	}()
	if w.totalPoints == 0 {
		return ErrEmptyCopcFile
	}

	entries, err := w.collectEntries(w.root, nil)
	if err != nil {
		return err
	}

	if err := w.compressor.Done(); err != nil {
		return err
	}

	startOfFirstEVLR, err := w.sink.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("copc: locating first EVLR position: %w", err)
	}

	page := HierarchyPage{Entries: entries}
	hierarchyEVLR := lasio.NewEVLR("copc", 1000, "EPT Hierarchy", page.Marshal())
	if _, err := w.sink.Write(hierarchyEVLR.Marshal()); err != nil {
		return fmt.Errorf("copc: writing EPT hierarchy EVLR: %w", err)
	}

	numEVLRs := uint32(1)
	for _, e := range w.cfg.forwardedEVLRs {
		if shouldDropVLR(e.UserIDString(), e.RecordID) {
			continue
		}
		if _, err := w.sink.Write(e.Marshal()); err != nil {
			return fmt.Errorf("copc: writing forwarded EVLR: %w", err)
		}
		numEVLRs++
	}

	info := CopcInfo{
		Center:         w.rootBounds.Center(),
		Halfsize:       w.rootBounds.Halfsize(),
		Spacing:        2 * w.rootBounds.Halfsize() / float64(w.totalPoints),
		RootHierOffset: uint64(startOfFirstEVLR) + lasio.EVLRHeaderSize,
		RootHierSize:   page.ByteSize(),
		GPSTimeMinimum: w.gpsMin,
		GPSTimeMaximum: w.gpsMax,
	}

	if _, err := w.sink.Seek(w.copcInfoPayloadPos, io.SeekStart); err != nil {
		return fmt.Errorf("copc: seeking to patch COPC info VLR: %w", err)
	}
	if _, err := w.sink.Write(info.Marshal()); err != nil {
		return fmt.Errorf("copc: patching COPC info VLR: %w", err)
	}

	w.header.StartOfFirstEVLR = uint64(startOfFirstEVLR)
	w.header.NumEVLRs = numEVLRs

	if _, err := w.sink.Seek(w.start, io.SeekStart); err != nil {
		return fmt.Errorf("copc: seeking to patch header: %w", err)
	}
	if _, err := w.sink.Write(w.header.Marshal()); err != nil {
		return fmt.Errorf("copc: patching header: %w", err)
	}
	if _, err := w.sink.Seek(w.start, io.SeekStart); err != nil {
		return fmt.Errorf("copc: seeking back to start: %w", err)
	}

	return nil
}
