package laz

import (
	"fmt"
	"io"
)

// CopcDecompressor implements spec.md §4.4: a slimmed decompressor driven
// entirely by absolute chunk offsets taken from the hierarchy. It never
// parses the on-disk chunk table, so readers need not scan to the end of
// the stream — the property that makes HTTP-range COPC reads practical.
type CopcDecompressor struct {
	source    io.ReadSeeker
	start     int64
	factory   CodecFactory
	items     []Item
	recordLen int

	cur ItemDecompressor
}

// NewCopcDecompressor records the source's logical start offset and
// prepares the item set, without pre-scanning the chunk table.
func NewCopcDecompressor(source io.ReadSeeker, start int64, vlr Vlr, factory CodecFactory) *CopcDecompressor {
	return &CopcDecompressor{
		source:    source,
		start:     start,
		factory:   factory,
		items:     vlr.Items,
		recordLen: int(RecordLength(vlr.Items)),
	}
}

// SourceSeek seeks the underlying source to start+offset and re-arms the
// decompressor from the VLR's item set. byteSize bounds the chunk's
// compressed length: a block-based CodecFactory needs this to avoid
// reading into the next chunk, since unlike a true streaming arithmetic
// coder it cannot tell where its own chunk ends from content alone. The
// next DecompressOne call MUST be a valid chunk boundary.
func (d *CopcDecompressor) SourceSeek(offset, byteSize uint64) error {
	if _, err := d.source.Seek(d.start+int64(offset), io.SeekStart); err != nil {
		return fmt.Errorf("laz: seeking to chunk offset %d: %w", offset, err)
	}
	d.cur = d.factory.NewDecompressor(d.items)
	bounded := io.LimitReader(d.source, int64(byteSize))
	if err := d.cur.Reset(bounded); err != nil {
		return fmt.Errorf("laz: arming decompressor at offset %d: %w", offset, err)
	}
	return nil
}

// DecompressOne decodes exactly one point record into out (len(out) ==
// the item set's total record length).
func (d *CopcDecompressor) DecompressOne(out []byte) error {
	if d.cur == nil {
		return fmt.Errorf("laz: decompressor not armed: call SourceSeek first")
	}
	if len(out) != d.recordLen {
		return fmt.Errorf("laz: out buffer is %d bytes, want %d", len(out), d.recordLen)
	}
	return d.cur.DecompressPoint(out)
}

// RecordLength returns the item set's total point-record size.
func (d *CopcDecompressor) RecordLength() int { return d.recordLen }
