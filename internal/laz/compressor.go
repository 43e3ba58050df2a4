package laz

import (
	"encoding/binary"
	"fmt"
	"io"
)

// CopcCompressor implements spec.md §4.3: it wraps a CodecFactory to emit
// a sequence of independent, variable-size LAZ chunks into sink,
// interleaved with a separately-maintained chunk table written at the
// end via Done.
type CopcCompressor struct {
	sink      io.WriteSeeker
	factory   CodecFactory
	items     []Item
	recordLen int

	startPos int64
	entries  []ChunkTableEntry

	cur    ItemCompressor
	closed bool
}

// NewCopcCompressor records sink's current position as start_pos, writes
// the eight-byte placeholder chunk-table offset, and prepares the first
// chunk.
func NewCopcCompressor(sink io.WriteSeeker, vlr Vlr, factory CodecFactory) (*CopcCompressor, error) {
	startPos, err := sink.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("laz: recording start position: %w", err)
	}

	var placeholder [8]byte
	binary.LittleEndian.PutUint64(placeholder[:], ^uint64(0)) // -1 as an i64
	if _, err := sink.Write(placeholder[:]); err != nil {
		return nil, fmt.Errorf("laz: writing chunk table offset placeholder: %w", err)
	}

	recordLen := int(RecordLength(vlr.Items))
	return &CopcCompressor{
		sink:      sink,
		factory:   factory,
		items:     vlr.Items,
		recordLen: recordLen,
		startPos:  startPos,
		cur:       factory.NewCompressor(vlr.Items),
	}, nil
}

// CompressChunk feeds raw (a concatenation of fixed-size point records)
// through the layered compressor one record at a time, finalizes the
// chunk, writes it to sink, and records a ChunkTableEntry. It returns the
// entry and the chunk's absolute file offset.
func (c *CopcCompressor) CompressChunk(raw []byte) (ChunkTableEntry, uint64, error) {
	if c.closed {
		return ChunkTableEntry{}, 0, fmt.Errorf("laz: compressor already closed")
	}
	if len(raw)%c.recordLen != 0 {
		return ChunkTableEntry{}, 0, fmt.Errorf("laz: chunk payload length %d is not a multiple of record length %d", len(raw), c.recordLen)
	}

	n := len(raw) / c.recordLen
	for i := 0; i < n; i++ {
		rec := raw[i*c.recordLen : (i+1)*c.recordLen]
		if err := c.cur.CompressPoint(rec); err != nil {
			return ChunkTableEntry{}, 0, fmt.Errorf("laz: compressing point %d: %w", i, err)
		}
	}

	compressed, err := c.cur.Finish()
	if err != nil {
		return ChunkTableEntry{}, 0, fmt.Errorf("laz: finishing chunk: %w", err)
	}

	offset, err := c.sink.Seek(0, io.SeekCurrent)
	if err != nil {
		return ChunkTableEntry{}, 0, fmt.Errorf("laz: locating chunk offset: %w", err)
	}
	if _, err := c.sink.Write(compressed); err != nil {
		return ChunkTableEntry{}, 0, fmt.Errorf("laz: writing chunk: %w", err)
	}

	entry := ChunkTableEntry{PointCount: uint64(n), ByteCount: uint64(len(compressed))}
	c.entries = append(c.entries, entry)

	// Fresh compressor per chunk: every chunk must be independently
	// decodable (spec.md §4.3).
	c.cur = c.factory.NewCompressor(c.items)

	return entry, uint64(offset), nil
}

// Done finalizes the compressor: it writes the chunk table, seeks back
// to patch the placeholder offset at start_pos with the table's actual
// position, and marks the compressor closed. The compressor MUST NOT be
// reused after Done.
func (c *CopcCompressor) Done() error {
	if c.closed {
		return fmt.Errorf("laz: compressor already closed")
	}
	tablePos, err := c.sink.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("laz: locating chunk table position: %w", err)
	}
	if err := WriteChunkTable(c.sink, c.entries); err != nil {
		return err
	}

	endPos, err := c.sink.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("laz: locating end position: %w", err)
	}
	if _, err := c.sink.Seek(c.startPos, io.SeekStart); err != nil {
		return fmt.Errorf("laz: seeking back to patch chunk table offset: %w", err)
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(tablePos))
	if _, err := c.sink.Write(buf[:]); err != nil {
		return fmt.Errorf("laz: patching chunk table offset: %w", err)
	}
	if _, err := c.sink.Seek(endPos, io.SeekStart); err != nil {
		return fmt.Errorf("laz: seeking past chunk table: %w", err)
	}

	c.closed = true
	return nil
}

// Entries returns the chunk table entries recorded so far.
func (c *CopcCompressor) Entries() []ChunkTableEntry {
	return append([]ChunkTableEntry(nil), c.entries...)
}
