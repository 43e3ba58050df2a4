package laz

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/copc-go/copc/internal/utils"
)

// ChunkTableEntry records one chunk's point count and compressed byte
// size, per spec.md §3. COPC always writes variable-size chunks, so both
// fields are meaningful (a fixed-size-chunk LAZ VLR could omit byte_count,
// but COPC never does).
type ChunkTableEntry struct {
	PointCount uint64
	ByteCount  uint64
}

const chunkTableEntrySize = 16

// WriteChunkTable serializes entries as a manual, uncompressed table:
// a little-endian u32 entry count followed by packed (point_count,
// byte_count) u64 pairs. A real LASzip chunk table is itself
// entropy-coded by the external codec; this module owns only the
// chunk-offset bookkeeping (spec.md §4.3), so the table it writes is
// plain binary — a conforming CodecFactory implementation that also
// wants byte-for-byte LASzip chunk-table compatibility is free to
// re-encode this before it reaches disk.
func WriteChunkTable(w io.Writer, entries []ChunkTableEntry) error {
	hdr := make([]byte, 4)
	binary.LittleEndian.PutUint32(hdr, uint32(len(entries)))
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("laz: writing chunk table count: %w", err)
	}
	buf := make([]byte, chunkTableEntrySize*len(entries))
	for i, e := range entries {
		off := i * chunkTableEntrySize
		binary.LittleEndian.PutUint64(buf[off:off+8], e.PointCount)
		binary.LittleEndian.PutUint64(buf[off+8:off+16], e.ByteCount)
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("laz: writing chunk table entries: %w", err)
	}
	return nil
}

// ReadChunkTable deserializes a table written by WriteChunkTable.
func ReadChunkTable(r io.Reader) ([]ChunkTableEntry, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("laz: reading chunk table count: %w", err)
	}
	n := int(binary.LittleEndian.Uint32(hdr[:]))
	if n > 0 {
		total, err := utils.SafeMultiply(uint64(n), chunkTableEntrySize)
		if err != nil {
			return nil, fmt.Errorf("laz: %w", err)
		}
		if err := utils.ValidateBufferSize(total, utils.MaxChunkSize, "chunk table"); err != nil {
			return nil, fmt.Errorf("laz: %w", err)
		}
	}
	entries := make([]ChunkTableEntry, n)
	buf := make([]byte, chunkTableEntrySize)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("laz: reading chunk table entry %d: %w", i, err)
		}
		entries[i] = ChunkTableEntry{
			PointCount: binary.LittleEndian.Uint64(buf[0:8]),
			ByteCount:  binary.LittleEndian.Uint64(buf[8:16]),
		}
	}
	return entries, nil
}
