package laz

import (
	"encoding/binary"
	"fmt"
)

// VariableChunkSize is the chunk_size sentinel (all bits set) meaning
// "chunks are independently sized, discoverable only through the chunk
// table" — the mode COPC always uses (spec.md invariant 2).
const VariableChunkSize = -1

// Vlr is the parsed payload of the "laszip encoded"/22204 VLR: the codec
// identification fields plus the item list describing each point record's
// layout.
type Vlr struct {
	Compressor     uint16
	Coder          uint16
	VersionMajor   uint8
	VersionMinor   uint8
	VersionRevision uint16
	Options        uint32
	ChunkSize      int32
	NumPoints      int64
	NumBytes       int64
	Items          []Item
}

// NewVlr builds a Vlr for the given item set with variable-size chunking
// enabled, as COPC requires.
func NewVlr(items []Item) Vlr {
	return Vlr{
		Compressor:      2, // "layered", per LASzip's point-14 compressor family
		VersionMajor:    3,
		VersionMinor:    4,
		VersionRevision: 3,
		ChunkSize:       VariableChunkSize,
		NumPoints:       -1,
		NumBytes:        -1,
		Items:           items,
	}
}

// VariableChunked reports whether v uses variable-size chunking.
func (v Vlr) VariableChunked() bool { return v.ChunkSize == VariableChunkSize }

// Marshal serializes v as the LAZ VLR payload.
func (v Vlr) Marshal() []byte {
	buf := make([]byte, 34+6*len(v.Items))
	le := binary.LittleEndian
	le.PutUint16(buf[0:2], v.Compressor)
	le.PutUint16(buf[2:4], v.Coder)
	buf[4] = v.VersionMajor
	buf[5] = v.VersionMinor
	le.PutUint16(buf[6:8], v.VersionRevision)
	le.PutUint32(buf[8:12], v.Options)
	le.PutUint32(buf[12:16], uint32(v.ChunkSize))
	le.PutUint64(buf[16:24], uint64(v.NumPoints))
	le.PutUint64(buf[24:32], uint64(v.NumBytes))
	le.PutUint16(buf[32:34], uint16(len(v.Items)))
	off := 34
	for _, it := range v.Items {
		le.PutUint16(buf[off:off+2], uint16(it.Type))
		le.PutUint16(buf[off+2:off+4], it.Size)
		le.PutUint16(buf[off+4:off+6], it.Version)
		off += 6
	}
	return buf
}

// ParseVlr deserializes a Vlr from a LAZ VLR payload.
func ParseVlr(src []byte) (Vlr, error) {
	if len(src) < 34 {
		return Vlr{}, fmt.Errorf("laz: vlr payload needs at least 34 bytes, got %d", len(src))
	}
	le := binary.LittleEndian
	var v Vlr
	v.Compressor = le.Uint16(src[0:2])
	v.Coder = le.Uint16(src[2:4])
	v.VersionMajor = src[4]
	v.VersionMinor = src[5]
	v.VersionRevision = le.Uint16(src[6:8])
	v.Options = le.Uint32(src[8:12])
	v.ChunkSize = int32(le.Uint32(src[12:16]))
	v.NumPoints = int64(le.Uint64(src[16:24]))
	v.NumBytes = int64(le.Uint64(src[24:32]))
	numItems := int(le.Uint16(src[32:34]))

	need := 34 + numItems*6
	if len(src) < need {
		return Vlr{}, fmt.Errorf("laz: vlr payload needs %d bytes for %d items, got %d", need, numItems, len(src))
	}
	v.Items = make([]Item, numItems)
	off := 34
	for i := 0; i < numItems; i++ {
		v.Items[i] = Item{
			Type:    ItemType(le.Uint16(src[off : off+2])),
			Size:    le.Uint16(src[off+2 : off+4]),
			Version: le.Uint16(src[off+4 : off+6]),
		}
		off += 6
	}
	return v, nil
}
