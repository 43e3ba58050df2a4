package copc

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/copc-go/copc/internal/utils"
)

// EntrySize is the exact on-disk size of a HierarchyEntry, per spec.md §6.
const EntrySize = 32

// HierarchyEntry is one node's record in the EPT hierarchy: either a leaf
// pointing at a compressed point chunk, a pointer to a child hierarchy page,
// or an explicitly empty node.
type HierarchyEntry struct {
	Key VoxelKey

	// Offset is an absolute file offset: of the point chunk when
	// PointCount > 0, or of a child hierarchy page when PointCount == -1.
	// Always 0 when PointCount == 0.
	Offset uint64

	// ByteSize is the chunk's (or sub-page's) compressed byte length.
	// Always 0 when PointCount == 0.
	ByteSize int32

	// PointCount > 0: Offset/ByteSize locate a point chunk with this many points.
	// PointCount == -1: Offset/ByteSize locate a sub-page of further entries.
	// PointCount == 0: node is empty; descendants may still exist.
	PointCount int32
}

// IsSubPagePointer reports whether this entry points at another hierarchy page.
func (e HierarchyEntry) IsSubPagePointer() bool { return e.PointCount == -1 }

// IsEmpty reports whether this entry carries no points of its own.
func (e HierarchyEntry) IsEmpty() bool { return e.PointCount == 0 }

// PutEntry serializes e into dst, which must be at least EntrySize bytes.
func PutEntry(dst []byte, e HierarchyEntry) {
	binary.LittleEndian.PutUint32(dst[0:4], uint32(e.Key.Level))
	binary.LittleEndian.PutUint32(dst[4:8], uint32(e.Key.X))
	binary.LittleEndian.PutUint32(dst[8:12], uint32(e.Key.Y))
	binary.LittleEndian.PutUint32(dst[12:16], uint32(e.Key.Z))
	binary.LittleEndian.PutUint64(dst[16:24], e.Offset)
	binary.LittleEndian.PutUint32(dst[24:28], uint32(e.ByteSize))
	binary.LittleEndian.PutUint32(dst[28:32], uint32(e.PointCount))
}

// ParseEntry deserializes an entry from the first EntrySize bytes of src.
func ParseEntry(src []byte) (HierarchyEntry, error) {
	if len(src) < EntrySize {
		return HierarchyEntry{}, fmt.Errorf("%w: hierarchy entry needs %d bytes, got %d", ErrCorruptMetadata, EntrySize, len(src))
	}
	return HierarchyEntry{
		Key: VoxelKey{
			Level: int32(binary.LittleEndian.Uint32(src[0:4])),
			X:     int32(binary.LittleEndian.Uint32(src[4:8])),
			Y:     int32(binary.LittleEndian.Uint32(src[8:12])),
			Z:     int32(binary.LittleEndian.Uint32(src[12:16])),
		},
		Offset:     binary.LittleEndian.Uint64(src[16:24]),
		ByteSize:   int32(binary.LittleEndian.Uint32(src[24:28])),
		PointCount: int32(binary.LittleEndian.Uint32(src[28:32])),
	}, nil
}

// HierarchyPage is a packed sequence of HierarchyEntry, as stored in the
// root COPC hierarchy EVLR (or a sub-page reached through a -1 entry).
type HierarchyPage struct {
	Entries []HierarchyEntry
}

// ByteSize returns the page's serialized size: 32 bytes per entry.
func (p HierarchyPage) ByteSize() uint64 {
	return uint64(len(p.Entries)) * EntrySize
}

// Marshal serializes the page as a concatenation of 32-byte entries.
func (p HierarchyPage) Marshal() []byte {
	buf := make([]byte, len(p.Entries)*EntrySize)
	for i, e := range p.Entries {
		PutEntry(buf[i*EntrySize:(i+1)*EntrySize], e)
	}
	return buf
}

// ReadHierarchyPage stream-parses a page of pageSize bytes from r, without
// copying the whole page into memory at once (spec.md §4.2: "implementers
// SHOULD stream-parse pages rather than copy them entirely where
// practical").
func ReadHierarchyPage(r io.Reader, pageSize uint64) (HierarchyPage, error) {
	if pageSize%EntrySize != 0 {
		return HierarchyPage{}, fmt.Errorf("%w: hierarchy page size %d is not a multiple of %d", ErrCorruptMetadata, pageSize, EntrySize)
	}
	if err := utils.ValidateBufferSize(pageSize, utils.MaxHierarchyPageSize, "hierarchy page"); err != nil && pageSize != 0 {
		return HierarchyPage{}, fmt.Errorf("%w: %v", ErrCorruptMetadata, err)
	}

	n := int(pageSize / EntrySize)
	entries := make([]HierarchyEntry, 0, n)
	buf := make([]byte, EntrySize)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return HierarchyPage{}, fmt.Errorf("%w: reading entry %d: %v", ErrCorruptMetadata, i, err)
		}
		e, err := ParseEntry(buf)
		if err != nil {
			return HierarchyPage{}, err
		}
		entries = append(entries, e)
	}
	return HierarchyPage{Entries: entries}, nil
}
