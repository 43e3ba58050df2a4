// Package laz implements the LAZ 1.4 chunk framing COPC needs: the LAZ
// VLR's item-list descriptor, the manual chunk-table bookkeeping described
// in spec.md §4.3/§4.4, and the seam (CodecFactory) through which a real
// layered entropy codec for point formats 6-8 is injected. This package
// does not itself implement entropy coding — that is explicitly out of
// scope (spec.md §1, "a LAZ 1.4 layered entropy codec for point formats
// 6-8" is an external collaborator).
package laz

import "github.com/copc-go/copc/internal/point"

// ItemType identifies one entry in a LAZ VLR's item list. Numbering
// follows the LASzip convention of one code per (kind, version) pair.
type ItemType uint16

const (
	ItemPoint14   ItemType = 14
	ItemRGB14     ItemType = 12
	ItemRGBNIR14  ItemType = 13
	ItemByte14    ItemType = 10
)

// Item is one entry of a LAZ VLR's item list: a type, its on-disk size,
// and the codec version that produced it.
type Item struct {
	Type    ItemType
	Size    uint16
	Version uint16
}

// ItemSetFor builds the item list COPC requires for f: mandatory Point14,
// an optional color item, and a trailing extra-bytes item when f carries
// any (spec.md §4.6 step 3 and invariant 2).
func ItemSetFor(f point.Format) []Item {
	items := []Item{{Type: ItemPoint14, Size: point.Point14Size, Version: 4}}
	switch {
	case f.HasColor && f.HasNIR:
		items = append(items, Item{Type: ItemRGBNIR14, Size: point.RGB14Size + point.NIR14Size, Version: 4})
	case f.HasColor:
		items = append(items, Item{Type: ItemRGB14, Size: point.RGB14Size, Version: 4})
	}
	if f.ExtraBytes > 0 {
		items = append(items, Item{Type: ItemByte14, Size: f.ExtraBytes, Version: 3})
	}
	return items
}

// RecordLength returns the total point-record size implied by items —
// must equal point.Format.RecordLength() for a well-formed LAZ VLR.
func RecordLength(items []Item) uint16 {
	var n uint16
	for _, it := range items {
		n += it.Size
	}
	return n
}
