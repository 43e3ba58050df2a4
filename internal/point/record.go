package point

import "fmt"

// Record is one fully decoded COPC point: the mandatory Point14 core, an
// optional color/NIR item, and any trailing extra bytes carried verbatim.
type Record struct {
	Point14
	Color RGB14
	NIR   uint16
	Extra []byte
}

// Put serializes r into dst according to f. dst must be at least
// f.RecordLength() bytes.
func Put(dst []byte, f Format, r Record) {
	PutPoint14(dst[:Point14Size], r.Point14)
	off := Point14Size
	if f.HasColor {
		PutRGB14(dst[off:off+RGB14Size], r.Color)
		off += RGB14Size
	}
	if f.HasNIR {
		PutNIR14(dst[off:off+NIR14Size], r.NIR)
		off += NIR14Size
	}
	if f.ExtraBytes > 0 {
		copy(dst[off:off+int(f.ExtraBytes)], r.Extra)
	}
}

// Parse deserializes one record from src according to f. src must contain
// at least f.RecordLength() bytes; only that many are consumed.
func Parse(src []byte, f Format) (Record, error) {
	want := int(f.RecordLength())
	if len(src) < want {
		return Record{}, fmt.Errorf("point: record needs %d bytes, got %d", want, len(src))
	}
	var r Record
	r.Point14 = ParsePoint14(src[:Point14Size])
	off := Point14Size
	if f.HasColor {
		r.Color = ParseRGB14(src[off : off+RGB14Size])
		off += RGB14Size
	}
	if f.HasNIR {
		r.NIR = ParseNIR14(src[off : off+NIR14Size])
		off += NIR14Size
	}
	if f.ExtraBytes > 0 {
		r.Extra = append([]byte(nil), src[off:off+int(f.ExtraBytes)]...)
	}
	return r, nil
}
