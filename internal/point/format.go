// Package point implements the LAS 1.4 extended point record formats COPC
// restricts itself to (6, 7, 8) plus the write-time upgrade from the
// legacy formats 1 and 3. Records hold raw quantized coordinates; the
// raw<->world conversion is done with the LAS header's scale and offset.
package point

import "fmt"

// Format describes the binary shape of one point record: the mandatory
// Point14 core, the optional color/NIR item, and a trailing extra-bytes
// item whose length is carried separately (it depends on the source
// header's record length, not on the PDRF alone).
type Format struct {
	PDRF       uint8
	HasColor   bool
	HasNIR     bool
	ExtraBytes uint16
}

// RecordLength returns the total on-disk size of one point record for f.
func (f Format) RecordLength() uint16 {
	n := uint16(Point14Size)
	if f.HasColor {
		n += RGB14Size
	}
	if f.HasNIR {
		n += NIR14Size
	}
	return n + f.ExtraBytes
}

// FromPDRF derives a Format from a raw LAS point data record format byte
// and the extra-bytes count implied by (record_length - base size). Only
// formats 1, 3, 6, 7, 8 are accepted; everything else is unsupported, per
// spec.md §4.6 ("rest -> rejected as unsupported").
func FromPDRF(pdrf uint8, recordLength uint16) (Format, error) {
	switch pdrf & 0x7F { // high bits mark compression; masked off here
	case 1:
		return upgradeFormat(6, recordLength, pointRecord1Size)
	case 3:
		return upgradeFormat(7, recordLength, pointRecord3Size)
	case 6:
		return baseFormat(6, recordLength)
	case 7:
		return baseFormat(7, recordLength)
	case 8:
		return baseFormat(8, recordLength)
	default:
		return Format{}, fmt.Errorf("point: unsupported point data record format %d", pdrf&0x7F)
	}
}

func baseFormat(pdrf uint8, recordLength uint16) (Format, error) {
	f := Format{PDRF: pdrf, HasColor: pdrf >= 7, HasNIR: pdrf == 8}
	base := f.RecordLength()
	if recordLength < base {
		return Format{}, fmt.Errorf("point: record length %d too short for format %d (need >= %d)", recordLength, pdrf, base)
	}
	f.ExtraBytes = recordLength - base
	return f, nil
}

// upgradeFormat computes the Format a legacy PDRF becomes after the
// writer's 1->6 / 3->7 upgrade (spec.md §4.6): the legacy record's extra
// bytes (anything past its own base size) are preserved and shifted onto
// the wider Point14 base, and the upgraded format's own base size is
// owed 2 extra bytes relative to the legacy layout.
func upgradeFormat(upgradedPDRF uint8, legacyRecordLength uint16, legacyBaseSize uint16) (Format, error) {
	if legacyRecordLength < legacyBaseSize {
		return Format{}, fmt.Errorf("point: record length %d too short for legacy format (need >= %d)", legacyRecordLength, legacyBaseSize)
	}
	extra := legacyRecordLength - legacyBaseSize
	f := Format{PDRF: upgradedPDRF, HasColor: upgradedPDRF >= 7, HasNIR: upgradedPDRF == 8, ExtraBytes: extra}
	return f, nil
}

// Legacy (pre-1.4) base record sizes, excluding extra bytes: format 1
// (Point10 + GPS time) and format 3 (Point10 + GPS time + RGB).
const (
	pointRecord1Size = 28
	pointRecord3Size = 34
)
