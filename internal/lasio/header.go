// Package lasio implements the minimal LAS 1.4 public header block and
// (extended) variable length record framing COPC needs to host its
// container format. It is not a general-purpose LAS reader/writer: it
// carries the point format byte without interpreting it (the accepted
// formats are decided in internal/point), and there is no support for
// waveform packet payloads beyond forwarding their VLR bytes untouched.
package lasio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// HeaderSize is the fixed LAS 1.4 public header block size (spec.md §6).
const HeaderSize = 375

// ErrHeaderSizeMismatch is returned by ParseHeader when the on-disk
// header_size field doesn't match the fixed LAS 1.4 layout this package
// implements. The copc package wraps this as ErrHeaderNot375Bytes.
var ErrHeaderSizeMismatch = errors.New("lasio: header_size field does not match the LAS 1.4 fixed layout")

// Signature is the required LAS file signature.
const Signature = "LASF"

// VLRHeaderSize is the 54-byte VLR header preceding every VLR's payload.
const VLRHeaderSize = 54

// EVLRHeaderSize is the 60-byte EVLR header preceding every EVLR's payload
// (identical fields to a VLR header, but record_length_after_header is a
// u64 instead of a u16, to allow payloads >64KiB).
const EVLRHeaderSize = 60

// Header is the parsed LAS 1.4 public header block, plus the running
// counters a writer mutates as points are added.
type Header struct {
	FileSourceID   uint16
	GlobalEncoding uint16
	ProjectGUID    [16]byte // GUID data 1-4, kept opaque
	VersionMajor   uint8
	VersionMinor   uint8
	SystemID       [32]byte
	GeneratingSW   [32]byte
	CreationDOY    uint16
	CreationYear   uint16

	OffsetToPointData uint32
	NumVLRs           uint32
	PointFormatID     uint8
	PointRecordLength uint16

	ScaleX, ScaleY, ScaleZ    float64
	OffsetX, OffsetY, OffsetZ float64
	MaxX, MinX                float64
	MaxY, MinY                float64
	MaxZ, MinZ                float64

	StartOfWaveformData uint64
	StartOfFirstEVLR    uint64
	NumEVLRs            uint32

	NumberOfPointRecords    uint64
	NumberOfPointsByReturn  [15]uint64
}

// Bounds returns the header's (unscaled, world-coordinate) bounding box.
func (h *Header) Bounds() (minX, minY, minZ, maxX, maxY, maxZ float64) {
	return h.MinX, h.MinY, h.MinZ, h.MaxX, h.MaxY, h.MaxZ
}

// ToRaw quantizes a world coordinate into the header's raw integer frame:
// raw = round((world - offset) / scale).
func (h *Header) ToRawX(world float64) int32 { return quantize(world, h.OffsetX, h.ScaleX) }
func (h *Header) ToRawY(world float64) int32 { return quantize(world, h.OffsetY, h.ScaleY) }
func (h *Header) ToRawZ(world float64) int32 { return quantize(world, h.OffsetZ, h.ScaleZ) }

// FromRawX/Y/Z dequantize a raw integer into a world coordinate.
func (h *Header) FromRawX(raw int32) float64 { return float64(raw)*h.ScaleX + h.OffsetX }
func (h *Header) FromRawY(raw int32) float64 { return float64(raw)*h.ScaleY + h.OffsetY }
func (h *Header) FromRawZ(raw int32) float64 { return float64(raw)*h.ScaleZ + h.OffsetZ }

func quantize(world, offset, scale float64) int32 {
	return int32(roundHalfAwayFromZero((world - offset) / scale))
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}

// ParseHeader parses the fixed 375-byte LAS 1.4 public header block from buf.
func ParseHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("lasio: header needs %d bytes, got %d", HeaderSize, len(buf))
	}
	if string(buf[0:4]) != Signature {
		return nil, fmt.Errorf("lasio: bad file signature %q", buf[0:4])
	}
	le := binary.LittleEndian
	h := &Header{}
	h.FileSourceID = le.Uint16(buf[4:6])
	h.GlobalEncoding = le.Uint16(buf[6:8])
	copy(h.ProjectGUID[:], buf[8:24])
	h.VersionMajor = buf[24]
	h.VersionMinor = buf[25]
	copy(h.SystemID[:], buf[26:58])
	copy(h.GeneratingSW[:], buf[58:90])
	h.CreationDOY = le.Uint16(buf[90:92])
	h.CreationYear = le.Uint16(buf[92:94])
	headerSize := le.Uint16(buf[94:96])
	if headerSize != HeaderSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrHeaderSizeMismatch, headerSize, HeaderSize)
	}
	h.OffsetToPointData = le.Uint32(buf[96:100])
	h.NumVLRs = le.Uint32(buf[100:104])
	h.PointFormatID = buf[104]
	h.PointRecordLength = le.Uint16(buf[105:107])
	// bytes [107:111) legacy point count, [111:131) legacy points-by-return: superseded
	// by the 1.4 u64 fields below and not read.
	h.ScaleX = le64f(buf[131:139])
	h.ScaleY = le64f(buf[139:147])
	h.ScaleZ = le64f(buf[147:155])
	h.OffsetX = le64f(buf[155:163])
	h.OffsetY = le64f(buf[163:171])
	h.OffsetZ = le64f(buf[171:179])
	h.MaxX = le64f(buf[179:187])
	h.MinX = le64f(buf[187:195])
	h.MaxY = le64f(buf[195:203])
	h.MinY = le64f(buf[203:211])
	h.MaxZ = le64f(buf[211:219])
	h.MinZ = le64f(buf[219:227])
	h.StartOfWaveformData = le.Uint64(buf[227:235])
	h.StartOfFirstEVLR = le.Uint64(buf[235:243])
	h.NumEVLRs = le.Uint32(buf[243:247])
	h.NumberOfPointRecords = le.Uint64(buf[247:255])
	for i := 0; i < 15; i++ {
		h.NumberOfPointsByReturn[i] = le.Uint64(buf[255+i*8 : 263+i*8])
	}
	return h, nil
}

// Marshal serializes h into the fixed 375-byte LAS 1.4 public header block.
func (h *Header) Marshal() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], Signature)
	le := binary.LittleEndian
	le.PutUint16(buf[4:6], h.FileSourceID)
	le.PutUint16(buf[6:8], h.GlobalEncoding)
	copy(buf[8:24], h.ProjectGUID[:])
	buf[24] = h.VersionMajor
	buf[25] = h.VersionMinor
	copy(buf[26:58], h.SystemID[:])
	copy(buf[58:90], h.GeneratingSW[:])
	le.PutUint16(buf[90:92], h.CreationDOY)
	le.PutUint16(buf[92:94], h.CreationYear)
	le.PutUint16(buf[94:96], HeaderSize)
	le.PutUint32(buf[96:100], h.OffsetToPointData)
	le.PutUint32(buf[100:104], h.NumVLRs)
	buf[104] = h.PointFormatID
	le.PutUint16(buf[105:107], h.PointRecordLength)
	// legacy fields [107:131) are left zero: a COPC file always has >0 EVLRs
	// worth of hierarchy and readers are required to use the 1.4 u64 counters.
	putLE64f(buf[131:139], h.ScaleX)
	putLE64f(buf[139:147], h.ScaleY)
	putLE64f(buf[147:155], h.ScaleZ)
	putLE64f(buf[155:163], h.OffsetX)
	putLE64f(buf[163:171], h.OffsetY)
	putLE64f(buf[171:179], h.OffsetZ)
	putLE64f(buf[179:187], h.MaxX)
	putLE64f(buf[187:195], h.MinX)
	putLE64f(buf[195:203], h.MaxY)
	putLE64f(buf[203:211], h.MinY)
	putLE64f(buf[211:219], h.MaxZ)
	putLE64f(buf[219:227], h.MinZ)
	le.PutUint64(buf[227:235], h.StartOfWaveformData)
	le.PutUint64(buf[235:243], h.StartOfFirstEVLR)
	le.PutUint32(buf[243:247], h.NumEVLRs)
	le.PutUint64(buf[247:255], h.NumberOfPointRecords)
	for i := 0; i < 15; i++ {
		le.PutUint64(buf[255+i*8:263+i*8], h.NumberOfPointsByReturn[i])
	}
	return buf
}

func le64f(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func putLE64f(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}
