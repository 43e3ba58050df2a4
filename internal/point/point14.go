package point

import (
	"encoding/binary"
	"math"
)

// Point14Size is the on-disk size of the mandatory Point14 item (LAS 1.4
// extended point formats 6, 7, 8 all share this core).
const Point14Size = 30

// RGB14Size is the on-disk size of the RGB14 item.
const RGB14Size = 6

// NIR14Size is the on-disk size of the near-infrared channel appended to
// RGB14 to form RGBNIR14 (so RGBNIR14's on-disk size is RGB14Size+NIR14Size).
const NIR14Size = 2

// Point14 is the mandatory core of every COPC point record: raw quantized
// coordinates plus the LAS 1.4 extended return/classification/scan fields.
type Point14 struct {
	X, Y, Z int32

	Intensity uint16

	ReturnNumber    uint8 // 4 bits
	NumberOfReturns uint8 // 4 bits

	ClassificationFlags uint8 // 4 bits
	ScannerChannel      uint8 // 2 bits
	ScanDirectionFlag   bool
	EdgeOfFlightLine    bool

	Classification uint8
	UserData       uint8
	ScanAngle      int16
	PointSourceID  uint16
	GPSTime        float64
}

// PutPoint14 serializes p into dst, which must be at least Point14Size bytes.
func PutPoint14(dst []byte, p Point14) {
	le := binary.LittleEndian
	le.PutUint32(dst[0:4], uint32(p.X))
	le.PutUint32(dst[4:8], uint32(p.Y))
	le.PutUint32(dst[8:12], uint32(p.Z))
	le.PutUint16(dst[12:14], p.Intensity)

	dst[14] = (p.ReturnNumber & 0x0F) | ((p.NumberOfReturns & 0x0F) << 4)

	var flags uint8
	flags = p.ClassificationFlags & 0x0F
	flags |= (p.ScannerChannel & 0x03) << 4
	if p.ScanDirectionFlag {
		flags |= 1 << 6
	}
	if p.EdgeOfFlightLine {
		flags |= 1 << 7
	}
	dst[15] = flags

	dst[16] = p.Classification
	dst[17] = p.UserData
	le.PutUint16(dst[18:20], uint16(p.ScanAngle))
	le.PutUint16(dst[20:22], p.PointSourceID)
	binary.LittleEndian.PutUint64(dst[22:30], math.Float64bits(p.GPSTime))
}

// ParsePoint14 deserializes a Point14 from the first Point14Size bytes of src.
func ParsePoint14(src []byte) Point14 {
	le := binary.LittleEndian
	var p Point14
	p.X = int32(le.Uint32(src[0:4]))
	p.Y = int32(le.Uint32(src[4:8]))
	p.Z = int32(le.Uint32(src[8:12]))
	p.Intensity = le.Uint16(src[12:14])

	p.ReturnNumber = src[14] & 0x0F
	p.NumberOfReturns = (src[14] >> 4) & 0x0F

	flags := src[15]
	p.ClassificationFlags = flags & 0x0F
	p.ScannerChannel = (flags >> 4) & 0x03
	p.ScanDirectionFlag = flags&(1<<6) != 0
	p.EdgeOfFlightLine = flags&(1<<7) != 0

	p.Classification = src[16]
	p.UserData = src[17]
	p.ScanAngle = int16(le.Uint16(src[18:20]))
	p.PointSourceID = le.Uint16(src[20:22])
	p.GPSTime = math.Float64frombits(le.Uint64(src[22:30]))
	return p
}

// RGB14 is the optional 16-bit-per-channel color item.
type RGB14 struct {
	Red, Green, Blue uint16
}

// PutRGB14 serializes c into dst, which must be at least RGB14Size bytes.
func PutRGB14(dst []byte, c RGB14) {
	le := binary.LittleEndian
	le.PutUint16(dst[0:2], c.Red)
	le.PutUint16(dst[2:4], c.Green)
	le.PutUint16(dst[4:6], c.Blue)
}

// ParseRGB14 deserializes an RGB14 from the first RGB14Size bytes of src.
func ParseRGB14(src []byte) RGB14 {
	le := binary.LittleEndian
	return RGB14{Red: le.Uint16(src[0:2]), Green: le.Uint16(src[2:4]), Blue: le.Uint16(src[4:6])}
}

// PutNIR14 serializes the near-infrared channel into dst (NIR14Size bytes).
func PutNIR14(dst []byte, nir uint16) {
	binary.LittleEndian.PutUint16(dst[0:2], nir)
}

// ParseNIR14 deserializes the near-infrared channel from src (NIR14Size bytes).
func ParseNIR14(src []byte) uint16 {
	return binary.LittleEndian.Uint16(src[0:2])
}
