package copc

import "github.com/copc-go/copc/internal/point"

// Point is one fully decoded COPC point in world coordinates.
type Point struct {
	X, Y, Z float64

	Intensity uint16

	ReturnNumber    uint8
	NumberOfReturns uint8

	ClassificationFlags uint8
	ScannerChannel      uint8
	ScanDirectionFlag   bool
	EdgeOfFlightLine    bool

	Classification uint8
	UserData       uint8
	ScanAngle      int16
	PointSourceID  uint16
	GPSTime        float64

	Color point.RGB14
	NIR   uint16
	Extra []byte
}

func toWorldPoint(h coordTransform, rec point.Record) Point {
	return Point{
		X: h.FromRawX(rec.X), Y: h.FromRawY(rec.Y), Z: h.FromRawZ(rec.Z),

		Intensity: rec.Intensity,

		ReturnNumber:    rec.ReturnNumber,
		NumberOfReturns: rec.NumberOfReturns,

		ClassificationFlags: rec.ClassificationFlags,
		ScannerChannel:      rec.ScannerChannel,
		ScanDirectionFlag:   rec.ScanDirectionFlag,
		EdgeOfFlightLine:    rec.EdgeOfFlightLine,

		Classification: rec.Classification,
		UserData:       rec.UserData,
		ScanAngle:      rec.ScanAngle,
		PointSourceID:  rec.PointSourceID,
		GPSTime:        rec.GPSTime,

		Color: rec.Color,
		NIR:   rec.NIR,
		Extra: rec.Extra,
	}
}

// coordTransform is the minimal scale/offset view needed to convert
// between raw quantized and world coordinates, satisfied by *lasio.Header.
type coordTransform interface {
	FromRawX(int32) float64
	FromRawY(int32) float64
	FromRawZ(int32) float64
	ToRawX(float64) int32
	ToRawY(float64) int32
	ToRawZ(float64) int32
}
