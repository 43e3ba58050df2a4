package point

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatFromPDRF(t *testing.T) {
	f, err := FromPDRF(7, 36)
	require.NoError(t, err)
	require.True(t, f.HasColor)
	require.False(t, f.HasNIR)
	require.Equal(t, uint16(36), f.RecordLength())

	f8, err := FromPDRF(8, 40)
	require.NoError(t, err)
	require.True(t, f8.HasColor)
	require.True(t, f8.HasNIR)
	require.Equal(t, uint16(2), f8.ExtraBytes)
}

func TestFormatUpgrade1To6(t *testing.T) {
	// legacy format 1, record length 28 (no extra bytes)
	f, err := FromPDRF(1, 28)
	require.NoError(t, err)
	require.Equal(t, uint8(6), f.PDRF)
	require.False(t, f.HasColor)
	require.Equal(t, uint16(0), f.ExtraBytes)
	require.Equal(t, uint16(Point14Size), f.RecordLength())
}

func TestFormatUpgrade3To7(t *testing.T) {
	// legacy format 3 with 5 extra bytes: base 34 + 5 = 39
	f, err := FromPDRF(3, 39)
	require.NoError(t, err)
	require.Equal(t, uint8(7), f.PDRF)
	require.True(t, f.HasColor)
	require.Equal(t, uint16(5), f.ExtraBytes)
	require.Equal(t, uint16(Point14Size+RGB14Size+5), f.RecordLength())
}

func TestFormatRejectsUnsupported(t *testing.T) {
	_, err := FromPDRF(2, 26)
	require.Error(t, err)
}

func TestRecordRoundTripFormat8(t *testing.T) {
	f := Format{PDRF: 8, HasColor: true, HasNIR: true, ExtraBytes: 4}
	r := Record{
		Point14: Point14{
			X: 1000, Y: -2000, Z: 300,
			Intensity:          512,
			ReturnNumber:       1,
			NumberOfReturns:    2,
			ClassificationFlags: 3,
			ScannerChannel:      1,
			ScanDirectionFlag:   true,
			EdgeOfFlightLine:    false,
			Classification:      5,
			UserData:            7,
			ScanAngle:           -100,
			PointSourceID:       42,
			GPSTime:             123456.789,
		},
		Color: RGB14{Red: 1000, Green: 2000, Blue: 3000},
		NIR:   4000,
		Extra: []byte{1, 2, 3, 4},
	}

	buf := make([]byte, f.RecordLength())
	Put(buf, f, r)

	got, err := Parse(buf, f)
	require.NoError(t, err)
	require.Equal(t, r.Point14, got.Point14)
	require.Equal(t, r.Color, got.Color)
	require.Equal(t, r.NIR, got.NIR)
	require.Equal(t, r.Extra, got.Extra)
}

func TestRecordRejectsShortBuffer(t *testing.T) {
	f := Format{PDRF: 6}
	_, err := Parse(make([]byte, Point14Size-1), f)
	require.Error(t, err)
}
