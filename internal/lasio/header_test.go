package lasio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleHeader() *Header {
	h := &Header{
		FileSourceID:      0,
		GlobalEncoding:    0x11,
		VersionMajor:      1,
		VersionMinor:      4,
		CreationDOY:       200,
		CreationYear:      2026,
		OffsetToPointData: 1500,
		NumVLRs:           2,
		PointFormatID:     7,
		PointRecordLength: 36,
		ScaleX:            0.001, ScaleY: 0.001, ScaleZ: 0.001,
		OffsetX: 100, OffsetY: 200, OffsetZ: 0,
		MaxX: 150, MinX: 50,
		MaxY: 250, MinY: 150,
		MaxZ: 30, MinZ: -10,
		StartOfFirstEVLR:     99999,
		NumEVLRs:             1,
		NumberOfPointRecords: 42,
	}
	copy(h.SystemID[:], "COPC-GO")
	copy(h.GeneratingSW[:], "copc-go test suite")
	h.NumberOfPointsByReturn[0] = 42
	return h
}

func TestHeaderRoundTrip(t *testing.T) {
	h := sampleHeader()
	buf := h.Marshal()
	require.Len(t, buf, HeaderSize)

	got, err := ParseHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h.GlobalEncoding, got.GlobalEncoding)
	require.Equal(t, h.PointFormatID, got.PointFormatID)
	require.InDelta(t, h.ScaleX, got.ScaleX, 1e-15)
	require.InDelta(t, h.MaxX, got.MaxX, 1e-9)
	require.InDelta(t, h.MinZ, got.MinZ, 1e-9)
	require.Equal(t, h.StartOfFirstEVLR, got.StartOfFirstEVLR)
	require.Equal(t, h.NumberOfPointRecords, got.NumberOfPointRecords)
	require.Equal(t, h.NumberOfPointsByReturn, got.NumberOfPointsByReturn)
}

func TestParseHeaderRejectsBadSignature(t *testing.T) {
	buf := sampleHeader().Marshal()
	buf[0] = 'X'
	_, err := ParseHeader(buf)
	require.Error(t, err)
}

func TestParseHeaderRejectsShortBuffer(t *testing.T) {
	_, err := ParseHeader(make([]byte, HeaderSize-1))
	require.Error(t, err)
}

func TestQuantizeRoundTrip(t *testing.T) {
	h := sampleHeader()
	raw := h.ToRawX(123.456)
	world := h.FromRawX(raw)
	require.InDelta(t, 123.456, world, h.ScaleX)
}
