package copc

import (
	"io"
	"testing"

	"github.com/copc-go/copc/internal/iosrc"
	"github.com/copc-go/copc/internal/lasio"
	"github.com/stretchr/testify/require"
)

// memSink is a minimal io.WriteSeeker/io.ReadSeeker over an in-memory
// buffer, standing in for an *os.File in tests.
type memSink struct {
	data []byte
	pos  int64
}

func (m *memSink) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.data)) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}
	n := copy(m.data[m.pos:end], p)
	m.pos = end
	return n, nil
}

func (m *memSink) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memSink) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = int64(len(m.data)) + offset
	}
	return m.pos, nil
}

func sampleHeader() *lasio.Header {
	return &lasio.Header{
		VersionMajor:      1,
		VersionMinor:      4,
		PointFormatID:     6,
		PointRecordLength: 30,
		ScaleX:            0.01, ScaleY: 0.01, ScaleZ: 0.01,
	}
}

func syntheticPoints(n int) []Point {
	points := make([]Point, n)
	for i := 0; i < n; i++ {
		points[i] = Point{
			X: float64(i % 50), Y: float64(i % 7), Z: float64(i % 17),
			Intensity: uint16(i % 256), ReturnNumber: 1, NumberOfReturns: 1,
			Classification: uint8(i % 32), GPSTime: float64(i),
		}
	}
	return points
}

func TestWriterReaderRoundTrip(t *testing.T) {
	sink := &memSink{}
	w, err := New(sink, sampleHeader(), 10, 50, WithRandomSeed(7))
	require.NoError(t, err)

	points := syntheticPoints(500)
	require.NoError(t, w.Write(NewSliceSource(points), uint64(len(points))))

	r, err := Open(iosrc.FromReadSeeker(sink))
	require.NoError(t, err)
	require.Equal(t, uint64(len(points)), r.PointCount())

	it, err := r.Points(LodAll(), BoundsAll())
	require.NoError(t, err)

	var got []Point
	for it.Next() {
		got = append(got, it.Point())
	}
	require.NoError(t, it.Err())
	require.Len(t, got, len(points))

	seen := make(map[int]bool)
	for _, p := range got {
		idx := int(p.GPSTime)
		require.False(t, seen[idx], "duplicate point %d", idx)
		seen[idx] = true
		want := points[idx]
		require.InDelta(t, want.X, p.X, 0.01)
		require.InDelta(t, want.Y, p.Y, 0.01)
		require.InDelta(t, want.Z, p.Z, 0.01)
		require.Equal(t, want.Intensity, p.Intensity)
		require.Equal(t, want.Classification, p.Classification)
	}
	require.Len(t, seen, len(points))
}

func TestWriterGreedyStrategySmallHint(t *testing.T) {
	sink := &memSink{}
	w, err := New(sink, sampleHeader(), 10, 20)
	require.NoError(t, err)

	points := syntheticPoints(15)
	require.NoError(t, w.Write(NewSliceSource(points), uint64(len(points))))

	r, err := Open(iosrc.FromReadSeeker(sink))
	require.NoError(t, err)
	require.Equal(t, uint64(15), r.PointCount())
}

func TestWriterRejectsInvalidNodeSize(t *testing.T) {
	sink := &memSink{}
	_, err := New(sink, sampleHeader(), 0, 20)
	require.ErrorIs(t, err, ErrInvalidNodeSize)

	_, err = New(sink, sampleHeader(), 20, 20)
	require.ErrorIs(t, err, ErrInvalidNodeSize)
}

func TestWriterEmptyInputReturnsErrEmptyIterator(t *testing.T) {
	sink := &memSink{}
	w, err := New(sink, sampleHeader(), 10, 50)
	require.NoError(t, err)

	err = w.Write(NewSliceSource(nil), 0)
	require.ErrorIs(t, err, ErrEmptyIterator)
}

func TestWriterAllPointsRejectedReturnsErrEmptyCopcFile(t *testing.T) {
	sink := &memSink{}
	header := sampleHeader()
	header.MinX, header.MinY, header.MinZ = -1, -1, -1
	header.MaxX, header.MaxY, header.MaxZ = 1, 1, 1
	w, err := New(sink, header, 10, 50)
	require.NoError(t, err)

	// Every point below falls outside the header's declared bounds, so
	// the source yields points but none are ever placed into the octree.
	points := []Point{{X: 100, Y: 100, Z: 100}, {X: 200, Y: 200, Z: 200}}
	err = w.Write(NewSliceSource(points), 0)
	require.ErrorIs(t, err, ErrEmptyCopcFile)
}

func TestWriterAutoBoundsPrepass(t *testing.T) {
	sink := &memSink{}
	header := sampleHeader() // MinX..MaxZ left zero: triggers auto-bounds prepass
	w, err := New(sink, header, 10, 50)
	require.NoError(t, err)

	points := syntheticPoints(100)
	require.NoError(t, w.Write(NewSliceSource(points), 0))

	r, err := Open(iosrc.FromReadSeeker(sink))
	require.NoError(t, err)
	require.Equal(t, uint64(100), r.PointCount())
	require.True(t, r.CopcInfo().RootBounds().Valid())
}

func TestWriterClosedAfterWrite(t *testing.T) {
	sink := &memSink{}
	w, err := New(sink, sampleHeader(), 10, 50)
	require.NoError(t, err)

	require.NoError(t, w.Write(NewSliceSource(syntheticPoints(5)), 5))
	require.ErrorIs(t, w.Write(NewSliceSource(syntheticPoints(1)), 1), ErrClosedWriter)
	require.ErrorIs(t, w.Close(), ErrClosedWriter)
}
