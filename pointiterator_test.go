package copc

import (
	"testing"

	"github.com/copc-go/copc/internal/iosrc"
	"github.com/stretchr/testify/require"
)

func TestPointIteratorBoundsFilter(t *testing.T) {
	sink := &memSink{}
	w, err := New(sink, sampleHeader(), 5, 20)
	require.NoError(t, err)
	points := syntheticPoints(300)
	require.NoError(t, w.Write(NewSliceSource(points), 300))

	r, err := Open(iosrc.FromReadSeeker(sink))
	require.NoError(t, err)

	want := BoundsWithin(Bounds{MinX: 0, MinY: 0, MinZ: 0, MaxX: 10, MaxY: 10, MaxZ: 8})
	it, err := r.Points(LodAll(), want)
	require.NoError(t, err)

	var got int
	for it.Next() {
		p := it.Point()
		require.True(t, want.bounds.ContainsPoint(p.X, p.Y, p.Z))
		got++
	}
	require.NoError(t, it.Err())
	require.Greater(t, got, 0)

	var wantCount int
	for _, p := range points {
		if want.bounds.ContainsPoint(p.X, p.Y, p.Z) {
			wantCount++
		}
	}
	require.Equal(t, wantCount, got)
}

func TestPointIteratorRemainingIsUpperBound(t *testing.T) {
	sink := &memSink{}
	w, err := New(sink, sampleHeader(), 5, 20)
	require.NoError(t, err)
	require.NoError(t, w.Write(NewSliceSource(syntheticPoints(50)), 50))

	r, err := Open(iosrc.FromReadSeeker(sink))
	require.NoError(t, err)

	it, err := r.Points(LodAll(), BoundsAll())
	require.NoError(t, err)
	require.Equal(t, uint64(50), it.Remaining())

	var n int
	for it.Next() {
		n++
	}
	require.NoError(t, it.Err())
	require.Equal(t, 50, n)
	require.Equal(t, uint64(0), it.Remaining())
}
