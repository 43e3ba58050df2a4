package copc

import (
	"math"
	"testing"

	"github.com/copc-go/copc/internal/iosrc"
	"github.com/stretchr/testify/require"
)

func TestLodSelectionRangeAll(t *testing.T) {
	lmin, lmax, err := LodAll().Range(1.0)
	require.NoError(t, err)
	require.Equal(t, int32(0), lmin)
	require.Equal(t, int32(math.MaxInt32), lmax)
}

func TestLodSelectionRangeLevel(t *testing.T) {
	lmin, lmax, err := LodLevel(3).Range(1.0)
	require.NoError(t, err)
	require.Equal(t, int32(3), lmin)
	require.Equal(t, int32(4), lmax)
}

func TestLodSelectionRangeLevelMinMax(t *testing.T) {
	lmin, lmax, err := LodLevelMinMax(2, 5).Range(1.0)
	require.NoError(t, err)
	require.Equal(t, int32(2), lmin)
	require.Equal(t, int32(5), lmax)

	_, _, err = LodLevelMinMax(5, 2).Range(1.0)
	require.Error(t, err)
}

func TestLodSelectionRangeResolutionMonotonic(t *testing.T) {
	// Finer (smaller) resolution must never yield a smaller level range
	// than a coarser one (testable property 7).
	_, coarseMax, err := LodResolution(1.0).Range(8.0)
	require.NoError(t, err)
	_, fineMax, err := LodResolution(0.1).Range(8.0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, fineMax, coarseMax)
}

func TestLodSelectionRangeResolutionRejectsInvalid(t *testing.T) {
	_, _, err := LodResolution(0).Range(8.0)
	require.ErrorIs(t, err, ErrInvalidResolution)

	_, _, err = LodResolution(-1).Range(8.0)
	require.ErrorIs(t, err, ErrInvalidResolution)

	_, _, err = LodResolution(math.NaN()).Range(8.0)
	require.ErrorIs(t, err, ErrInvalidResolution)
}

func TestPlanQueryAscendingOffsets(t *testing.T) {
	sink := &memSink{}
	w, err := New(sink, sampleHeader(), 5, 10)
	require.NoError(t, err)
	require.NoError(t, w.Write(NewSliceSource(syntheticPoints(200)), 200))

	r, err := Open(iosrc.FromReadSeeker(sink))
	require.NoError(t, err)

	nodes, err := r.PlanQuery(LodAll(), BoundsAll())
	require.NoError(t, err)
	require.NotEmpty(t, nodes)
	for i := 1; i < len(nodes); i++ {
		require.LessOrEqual(t, nodes[i-1].Entry.Offset, nodes[i].Entry.Offset)
	}
}

func TestPlanQueryLevelFilterIsSubsetOfAll(t *testing.T) {
	sink := &memSink{}
	w, err := New(sink, sampleHeader(), 5, 10)
	require.NoError(t, err)
	require.NoError(t, w.Write(NewSliceSource(syntheticPoints(200)), 200))

	r, err := Open(iosrc.FromReadSeeker(sink))
	require.NoError(t, err)

	all, err := r.PlanQuery(LodAll(), BoundsAll())
	require.NoError(t, err)

	level0, err := r.PlanQuery(LodLevel(0), BoundsAll())
	require.NoError(t, err)

	require.LessOrEqual(t, len(level0), len(all))
}
