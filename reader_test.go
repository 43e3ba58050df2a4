package copc

import (
	"testing"

	"github.com/copc-go/copc/internal/iosrc"
	"github.com/copc-go/copc/internal/lasio"
	"github.com/stretchr/testify/require"
)

func TestOpenRejectsMissingCopcInfoVLR(t *testing.T) {
	h := &lasio.Header{VersionMajor: 1, VersionMinor: 4, PointFormatID: 6, PointRecordLength: 30}
	sink := &memSink{data: h.Marshal()}

	_, err := Open(iosrc.FromReadSeeker(sink))
	require.ErrorIs(t, err, ErrCopcInfoVlrNotFound)
}

func TestOpenRejectsWrongLasVersion(t *testing.T) {
	h := &lasio.Header{VersionMajor: 1, VersionMinor: 2, PointFormatID: 6, PointRecordLength: 30}
	sink := &memSink{data: h.Marshal()}

	_, err := Open(iosrc.FromReadSeeker(sink))
	require.ErrorIs(t, err, ErrWrongLasVersion)
}

func TestReaderRoundTripHeaderAndFormat(t *testing.T) {
	sink := &memSink{}
	w, err := New(sink, sampleHeader(), 5, 10)
	require.NoError(t, err)
	require.NoError(t, w.Write(NewSliceSource(syntheticPoints(30)), 30))

	r, err := Open(iosrc.FromReadSeeker(sink))
	require.NoError(t, err)
	require.Equal(t, uint8(1), r.Header().VersionMajor)
	require.Equal(t, uint8(4), r.Header().VersionMinor)
	require.Equal(t, uint8(6), r.Format().PDRF)
	require.Equal(t, uint64(30), r.PointCount())
}
