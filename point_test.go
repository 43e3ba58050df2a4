package copc

import (
	"testing"

	"github.com/copc-go/copc/internal/lasio"
	"github.com/copc-go/copc/internal/point"
	"github.com/stretchr/testify/require"
)

func TestToWorldPointAppliesScaleAndOffset(t *testing.T) {
	h := &lasio.Header{ScaleX: 0.01, ScaleY: 0.01, ScaleZ: 0.01, OffsetX: 100, OffsetY: -50, OffsetZ: 0}

	rec := point.Record{
		Point14: point.Point14{
			X: h.ToRawX(100.5), Y: h.ToRawY(-49.75), Z: h.ToRawZ(1.23),
			Intensity: 42, Classification: 7, GPSTime: 123.5,
		},
	}

	p := toWorldPoint(h, rec)
	require.InDelta(t, 100.5, p.X, 0.005)
	require.InDelta(t, -49.75, p.Y, 0.005)
	require.InDelta(t, 1.23, p.Z, 0.005)
	require.Equal(t, uint16(42), p.Intensity)
	require.Equal(t, uint8(7), p.Classification)
	require.Equal(t, 123.5, p.GPSTime)
}

var _ coordTransform = (*lasio.Header)(nil)
