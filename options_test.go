package copc

import (
	"testing"

	"github.com/copc-go/copc/internal/laz"
	"github.com/stretchr/testify/require"
)

func TestDefaultWriterConfig(t *testing.T) {
	cfg := defaultWriterConfig()
	require.Equal(t, PlacementAuto, cfg.strategy)
	require.NotNil(t, cfg.crsResolver)
	require.IsType(t, laz.ReferenceCodecFactory{}, cfg.codecFactory)
	require.Equal(t, int64(1), cfg.randomSeed)
	require.Equal(t, uint16(0), cfg.epsgCode)
}

func TestWriterOptionsApply(t *testing.T) {
	cfg := defaultWriterConfig()
	WithPlacementStrategy(PlacementStochastic)(&cfg)
	WithRandomSeed(99)(&cfg)
	WithEPSGCode(4326)(&cfg)

	require.Equal(t, PlacementStochastic, cfg.strategy)
	require.Equal(t, int64(99), cfg.randomSeed)
	require.Equal(t, uint16(4326), cfg.epsgCode)
}
