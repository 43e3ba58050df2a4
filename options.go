package copc

import (
	"github.com/copc-go/copc/internal/crs"
	"github.com/copc-go/copc/internal/lasio"
	"github.com/copc-go/copc/internal/laz"
)

// PlacementStrategy selects which octree placement algorithm Write uses
// (spec.md §4.6).
type PlacementStrategy int

const (
	// PlacementAuto picks greedy or stochastic based on the num_points_hint
	// passed to Write, per spec.md §6: "A num_points_hint < min+max selects
	// greedy; otherwise stochastic."
	PlacementAuto PlacementStrategy = iota
	PlacementGreedy
	PlacementStochastic
)

// WriterOption configures optional Writer behavior beyond the required
// header/node-size-bounds triple.
type WriterOption func(*writerConfig)

type writerConfig struct {
	strategy       PlacementStrategy
	crsResolver    crs.Resolver
	codecFactory   laz.CodecFactory
	forwardedVLRs  []lasio.VLR
	forwardedEVLRs []lasio.EVLR
	randomSeed     int64
	epsgCode       uint16
}

func defaultWriterConfig() writerConfig {
	return writerConfig{
		strategy:     PlacementAuto,
		crsResolver:  crs.NewStaticResolver(),
		codecFactory: laz.ReferenceCodecFactory{},
		randomSeed:   1,
	}
}

// WithPlacementStrategy overrides the automatic greedy/stochastic choice.
func WithPlacementStrategy(s PlacementStrategy) WriterOption {
	return func(c *writerConfig) { c.strategy = s }
}

// WithCRSResolver overrides the EPSG->WKT resolver used when the input
// header carries no WKT CRS VLR.
func WithCRSResolver(r crs.Resolver) WriterOption {
	return func(c *writerConfig) { c.crsResolver = r }
}

// WithCodecFactory overrides the LAZ CodecFactory used to compress point
// chunks. Defaults to laz.ReferenceCodecFactory{}.
func WithCodecFactory(f laz.CodecFactory) WriterOption {
	return func(c *writerConfig) { c.codecFactory = f }
}

// WithForwardedVLRs supplies VLRs from a source file to carry over,
// subject to the drop policy in spec.md §4.6 (COPC/LAZ/CRS/waveform VLRs
// are always dropped and regenerated).
func WithForwardedVLRs(vlrs []lasio.VLR) WriterOption {
	return func(c *writerConfig) { c.forwardedVLRs = vlrs }
}

// WithForwardedEVLRs supplies EVLRs from a source file to carry over,
// subject to the same drop policy.
func WithForwardedEVLRs(evlrs []lasio.EVLR) WriterOption {
	return func(c *writerConfig) { c.forwardedEVLRs = evlrs }
}

// WithRandomSeed fixes the stochastic placement strategy's PRNG seed,
// for reproducible test fixtures.
func WithRandomSeed(seed int64) WriterOption {
	return func(c *writerConfig) { c.randomSeed = seed }
}

// WithEPSGCode requests a synthetic WKT CRS VLR be resolved and written
// when no forwarded VLR already carries one (LASF_Projection/2112). A
// zero value (the default) means: forward whatever CRS VLR the caller
// supplied, if any, and otherwise write none.
func WithEPSGCode(code uint16) WriterOption {
	return func(c *writerConfig) { c.epsgCode = code }
}
