package copc

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/copc-go/copc/internal/lasio"
	"github.com/copc-go/copc/internal/laz"
	"github.com/copc-go/copc/internal/point"
	"github.com/copc-go/copc/internal/utils"
)

// PointSource is the minimal pull-based interface Write consumes. A
// Reader's *PointIterator satisfies it, so a COPC file can be
// transcoded (re-chunked, re-compressed) by piping one straight into
// another Writer.
type PointSource interface {
	Next() bool
	Point() Point
	Err() error
}

// SliceSource adapts a pre-built []Point slice into a PointSource, for
// tests and small synthetic fixtures.
type SliceSource struct {
	points []Point
	idx    int
	cur    Point
}

// NewSliceSource wraps points as a PointSource.
func NewSliceSource(points []Point) *SliceSource { return &SliceSource{points: points} }

func (s *SliceSource) Next() bool {
	if s.idx >= len(s.points) {
		return false
	}
	s.cur = s.points[s.idx]
	s.idx++
	return true
}

func (s *SliceSource) Point() Point { return s.cur }
func (s *SliceSource) Err() error   { return nil }

// Writer builds a COPC file: it upgrades the caller's LAS header,
// assembles an octree under size invariants, compresses each node into a
// LAZ chunk, and finalizes the hierarchy and COPC metadata (spec.md §4.6).
type Writer struct {
	sink  io.WriteSeeker
	start int64

	header *lasio.Header
	format point.Format
	items  []laz.Item
	lazVLR laz.Vlr

	minNodeSize, maxNodeSize int32
	cfg                      writerConfig

	rootBoundsPending bool
	rootBounds        Bounds
	root              *octreeNode
	placer            *stochasticPlacer

	compressor *laz.CopcCompressor

	totalPoints  uint64
	gpsMin       float64
	gpsMax       float64
	attrErr      error
	boundsErr    error
	closed       bool
	pointDataPos int64

	copcInfoPayloadPos int64
	closer             io.Closer
}

// New constructs a Writer over an already-open sink. header describes
// the source LAS 1.2-1.4 metadata to upgrade; minNodeSize/maxNodeSize
// bound octree node occupancy (spec.md §4.6). No bytes are written until
// Write is called.
func New(sink io.WriteSeeker, header *lasio.Header, minNodeSize, maxNodeSize int32, opts ...WriterOption) (*Writer, error) {
	if minNodeSize <= 0 || maxNodeSize <= 0 || minNodeSize >= maxNodeSize {
		return nil, ErrInvalidNodeSize
	}
	if header.VersionMajor != 1 || header.VersionMinor < 2 || header.VersionMinor > 4 {
		return nil, fmt.Errorf("%w: got %d.%d", ErrWrongLasVersion, header.VersionMajor, header.VersionMinor)
	}

	format, err := point.FromPDRF(header.PointFormatID, header.PointRecordLength)
	if err != nil {
		return nil, fmt.Errorf("copc: %w", err)
	}

	cfg := defaultWriterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	upgraded := *header
	upgraded.PointFormatID = format.PDRF | 0x80 // force compression bit on
	upgraded.PointRecordLength = format.RecordLength()
	upgraded.VersionMajor = 1
	upgraded.VersionMinor = 4
	upgraded.GlobalEncoding |= 0x10 // WKT CRS bit, required for formats 6-10
	upgraded.NumberOfPointRecords = 0
	upgraded.NumberOfPointsByReturn = [15]uint64{}
	upgraded.NumVLRs = 0
	upgraded.NumEVLRs = 0

	w := &Writer{
		header:      &upgraded,
		format:      format,
		items:       laz.ItemSetFor(format),
		minNodeSize: minNodeSize,
		maxNodeSize: maxNodeSize,
		cfg:         cfg,
		gpsMin:      math.Inf(1),
		gpsMax:      math.Inf(-1),
	}
	w.lazVLR = laz.NewVlr(w.items)

	b := Bounds{MinX: header.MinX, MinY: header.MinY, MinZ: header.MinZ, MaxX: header.MaxX, MaxY: header.MaxY, MaxZ: header.MaxZ}
	if b == (Bounds{}) {
		w.rootBoundsPending = true
	} else {
		if !b.Valid() {
			return nil, ErrInvalidBounds
		}
		w.rootBounds = CubeBounds(b.Center(), b.Halfsize())
	}

	if sink != nil {
		w.sink = sink
	}
	return w, nil
}

// FromPath creates the named file and a Writer over it. The path
// extension MUST be *.copc.laz (case-insensitive) per spec.md §6.
func FromPath(path string, header *lasio.Header, minNodeSize, maxNodeSize int32, opts ...WriterOption) (*Writer, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".copc.laz") {
		return nil, ErrWrongCopcExtension
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, utils.WrapError(fmt.Sprintf("copc: creating %q", path), err)
	}
	w, err := New(f, header, minNodeSize, maxNodeSize, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

func shouldDropVLR(userID string, recordID uint16) bool {
	lu := strings.ToLower(userID)
	switch {
	case lu == "copc" && (recordID == 1 || recordID == 1000):
		return true
	case lu == "laszip encoded" && recordID == 22204:
		return true
	case userID == "LASF_Projection" && recordID >= 34735 && recordID <= 34737:
		return true
	case userID == "LASF_Spec" && ((recordID >= 100 && recordID <= 355) || recordID == 65535):
		return true
	}
	return false
}

func hasWKTVLR(vlrs []lasio.VLR) bool {
	for _, v := range vlrs {
		if v.UserIDString() == "LASF_Projection" && v.RecordID == 2112 {
			return true
		}
	}
	return false
}

// resolveCRSVLR builds a synthetic WKT CRS VLR via the configured
// resolver when the caller hasn't forwarded one and supplied an EPSG
// code override (spec.md §4.6). Returns nil, nil when no CRS action is
// needed.
func (w *Writer) resolveCRSVLR() (*lasio.VLR, error) {
	if hasWKTVLR(w.cfg.forwardedVLRs) || w.cfg.epsgCode == 0 {
		return nil, nil
	}
	wkt, err := w.cfg.crsResolver.WKTForEPSG(w.cfg.epsgCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEPSGCode, err)
	}
	v := lasio.NewVLR("LASF_Projection", 2112, "WKT OGC CS", []byte(wkt))
	return &v, nil
}

// Write consumes src to exhaustion, placing every point into the octree
// under size invariants, then closes the writer. numPointsHint selects
// the placement strategy when PlacementAuto is configured: a hint below
// minNodeSize+maxNodeSize selects greedy, otherwise stochastic (spec.md §6).
func (w *Writer) Write(src PointSource, numPointsHint uint64) error {
	if w.closed {
		return ErrClosedWriter
	}

	var buffered []Point
	if w.rootBoundsPending {
		b := EmptyBounds()
		for src.Next() {
			p := src.Point()
			b.ExpandPoint(p.X, p.Y, p.Z)
			buffered = append(buffered, p)
		}
		if err := src.Err(); err != nil {
			return err
		}
		if len(buffered) == 0 {
			return ErrEmptyIterator
		}
		if !b.Valid() {
			return ErrInvalidBounds
		}
		w.rootBounds = CubeBounds(b.Center(), b.Halfsize())
		w.rootBoundsPending = false
		if numPointsHint == 0 {
			numPointsHint = uint64(len(buffered))
		}
	}

	strategy := w.cfg.strategy
	if strategy == PlacementAuto {
		if numPointsHint >= uint64(w.minNodeSize+w.maxNodeSize) {
			strategy = PlacementStochastic
		} else {
			strategy = PlacementGreedy
		}
	}

	w.root = newOctreeNode(VoxelKey{Level: 0, X: 0, Y: 0, Z: 0})
	if strategy == PlacementStochastic {
		hint := numPointsHint
		if hint == 0 {
			hint = uint64(w.maxNodeSize) * 8
		}
		w.placer = newStochasticPlacer(w.rootBounds, w.maxNodeSize, hint, w.cfg.randomSeed)
	}

	if err := w.openLayout(); err != nil {
		return err
	}

	receivedAnyPoint := buffered != nil
	if buffered != nil {
		for _, p := range buffered {
			if err := w.addPoint(p); err != nil {
				return err
			}
		}
	} else {
		for src.Next() {
			receivedAnyPoint = true
			if err := w.addPoint(src.Point()); err != nil {
				return err
			}
		}
		if err := src.Err(); err != nil {
			return err
		}
	}

	if w.totalPoints == 0 {
		if !receivedAnyPoint {
			return ErrEmptyIterator
		}
		return ErrEmptyCopcFile
	}

	if err := w.Close(); err != nil {
		return err
	}

	if w.attrErr != nil {
		return w.attrErr
	}
	return w.boundsErr
}

func (w *Writer) addPoint(p Point) error {
	if !w.rootBounds.ContainsPoint(p.X, p.Y, p.Z) {
		if w.boundsErr == nil {
			w.boundsErr = ErrPointNotInBounds
		}
		return nil
	}

	extra := p.Extra
	if len(extra) != int(w.format.ExtraBytes) {
		if w.attrErr == nil {
			w.attrErr = &PointAttributesDoNotMatchError{Format: int(w.format.PDRF)}
		}
		extra = normalizeExtraBytes(extra, int(w.format.ExtraBytes))
	}

	rec := point.Record{
		Point14: point.Point14{
			X: w.header.ToRawX(p.X), Y: w.header.ToRawY(p.Y), Z: w.header.ToRawZ(p.Z),
			Intensity:           p.Intensity,
			ReturnNumber:        p.ReturnNumber,
			NumberOfReturns:     p.NumberOfReturns,
			ClassificationFlags: p.ClassificationFlags,
			ScannerChannel:      p.ScannerChannel,
			ScanDirectionFlag:   p.ScanDirectionFlag,
			EdgeOfFlightLine:    p.EdgeOfFlightLine,
			Classification:      p.Classification,
			UserData:            p.UserData,
			ScanAngle:           p.ScanAngle,
			PointSourceID:       p.PointSourceID,
			GPSTime:             p.GPSTime,
		},
		Color: p.Color,
		NIR:   p.NIR,
		Extra: extra,
	}

	buf := make([]byte, w.format.RecordLength())
	point.Put(buf, w.format, rec)

	var target *octreeNode
	var err error
	if w.placer != nil {
		target, err = w.placer.place(w.root, p.X, p.Y, p.Z, buf)
	} else {
		target, err = placeGreedy(w.root, w.rootBounds, w.maxNodeSize, p.X, p.Y, p.Z, buf)
	}
	if err != nil {
		return fmt.Errorf("copc: %w", err)
	}

	w.totalPoints++
	w.header.NumberOfPointRecords++
	if p.ReturnNumber >= 1 && p.ReturnNumber <= 15 {
		w.header.NumberOfPointsByReturn[p.ReturnNumber-1]++
	}
	if p.GPSTime < w.gpsMin {
		w.gpsMin = p.GPSTime
	}
	if p.GPSTime > w.gpsMax {
		w.gpsMax = p.GPSTime
	}

	if target.count >= w.maxNodeSize {
		return w.flushNode(target)
	}
	return nil
}

func normalizeExtraBytes(extra []byte, want int) []byte {
	out := make([]byte, want)
	copy(out, extra)
	return out
}

func (w *Writer) flushNode(n *octreeNode) error {
	if n.flushed || n.count == 0 {
		return nil
	}
	entry, offset, err := w.compressor.CompressChunk(n.buffer)
	if err != nil {
		return fmt.Errorf("copc: %w", err)
	}
	n.entry = HierarchyEntry{Key: n.key, Offset: offset, ByteSize: int32(entry.ByteCount), PointCount: int32(entry.PointCount)}
	n.flushed = true
	n.buffer = nil
	return nil
}
