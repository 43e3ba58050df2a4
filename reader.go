package copc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/copc-go/copc/internal/iosrc"
	"github.com/copc-go/copc/internal/lasio"
	"github.com/copc-go/copc/internal/laz"
	"github.com/copc-go/copc/internal/point"
	"github.com/copc-go/copc/internal/utils"
)

// Reader parses a COPC file's structural metadata (header, CopcInfo, LAZ
// VLR, EPT hierarchy) up front and then serves lazy point queries against
// it, per spec.md §4.5.
type Reader struct {
	source iosrc.Source
	start  int64

	header   *lasio.Header
	format   point.Format
	copcInfo CopcInfo
	lazVLR   laz.Vlr

	// hierarchy maps every materialized leaf/empty node to its entry.
	// Sub-page pointers (point_count == -1) are resolved eagerly during
	// construction and never appear as values here.
	hierarchy map[VoxelKey]HierarchyEntry

	codecFactory laz.CodecFactory
}

// ReaderOption configures optional Reader behavior.
type ReaderOption func(*readerConfig)

type readerConfig struct {
	codecFactory laz.CodecFactory
}

// WithReaderCodecFactory overrides the LAZ CodecFactory used to decode
// point chunks. Defaults to laz.ReferenceCodecFactory{}.
func WithReaderCodecFactory(f laz.CodecFactory) ReaderOption {
	return func(c *readerConfig) { c.codecFactory = f }
}

// Open parses a COPC file from an already-open Source.
func Open(source iosrc.Source, opts ...ReaderOption) (*Reader, error) {
	cfg := readerConfig{codecFactory: laz.ReferenceCodecFactory{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Reader{source: source, codecFactory: cfg.codecFactory}
	if err := r.parseStructure(); err != nil {
		return nil, err
	}
	return r, nil
}

// FromPath opens a local file by path and parses it as a COPC file.
func FromPath(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.WrapError(fmt.Sprintf("copc: opening %q", path), err)
	}
	return Open(iosrc.FromFile(f))
}

func (r *Reader) parseStructure() error {
	start, err := r.source.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("copc: %w", err)
	}
	r.start = start

	hdrBuf := make([]byte, lasio.HeaderSize)
	if _, err := r.source.ReadAt(hdrBuf, r.start); err != nil {
		return fmt.Errorf("copc: reading LAS header: %w", err)
	}
	header, err := lasio.ParseHeader(hdrBuf)
	if err != nil {
		if errors.Is(err, lasio.ErrHeaderSizeMismatch) {
			return fmt.Errorf("%w: %v", ErrHeaderNot375Bytes, err)
		}
		return fmt.Errorf("copc: %w", err)
	}
	if header.VersionMajor != 1 || header.VersionMinor != 4 {
		return fmt.Errorf("%w: got %d.%d", ErrWrongLasVersion, header.VersionMajor, header.VersionMinor)
	}
	r.header = header

	format, err := point.FromPDRF(header.PointFormatID, header.PointRecordLength)
	if err != nil {
		return fmt.Errorf("copc: %w", err)
	}
	r.format = format

	var copcInfoFound, lazVLRFound bool
	var hierarchyVLR *lasio.VLR

	pos := r.start + lasio.HeaderSize
	for i := uint32(0); i < header.NumVLRs; i++ {
		v, consumed, err := readVLRAt(r.source, pos)
		if err != nil {
			return fmt.Errorf("copc: reading vlr %d: %w", i, err)
		}
		switch key(v.UserIDString(), v.RecordID) {
		case key("copc", 1):
			if i != 0 {
				return fmt.Errorf("%w: copc/1 VLR must be first, found at index %d", ErrCorruptMetadata, i)
			}
			info, err := ParseCopcInfo(v.Data)
			if err != nil {
				return err
			}
			r.copcInfo = info
			copcInfoFound = true
		case key("laszip encoded", 22204):
			lazVLR, err := laz.ParseVlr(v.Data)
			if err != nil {
				return fmt.Errorf("copc: %w", err)
			}
			r.lazVLR = lazVLR
			lazVLRFound = true
		case key("copc", 1000):
			vv := v
			hierarchyVLR = &vv
		}
		pos += consumed
	}
	if !copcInfoFound {
		return ErrCopcInfoVlrNotFound
	}
	if !lazVLRFound {
		return ErrLasZipVlrNotFound
	}

	var hierarchyData []byte
	if hierarchyVLR != nil {
		hierarchyData = hierarchyVLR.Data
	} else if header.NumEVLRs > 0 {
		epos := r.start + int64(header.StartOfFirstEVLR)
		for i := uint32(0); i < header.NumEVLRs; i++ {
			e, consumed, err := readEVLRAt(r.source, epos)
			if err != nil {
				return fmt.Errorf("copc: reading evlr %d: %w", i, err)
			}
			if key(e.UserIDString(), e.RecordID) == key("copc", 1000) {
				hierarchyData = e.Data
				break
			}
			epos += consumed
		}
	}
	if hierarchyData == nil {
		return ErrEptHierarchyVlrNotFound
	}

	hierarchy, err := materializeHierarchy(r.source, r.start, r.copcInfo, hierarchyData)
	if err != nil {
		return err
	}
	r.hierarchy = hierarchy
	return nil
}

func key(userID string, recordID uint16) string {
	return fmt.Sprintf("%s/%d", strings.ToLower(userID), recordID)
}

func readVLRAt(source iosrc.Source, pos int64) (lasio.VLR, int64, error) {
	sr := io.NewSectionReader(source, pos, 1<<40)
	v, err := lasio.ReadVLR(sr)
	if err != nil {
		return lasio.VLR{}, 0, err
	}
	return v, int64(lasio.VLRHeaderSize + len(v.Data)), nil
}

func readEVLRAt(source iosrc.Source, pos int64) (lasio.EVLR, int64, error) {
	sr := io.NewSectionReader(source, pos, 1<<40)
	e, err := lasio.ReadEVLR(sr)
	if err != nil {
		return lasio.EVLR{}, 0, err
	}
	return e, int64(lasio.EVLRHeaderSize + len(e.Data)), nil
}

// materializeHierarchy walks the root hierarchy page (and any sub-pages
// it points to) into a flat VoxelKey -> HierarchyEntry map, per spec.md
// §4.5 "Hierarchy materialization".
func materializeHierarchy(source iosrc.Source, start int64, info CopcInfo, rootPageData []byte) (map[VoxelKey]HierarchyEntry, error) {
	out := make(map[VoxelKey]HierarchyEntry)

	type pageRef struct {
		data []byte
	}
	queue := []pageRef{{data: rootPageData}}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if len(p.data)%EntrySize != 0 {
			return nil, fmt.Errorf("%w: hierarchy page size %d not a multiple of %d", ErrCorruptMetadata, len(p.data), EntrySize)
		}
		for off := 0; off < len(p.data); off += EntrySize {
			e, err := ParseEntry(p.data[off : off+EntrySize])
			if err != nil {
				return nil, err
			}
			if e.IsSubPagePointer() {
				if err := utils.ValidateBufferSize(uint64(e.ByteSize), utils.MaxHierarchyPageSize, "hierarchy sub-page"); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrCorruptMetadata, err)
				}
				buf := make([]byte, e.ByteSize)
				if _, err := source.ReadAt(buf, start+int64(e.Offset)); err != nil {
					return nil, fmt.Errorf("copc: reading hierarchy sub-page: %w", err)
				}
				queue = append(queue, pageRef{data: buf})
				continue
			}
			out[e.Key] = e
		}
	}
	return out, nil
}

// Header returns the parsed LAS 1.4 header.
func (r *Reader) Header() *lasio.Header { return r.header }

// CopcInfo returns the parsed COPC Info VLR payload.
func (r *Reader) CopcInfo() CopcInfo { return r.copcInfo }

// Format returns the point record format derived from the header's PDRF
// and record length.
func (r *Reader) Format() point.Format { return r.format }

// PointCount returns the total number of points in the file, per the
// LAS 1.4 header's u64 counter.
func (r *Reader) PointCount() uint64 { return r.header.NumberOfPointRecords }

// FilteredPointCount returns the number of points a query with the given
// LOD and bounds selection would yield, without decompressing any point
// data — it sums PointCount across the hierarchy entries PlanQuery would
// visit.
func (r *Reader) FilteredPointCount(lod LodSelection, bounds BoundsSelection) (uint64, error) {
	nodes, err := r.PlanQuery(lod, bounds)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, n := range nodes {
		total += uint64(n.Entry.PointCount)
	}
	return total, nil
}
