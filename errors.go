package copc

import (
	"errors"
	"fmt"
)

// Lifecycle and validation errors. Mirrors the teacher library's use of
// package-level sentinel errors (see e.g. hdf5's "not an HDF5 file") rather
// than a closed error-code enum, so callers use errors.Is/errors.As.
var (
	// ErrClosedWriter is returned by any Writer method called after Close.
	ErrClosedWriter = errors.New("copc: writer has already been closed")

	// ErrEmptyCopcFile is returned by Close when no points were ever added.
	ErrEmptyCopcFile = errors.New("copc: no points were added to this file")

	// ErrEmptyIterator is returned by Write when the supplied point source
	// yields no points at all.
	ErrEmptyIterator = errors.New("copc: point source produced no points")

	// ErrWrongCopcExtension is returned by FromPath when path does not end
	// in ".copc.laz" (case-insensitive).
	ErrWrongCopcExtension = errors.New("copc: file name must end in .copc.laz")

	// ErrWrongLasVersion is returned when a header cannot be upgraded to LAS 1.4.
	ErrWrongLasVersion = errors.New("copc: unsupported LAS version")

	// ErrHeaderNot375Bytes guards the LAS 1.4 fixed header size invariant.
	ErrHeaderNot375Bytes = errors.New("copc: LAS 1.4 header must be exactly 375 bytes")

	// ErrInvalidResolution is returned for a non-positive or non-finite Resolution LOD selector.
	ErrInvalidResolution = errors.New("copc: resolution must be a finite, positive number")

	// ErrInvalidBounds is returned when header bounds have a non-finite,
	// subnormal, or zero extent on some axis.
	ErrInvalidBounds = errors.New("copc: header bounds are not valid (must be finite, non-subnormal, non-zero extent)")

	// ErrInvalidNodeSize is returned when min_node_size >= max_node_size, or either is <= 0.
	ErrInvalidNodeSize = errors.New("copc: min_node_size must be positive and less than max_node_size")

	// ErrInvalidEPSGCode is returned when the CRS resolver cannot map the
	// header's EPSG code to a WKT string.
	ErrInvalidEPSGCode = errors.New("copc: EPSG code has no known WKT definition")

	// ErrCopcInfoVlrNotFound is returned by Open when the "copc"/1 VLR is missing.
	ErrCopcInfoVlrNotFound = errors.New("copc: source does not contain a COPC info VLR")

	// ErrEptHierarchyVlrNotFound is returned by Open when the "copc"/1000 VLR/EVLR is missing.
	ErrEptHierarchyVlrNotFound = errors.New("copc: source does not contain an EPT hierarchy VLR")

	// ErrLasZipVlrNotFound is returned by Open when the "laszip encoded"/22204 VLR is missing.
	ErrLasZipVlrNotFound = errors.New("copc: source does not contain a laszip VLR")

	// ErrPointNotInBounds marks a point rejected by the writer for falling
	// outside the root octree bounds.
	ErrPointNotInBounds = errors.New("copc: point is not inside the header bounds")

	// errPointNotAddedToAnyNode signals an internal invariant violation: a
	// point passed bounds containment but the octree placement walk never
	// found a leaf for it. Unreachable in correct code; kept unexported
	// because a caller should never need to match on it specifically.
	errPointNotAddedToAnyNode = errors.New("copc: point could not be added to any octree node (internal invariant violation)")

	// ErrCorruptMetadata is returned by the hierarchy/CopcInfo codec on a short read.
	ErrCorruptMetadata = errors.New("copc: corrupt COPC metadata")
)

// PointAttributesDoNotMatchError reports that a point's attributes (e.g. it
// carries NIR but the header's point format doesn't declare it) don't match
// the writer's point format. Per-point and recoverable: writing continues,
// and the first such error is returned by Write once every point has been
// processed.
type PointAttributesDoNotMatchError struct {
	Format int // point data record format the writer expects
}

func (e *PointAttributesDoNotMatchError) Error() string {
	return fmt.Sprintf("copc: point attributes do not match point format %d", e.Format)
}
