package laz

import "io"

// ItemCompressor feeds fixed-size point records (laid out per an Item
// list) into a layered entropy coder one record at a time, and finalizes
// a single independently-decodable chunk on demand. This is the
// external-collaborator seam named in spec.md §1: a real LAZ 1.4 point
// format 6-8 compressor satisfies this interface.
type ItemCompressor interface {
	// CompressPoint feeds one raw point record (len(raw) == the item
	// set's total record length) into the coder's running state.
	CompressPoint(raw []byte) error

	// Finish flushes the coder's entropy state and returns the
	// independently-decodable compressed bytes for everything fed since
	// construction (or since the last Finish). The ItemCompressor MUST
	// NOT be reused after Finish; CopcCompressor asks the factory for a
	// fresh one per chunk (spec.md §4.3: "resets the layered compressor
	// state so each chunk is independently decodable").
	Finish() ([]byte, error)
}

// ItemDecompressor decodes point records from a chunk's compressed
// bytes, one record at a time, starting at a chunk boundary.
type ItemDecompressor interface {
	// Reset re-arms the decompressor at a fresh chunk boundary, reading
	// compressed bytes from r. r is already bounded to the chunk's
	// byte_size by the caller so that block-based codecs cannot
	// over-read into the next chunk; a true streaming arithmetic coder
	// may ignore that bound since it consumes exactly as many bits as
	// it needs per point.
	Reset(r io.Reader) error

	// DecompressPoint decodes exactly one point record into out
	// (len(out) == the item set's total record length).
	DecompressPoint(out []byte) error
}

// CodecFactory constructs fresh compressor/decompressor instances for a
// given item list. Implementations own the actual entropy coding; this
// package only drives chunk framing and offset bookkeeping around them.
type CodecFactory interface {
	NewCompressor(items []Item) ItemCompressor
	NewDecompressor(items []Item) ItemDecompressor
}
