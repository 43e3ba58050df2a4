package laz

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// ReferenceCodecFactory is a CodecFactory built on top of
// github.com/klauspost/compress's DEFLATE implementation. It is NOT a
// LAZ 1.4 layered entropy coder: it exists so this module has a
// concrete, compiling, round-trippable CodecFactory to test
// CopcCompressor/CopcDecompressor's framing against, and so callers
// without a real LASzip binding can still produce and read valid COPC
// container structure (at a far worse compression ratio, and without
// point-format-aware prediction). A production integration is expected
// to supply its own CodecFactory wrapping a real LAZ implementation.
type ReferenceCodecFactory struct {
	Level int // flate.DefaultCompression if zero
}

func (f ReferenceCodecFactory) level() int {
	if f.Level == 0 {
		return flate.DefaultCompression
	}
	return f.Level
}

func (f ReferenceCodecFactory) NewCompressor(items []Item) ItemCompressor {
	return &referenceCompressor{recordLen: int(RecordLength(items)), level: f.level()}
}

func (f ReferenceCodecFactory) NewDecompressor(items []Item) ItemDecompressor {
	return &referenceDecompressor{recordLen: int(RecordLength(items))}
}

type referenceCompressor struct {
	recordLen int
	level     int
	buf       bytes.Buffer
}

func (c *referenceCompressor) CompressPoint(raw []byte) error {
	if len(raw) != c.recordLen {
		return fmt.Errorf("laz: reference codec got a %d-byte point, want %d", len(raw), c.recordLen)
	}
	_, err := c.buf.Write(raw)
	return err
}

func (c *referenceCompressor) Finish() ([]byte, error) {
	var out bytes.Buffer
	w, err := flate.NewWriter(&out, c.level)
	if err != nil {
		return nil, fmt.Errorf("laz: reference codec: %w", err)
	}
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		return nil, fmt.Errorf("laz: reference codec writing chunk: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("laz: reference codec closing chunk: %w", err)
	}
	return out.Bytes(), nil
}

type referenceDecompressor struct {
	recordLen int
	reader    io.ReadCloser
}

func (d *referenceDecompressor) Reset(r io.Reader) error {
	if d.reader != nil {
		d.reader.Close()
	}
	d.reader = flate.NewReader(r)
	return nil
}

func (d *referenceDecompressor) DecompressPoint(out []byte) error {
	if len(out) != d.recordLen {
		return fmt.Errorf("laz: reference codec out buffer is %d bytes, want %d", len(out), d.recordLen)
	}
	_, err := io.ReadFull(d.reader, out)
	if err != nil {
		return fmt.Errorf("laz: reference codec decoding point: %w", err)
	}
	return nil
}
