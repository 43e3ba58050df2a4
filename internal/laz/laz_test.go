package laz

import (
	"bytes"
	"io"
	"testing"

	"github.com/copc-go/copc/internal/point"
	"github.com/stretchr/testify/require"
)

// memSink is a minimal io.WriteSeeker/io.ReadSeeker over an in-memory
// buffer, standing in for an *os.File in tests.
type memSink struct {
	data []byte
	pos  int64
}

func (m *memSink) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.data)) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}
	n := copy(m.data[m.pos:end], p)
	m.pos = end
	return n, nil
}

func (m *memSink) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memSink) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = int64(len(m.data)) + offset
	}
	return m.pos, nil
}

func TestItemSetForFormat(t *testing.T) {
	f := point.Format{PDRF: 7, HasColor: true, ExtraBytes: 3}
	items := ItemSetFor(f)
	require.Len(t, items, 3)
	require.Equal(t, f.RecordLength(), RecordLength(items))
}

func TestVlrRoundTrip(t *testing.T) {
	items := ItemSetFor(point.Format{PDRF: 8, HasColor: true, HasNIR: true, ExtraBytes: 2})
	v := NewVlr(items)
	raw := v.Marshal()

	got, err := ParseVlr(raw)
	require.NoError(t, err)
	require.True(t, got.VariableChunked())
	require.Equal(t, items, got.Items)
}

func TestChunkTableRoundTrip(t *testing.T) {
	entries := []ChunkTableEntry{{PointCount: 100, ByteCount: 2048}, {PointCount: 50, ByteCount: 900}}
	var buf bytes.Buffer
	require.NoError(t, WriteChunkTable(&buf, entries))

	got, err := ReadChunkTable(&buf)
	require.NoError(t, err)
	require.Equal(t, entries, got)
}

func TestCopcCompressorDecompressorRoundTrip(t *testing.T) {
	f := point.Format{PDRF: 6}
	items := ItemSetFor(f)
	vlr := NewVlr(items)
	factory := ReferenceCodecFactory{}

	sink := &memSink{}
	comp, err := NewCopcCompressor(sink, vlr, factory)
	require.NoError(t, err)

	recordLen := int(RecordLength(items))
	chunk1 := make([]byte, recordLen*3)
	for i := range chunk1 {
		chunk1[i] = byte(i)
	}
	entry1, offset1, err := comp.CompressChunk(chunk1)
	require.NoError(t, err)
	require.Equal(t, uint64(3), entry1.PointCount)

	chunk2 := make([]byte, recordLen*2)
	for i := range chunk2 {
		chunk2[i] = byte(200 + i)
	}
	entry2, offset2, err := comp.CompressChunk(chunk2)
	require.NoError(t, err)
	require.Equal(t, uint64(2), entry2.PointCount)
	require.Greater(t, offset2, offset1)

	require.NoError(t, comp.Done())

	decomp := NewCopcDecompressor(sink, 0, vlr, factory)
	require.NoError(t, decomp.SourceSeek(offset1, entry1.ByteCount))
	out := make([]byte, recordLen)
	for i := 0; i < 3; i++ {
		require.NoError(t, decomp.DecompressOne(out))
		require.Equal(t, chunk1[i*recordLen:(i+1)*recordLen], out)
	}

	require.NoError(t, decomp.SourceSeek(offset2, entry2.ByteCount))
	for i := 0; i < 2; i++ {
		require.NoError(t, decomp.DecompressOne(out))
		require.Equal(t, chunk2[i*recordLen:(i+1)*recordLen], out)
	}
}
