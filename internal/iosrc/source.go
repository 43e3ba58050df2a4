// Package iosrc defines the byte-range source abstraction the reader
// consumes, plus a local-file adapter. A byte-range HTTP reader is an
// external collaborator (spec.md §1): anything satisfying Source works,
// including one backed by ranged HTTP GETs.
package iosrc

import (
	"io"
	"os"
)

// Source is the minimal random-access, seekable byte source the reader
// needs. SetMinRequestSize is a hint only: implementations backed by a
// local file may ignore it; implementations backed by HTTP range
// requests use it to coalesce small reads into fewer round trips.
type Source interface {
	io.ReaderAt
	io.Seeker
	SetMinRequestSize(bytes int)
}

// fileSource adapts *os.File to Source. SetMinRequestSize is a no-op: a
// local file has no per-request overhead to amortize.
type fileSource struct {
	f *os.File
}

// FromFile wraps an already-open *os.File as a Source.
func FromFile(f *os.File) Source {
	return &fileSource{f: f}
}

func (s *fileSource) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }
func (s *fileSource) Seek(offset int64, whence int) (int64, error) {
	return s.f.Seek(offset, whence)
}
func (s *fileSource) SetMinRequestSize(bytes int) {}

// ReadSeekerSource adapts an io.ReadSeeker (which may not support
// ReadAt, e.g. an in-memory buffer in tests) to Source by synchronizing
// seeks around each ReadAt.
type ReadSeekerSource struct {
	rs io.ReadSeeker
}

// FromReadSeeker wraps rs as a Source. Concurrent use is not safe: every
// ReadAt mutates rs's cursor.
func FromReadSeeker(rs io.ReadSeeker) *ReadSeekerSource {
	return &ReadSeekerSource{rs: rs}
}

func (s *ReadSeekerSource) ReadAt(p []byte, off int64) (int, error) {
	if _, err := s.rs.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}
	return io.ReadFull(s.rs, p)
}

func (s *ReadSeekerSource) Seek(offset int64, whence int) (int64, error) {
	return s.rs.Seek(offset, whence)
}

func (s *ReadSeekerSource) SetMinRequestSize(bytes int) {}
