// Package main provides a command-line utility that builds a COPC file
// from plain-text XYZ rows (the format cmd/copc2xyz emits): "x y z
// [intensity] [classification]" per line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/copc-go/copc"
	"github.com/copc-go/copc/internal/lasio"
)

// xyzSource adapts a line-oriented text scanner into a copc.PointSource.
type xyzSource struct {
	sc  *bufio.Scanner
	cur copc.Point
	err error
}

func newXYZSource(r *bufio.Scanner) *xyzSource { return &xyzSource{sc: r} }

func (s *xyzSource) Next() bool {
	for s.sc.Scan() {
		line := strings.TrimSpace(s.sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			s.err = fmt.Errorf("copcwrite: malformed line %q", line)
			return false
		}
		var p copc.Point
		var perr error
		if p.X, perr = strconv.ParseFloat(fields[0], 64); perr != nil {
			s.err = perr
			return false
		}
		if p.Y, perr = strconv.ParseFloat(fields[1], 64); perr != nil {
			s.err = perr
			return false
		}
		if p.Z, perr = strconv.ParseFloat(fields[2], 64); perr != nil {
			s.err = perr
			return false
		}
		if len(fields) >= 4 {
			if v, err := strconv.ParseUint(fields[3], 10, 16); err == nil {
				p.Intensity = uint16(v)
			}
		}
		if len(fields) >= 5 {
			if v, err := strconv.ParseUint(fields[4], 10, 8); err == nil {
				p.Classification = uint8(v)
			}
		}
		p.ReturnNumber = 1
		p.NumberOfReturns = 1
		s.cur = p
		return true
	}
	s.err = s.sc.Err()
	return false
}

func (s *xyzSource) Point() copc.Point { return s.cur }
func (s *xyzSource) Err() error        { return s.err }

func main() {
	minNodeSize := flag.Int("min-node-size", 100, "minimum octree node size")
	maxNodeSize := flag.Int("max-node-size", 10000, "maximum octree node size")
	scale := flag.Float64("scale", 0.01, "coordinate scale factor applied on all three axes")
	in := flag.String("i", "", "input XYZ file (default: stdin)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: copcwrite [flags] <out.copc.laz>")
		flag.PrintDefaults()
		return
	}

	r := os.Stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			log.Fatalf("opening %q: %v", *in, err)
		}
		defer f.Close()
		r = f
	}

	header := &lasio.Header{
		VersionMajor:      1,
		VersionMinor:      4,
		PointFormatID:     6,
		PointRecordLength: 30,
		ScaleX:            *scale, ScaleY: *scale, ScaleZ: *scale,
	}
	copy(header.SystemID[:], "copcwrite")
	copy(header.GeneratingSW[:], "copc-go copcwrite")

	w, err := copc.FromPath(args[0], header, int32(*minNodeSize), int32(*maxNodeSize))
	if err != nil {
		log.Fatalf("creating %q: %v", args[0], err)
	}

	src := newXYZSource(bufio.NewScanner(r))
	if err := w.Write(src, 0); err != nil {
		log.Fatalf("writing %q: %v", args[0], err)
	}
}
