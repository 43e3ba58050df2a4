// Package main provides a command-line utility that dumps a COPC file's
// points as plain-text XYZ rows, optionally filtered by level-of-detail
// and a bounding box.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/copc-go/copc"
)

func main() {
	level := flag.Int("level", -1, "restrict to a single octree level (-1 = all levels)")
	resolution := flag.Float64("resolution", 0, "select every level down to the coarsest one at least this fine (0 = disabled)")
	minX := flag.Float64("min-x", 0, "bounding box min X (requires -max-x)")
	maxX := flag.Float64("max-x", 0, "bounding box max X (requires -min-x)")
	minY := flag.Float64("min-y", 0, "bounding box min Y (requires -max-y)")
	maxY := flag.Float64("max-y", 0, "bounding box max Y (requires -min-y)")
	minZ := flag.Float64("min-z", 0, "bounding box min Z (requires -max-z)")
	maxZ := flag.Float64("max-z", 0, "bounding box max Z (requires -min-z)")
	useBounds := flag.Bool("bounds", false, "filter by the -min-*/-max-* bounding box")
	out := flag.String("o", "", "output file (default: stdout)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: copc2xyz [flags] <file.copc.laz>")
		flag.PrintDefaults()
		return
	}

	r, err := copc.FromPath(args[0])
	if err != nil {
		log.Fatalf("opening %q: %v", args[0], err)
	}

	lod := copc.LodAll()
	switch {
	case *resolution > 0:
		lod = copc.LodResolution(*resolution)
	case *level >= 0:
		lod = copc.LodLevel(int32(*level))
	}

	bounds := copc.BoundsAll()
	if *useBounds {
		bounds = copc.BoundsWithin(copc.Bounds{
			MinX: *minX, MinY: *minY, MinZ: *minZ,
			MaxX: *maxX, MaxY: *maxY, MaxZ: *maxZ,
		})
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("creating %q: %v", *out, err)
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	it, err := r.Points(lod, bounds)
	if err != nil {
		log.Fatalf("planning points query: %v", err)
	}

	var n uint64
	for it.Next() {
		p := it.Point()
		fmt.Fprintf(bw, "%.6f %.6f %.6f %d %d\n", p.X, p.Y, p.Z, p.Intensity, p.Classification)
		n++
	}
	if err := it.Err(); err != nil {
		log.Fatalf("reading points (%d emitted): %v", n, err)
	}
}
