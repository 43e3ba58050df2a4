// Package main provides a command-line utility that prints a COPC
// file's header, point format, COPC info VLR, and the number of octree
// nodes holding points.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/copc-go/copc"
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: copcinfo <file.copc.laz>")
		return
	}

	r, err := copc.FromPath(args[0])
	if err != nil {
		log.Fatalf("opening %q: %v", args[0], err)
	}

	h := r.Header()
	info := r.CopcInfo()
	format := r.Format()

	fmt.Printf("LAS version:       %d.%d\n", h.VersionMajor, h.VersionMinor)
	fmt.Printf("point format:      %d (color=%v, nir=%v, extra bytes=%d)\n",
		format.PDRF, format.HasColor, format.HasNIR, format.ExtraBytes)
	fmt.Printf("point count:       %d\n", r.PointCount())
	minX, minY, minZ, maxX, maxY, maxZ := h.Bounds()
	fmt.Printf("bounds:            [%g, %g, %g] -> [%g, %g, %g]\n", minX, minY, minZ, maxX, maxY, maxZ)
	fmt.Printf("scale:             %g, %g, %g\n", h.ScaleX, h.ScaleY, h.ScaleZ)
	fmt.Printf("offset:            %g, %g, %g\n", h.OffsetX, h.OffsetY, h.OffsetZ)
	fmt.Println()
	fmt.Printf("copc center:       %g, %g, %g\n", info.Center.X, info.Center.Y, info.Center.Z)
	fmt.Printf("copc halfsize:     %g\n", info.Halfsize)
	fmt.Printf("copc spacing:      %g\n", info.Spacing)
	fmt.Printf("root hier offset:  %d\n", info.RootHierOffset)
	fmt.Printf("root hier size:    %d\n", info.RootHierSize)
	fmt.Printf("gpstime range:     [%g, %g]\n", info.GPSTimeMinimum, info.GPSTimeMaximum)

	nodes, err := r.PlanQuery(copc.LodAll(), copc.BoundsAll())
	if err != nil {
		log.Fatalf("planning query: %v", err)
	}
	fmt.Printf("\noctree nodes (all levels): %d\n", len(nodes))
}
