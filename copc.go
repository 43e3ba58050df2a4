// Package copc implements Cloud Optimized Point Cloud (COPC) files: a
// profile of LAS 1.4 / LAZ 1.4 in which point records are organized as a
// spatially indexed octree persisted alongside a hierarchy index, so a
// Reader can issue seekable, level-of-detail and bounding-box queries over
// arbitrarily large point clouds served from a local file or an HTTP range
// endpoint.
//
// The package owns the COPC container model (header/VLR layout, CopcInfo,
// the EPT hierarchy, octree key algebra), the query planner and streaming
// reader, and the octree builder and streaming writer. It delegates the
// LAZ 1.4 layered entropy codec, EPSG→WKT CRS resolution, and byte-range
// HTTP transport to small interfaces a caller supplies; see
// internal/laz.CodecFactory, crs.Resolver, and iosrc.Source.
package copc
