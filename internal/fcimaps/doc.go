// Package fcimaps builds the parallel-transport maps used by
// flux-coordinate-independent simulations.
//
// Responsibilities: tracing field lines between poloidal planes, converting
// landing points to fractional grid indices with boundary masking, building
// pseudo flux surfaces, and upscaling field resolution along the maps.
// Key types: MapCollection, ParallelSlice, Options.
//
// Grid and field construction live in internal/geometry and internal/field;
// no file or database I/O is allowed in this package.
package fcimaps
