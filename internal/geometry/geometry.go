// Package geometry defines the grid capability contract consumed by the map
// builder: an ordered stack of poloidal planes with a spatial index lookup.
//
// Grid generation itself lives upstream; this package carries only the
// contract plus the rectangular reference implementation used by the CLI and
// tests.
package geometry

import (
	"github.com/plasmadyn/fluxgrid/internal/narray"
)

// PoloidalPlane is one structured (nx, nz) mesh of physical (R, Z)
// coordinates with a fractional index lookup.
type PoloidalPlane interface {
	// Size returns the mesh dimensions.
	Size() (nx, nz int)
	// R and Z return the per-point physical coordinates.
	R() *narray.Array2D
	Z() *narray.Array2D
	// FindIndex maps physical coordinates to fractional mesh indices. The
	// returned slices have the same length as the inputs. Values may lie
	// outside [0, n-1]; callers apply their own boundary handling.
	FindIndex(r, z []float64) (xind, zind []float64)
}

// Grid is an ordered sequence of poloidal planes along y.
type Grid interface {
	// NumberOfPlanes returns ny.
	NumberOfPlanes() int
	// PlaneAt returns the plane at index j and its y coordinate. The index
	// may be any integer; ok reports whether a plane exists there. When ok
	// is false the returned y is still the best-effort y for that index so
	// that field lines can be traced toward an absent neighbour.
	PlaneAt(j int) (plane PoloidalPlane, y float64, ok bool)
}

// Regular is a Grid whose planes share a single rectangular (x, z) mesh with
// uniform y spacing. The surface interpolator and exporters require this.
type Regular interface {
	Grid
	// XArray, YArray and ZArray return the shared axis coordinates.
	XArray() []float64
	YArray() []float64
	ZArray() []float64
	// XCentre and ZCentre return the centre of the poloidal domain.
	XCentre() float64
	ZCentre() float64
	// Ly returns the length of the y domain.
	Ly() float64
}
