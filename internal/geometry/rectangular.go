package geometry

import (
	"fmt"

	"github.com/plasmadyn/fluxgrid/internal/narray"
)

// RectangularPlane is a uniformly spaced (nx, nz) mesh. R runs along the
// first index, Z along the second, so FindIndex inverts the spacing directly.
type RectangularPlane struct {
	nx, nz int
	r, z   *narray.Array2D
	x0, z0 float64
	dx, dz float64
}

// NewRectangularPlane builds a plane with x in [x0, x0+(nx-1)*dx] and z in
// [z0, z0+(nz-1)*dz].
func NewRectangularPlane(nx, nz int, x0, dx, z0, dz float64) *RectangularPlane {
	p := &RectangularPlane{
		nx: nx, nz: nz,
		r: narray.NewArray2D(nx, nz),
		z: narray.NewArray2D(nx, nz),
		x0: x0, z0: z0, dx: dx, dz: dz,
	}
	for i := 0; i < nx; i++ {
		for k := 0; k < nz; k++ {
			p.r.Set(i, k, x0+float64(i)*dx)
			p.z.Set(i, k, z0+float64(k)*dz)
		}
	}
	return p
}

// Size returns the mesh dimensions.
func (p *RectangularPlane) Size() (int, int) { return p.nx, p.nz }

// R returns the per-point R coordinates.
func (p *RectangularPlane) R() *narray.Array2D { return p.r }

// Z returns the per-point Z coordinates.
func (p *RectangularPlane) Z() *narray.Array2D { return p.z }

// FindIndex maps physical coordinates to fractional mesh indices by
// inverting the uniform spacing.
func (p *RectangularPlane) FindIndex(r, z []float64) ([]float64, []float64) {
	xind := make([]float64, len(r))
	zind := make([]float64, len(z))
	for n := range r {
		xind[n] = (r[n] - p.x0) / p.dx
		zind[n] = (z[n] - p.z0) / p.dz
	}
	return xind, zind
}

// RectangularGrid is a stack of ny identical rectangular planes, uniformly
// spaced in y. With PeriodicY set (the default construction), plane indices
// wrap while y continues linearly, so tracing across the y boundary follows
// the physical continuation of the field line.
type RectangularGrid struct {
	nx, ny, nz int
	plane      *RectangularPlane
	ly, dy     float64
	periodicY  bool
	xarr, zarr []float64
	yarr       []float64
}

// NewRectangularGrid builds an nx by ny by nz grid covering [0, lx] in x,
// [0, ly) in y (periodic) and [0, lz] in z.
func NewRectangularGrid(nx, ny, nz int, lx, ly, lz float64) (*RectangularGrid, error) {
	return newRectangularGrid(nx, ny, nz, lx, ly, lz, true)
}

// NewBoundedRectangularGrid is NewRectangularGrid without y periodicity:
// planes beyond the ends do not exist and map points there carry the -1
// sentinel.
func NewBoundedRectangularGrid(nx, ny, nz int, lx, ly, lz float64) (*RectangularGrid, error) {
	return newRectangularGrid(nx, ny, nz, lx, ly, lz, false)
}

func newRectangularGrid(nx, ny, nz int, lx, ly, lz float64, periodic bool) (*RectangularGrid, error) {
	if nx < 2 || nz < 2 {
		return nil, fmt.Errorf("rectangular grid needs nx, nz >= 2, got %d, %d", nx, nz)
	}
	if ny < 1 {
		return nil, fmt.Errorf("rectangular grid needs ny >= 1, got %d", ny)
	}
	dx := lx / float64(nx-1)
	dz := lz / float64(nz-1)
	dy := ly / float64(ny)
	g := &RectangularGrid{
		nx: nx, ny: ny, nz: nz,
		plane:     NewRectangularPlane(nx, nz, 0, dx, 0, dz),
		ly:        ly,
		dy:        dy,
		periodicY: periodic,
		xarr:      make([]float64, nx),
		yarr:      make([]float64, ny),
		zarr:      make([]float64, nz),
	}
	for i := range g.xarr {
		g.xarr[i] = float64(i) * dx
	}
	for j := range g.yarr {
		g.yarr[j] = float64(j) * dy
	}
	for k := range g.zarr {
		g.zarr[k] = float64(k) * dz
	}
	return g, nil
}

// NumberOfPlanes returns ny.
func (g *RectangularGrid) NumberOfPlanes() int { return g.ny }

// PlaneAt returns the plane at index j. All planes share one mesh; only the
// y coordinate differs. For periodic grids any j is valid and y continues
// linearly past the ends.
func (g *RectangularGrid) PlaneAt(j int) (PoloidalPlane, float64, bool) {
	y := float64(j) * g.dy
	if j >= 0 && j < g.ny {
		return g.plane, y, true
	}
	if g.periodicY {
		return g.plane, y, true
	}
	return nil, y, false
}

// XArray returns the shared x axis coordinates.
func (g *RectangularGrid) XArray() []float64 { return g.xarr }

// YArray returns the plane y coordinates.
func (g *RectangularGrid) YArray() []float64 { return g.yarr }

// ZArray returns the shared z axis coordinates.
func (g *RectangularGrid) ZArray() []float64 { return g.zarr }

// XCentre returns the midpoint of the x domain.
func (g *RectangularGrid) XCentre() float64 { return g.xarr[g.nx-1] / 2 }

// ZCentre returns the midpoint of the z domain.
func (g *RectangularGrid) ZCentre() float64 { return g.zarr[g.nz-1] / 2 }

// Ly returns the length of the y domain.
func (g *RectangularGrid) Ly() float64 { return g.ly }
