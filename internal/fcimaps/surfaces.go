package fcimaps

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/plasmadyn/fluxgrid/internal/field"
	"github.com/plasmadyn/fluxgrid/internal/geometry"
	"github.com/plasmadyn/fluxgrid/internal/interp"
	"github.com/plasmadyn/fluxgrid/internal/narray"
	"github.com/plasmadyn/fluxgrid/internal/tracer"
)

// SurfacePoints is the traced point cloud behind a surface interpolation:
// one trajectory per seed, sampled at every plane crossing over every
// revolution. Points[t][s] is seed s at crossing t, where t runs over
// revs*ny crossings. Labels[s] is the surface label of seed s.
type SurfacePoints struct {
	NY, Revs int
	Points   [][]tracer.Point2
	Labels   []float64
}

// TraceSurfaces follows nsurfaces seed points through revs full y periods,
// recording each poloidal plane crossing. Seeds are spaced evenly from the
// grid centre out to half the maximum radial extent, at the central z, and
// labelled linearly in [0, 1] from innermost to outermost.
func TraceSurfaces(grid geometry.Regular, bfield field.MagneticField, nsurfaces, revs int) (*SurfacePoints, error) {
	if nsurfaces < 2 {
		return nil, fmt.Errorf("need at least 2 surfaces to label them in [0, 1], got %d", nsurfaces)
	}
	if revs < 1 {
		return nil, fmt.Errorf("need at least 1 revolution, got %d", revs)
	}

	xarr := grid.XArray()
	xmax := xarr[0]
	for _, v := range xarr {
		if v > xmax {
			xmax = v
		}
	}

	xpos := make([]float64, nsurfaces)
	floats.Span(xpos, 0, 0.5*xmax)
	zpos := make([]float64, nsurfaces)
	for i := range xpos {
		xpos[i] += grid.XCentre()
		zpos[i] = grid.ZCentre()
	}

	// Replicate the plane y values over revs periods.
	yarr := grid.YArray()
	ny := len(yarr)
	yVals := make([]float64, 0, revs*ny)
	for n := 0; n < revs; n++ {
		for _, y := range yarr {
			yVals = append(yVals, float64(n)*grid.Ly()+y)
		}
	}

	ft := tracer.NewFieldTracer(bfield)
	points, err := ft.FollowFieldLines(xpos, zpos, yVals)
	if err != nil {
		return nil, fmt.Errorf("tracing surfaces: %w", err)
	}

	labels := make([]float64, nsurfaces)
	floats.Span(labels, 0, 1)

	return &SurfacePoints{NY: ny, Revs: revs, Points: points, Labels: labels}, nil
}

// MakeSurfaces interpolates pseudo flux surfaces onto the grid mesh: a
// Poincare section of traced surfaces, scatter-interpolated per y-slice with
// fill value 1 outside the outermost surface. The result is shaped like the
// grid and is a visualisation aid, not a physical flux.
func MakeSurfaces(grid geometry.Regular, bfield field.MagneticField, nsurfaces, revs int) (*narray.Array3D, error) {
	sp, err := TraceSurfaces(grid, bfield, nsurfaces, revs)
	if err != nil {
		return nil, err
	}

	xarr, zarr := grid.XArray(), grid.ZArray()
	ny := sp.NY
	psi := narray.NewArray3D(len(xarr), ny, len(zarr))

	nseeds := len(sp.Labels)
	cloudX := make([]float64, 0, sp.Revs*nseeds)
	cloudZ := make([]float64, 0, sp.Revs*nseeds)
	cloudV := make([]float64, 0, sp.Revs*nseeds)

	for j := 0; j < ny; j++ {
		cloudX, cloudZ, cloudV = cloudX[:0], cloudZ[:0], cloudV[:0]
		for rev := 0; rev < sp.Revs; rev++ {
			row := sp.Points[rev*ny+j]
			for s, p := range row {
				cloudX = append(cloudX, p.X)
				cloudZ = append(cloudZ, p.Z)
				cloudV = append(cloudV, sp.Labels[s])
			}
		}
		slice, err := interp.Griddata(cloudX, cloudZ, cloudV, xarr, zarr, 1)
		if err != nil {
			return nil, fmt.Errorf("surface interpolation at y-slice %d: %w", j, err)
		}
		psi.SetSlice(j, slice)
	}
	return psi, nil
}
