package fcimaps

import (
	"errors"
	"fmt"

	"github.com/plasmadyn/fluxgrid/internal/interp"
	"github.com/plasmadyn/fluxgrid/internal/narray"
	"github.com/plasmadyn/fluxgrid/internal/progress"
)

// ErrShapeMismatch is wrapped into Upscale errors when the supplied field
// cannot be reconciled with the map grid.
var ErrShapeMismatch = errors.New("field shape does not match grid")

// Upscale increases the y resolution of f by factor, interpolating along the
// forward field-line maps. The result is shaped (nx, factor*ny, nz). The y
// dimension is treated as periodic: the segment from the last plane leads
// back to plane 0.
//
// Fields supplied with a transposed memory layout but the right total size
// are recovered by reinterpretation, matching the downstream file ordering.
func Upscale(f *narray.Array3D, maps *MapCollection, factor int, rep progress.Reporter) (*narray.Array3D, error) {
	if factor < 1 {
		return nil, fmt.Errorf("upscale factor must be >= 1, got %d", factor)
	}
	xt, ok := maps.Field(ParallelSliceFieldName("xt_prime", 1))
	if !ok {
		return nil, fmt.Errorf("maps are missing the forward xt_prime field")
	}
	zt, ok := maps.Field(ParallelSliceFieldName("zt_prime", 1))
	if !ok {
		return nil, fmt.Errorf("maps are missing the forward zt_prime field")
	}

	nx, ny, nz := xt.Shape()
	if f.NX != nx || f.NY != ny || f.NZ != nz {
		if f.Len() != nx*ny*nz {
			return nil, fmt.Errorf("field %s must be same shape as grid %s: %w",
				f.ShapeString(), xt.ShapeString(), ErrShapeMismatch)
		}
		// Same data in transposed layout: reinterpret and flip the axes.
		flipped := &narray.Array3D{NX: nz, NY: ny, NZ: nx, Data: f.Data}
		f = flipped.Transposed()
	}

	// Field values at the forward end point of every segment. The end
	// point's y index is the next plane, wrapping to 0 at the top.
	fPrime := narray.NewArray3D(nx, ny, nz)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			jup := j + 1
			if jup == ny {
				jup = 0
			}
			for k := 0; k < nz; k++ {
				fPrime.Set(i, j, k,
					interp.Trilinear(f, xt.At(i, j, k), float64(jup), zt.At(i, j, k)))
			}
		}
	}

	// Index-space query mesh shared by every output slice.
	xq := make([]float64, nx)
	for i := range xq {
		xq[i] = float64(i)
	}
	zq := make([]float64, nz)
	for k := range zq {
		zq[k] = float64(k)
	}

	out := narray.NewArray3D(nx, factor*ny, nz)
	cloudX := make([]float64, nx*nz)
	cloudZ := make([]float64, nx*nz)
	cloudV := make([]float64, nx*nz)

	total := float64(factor * ny)
	for j := 0; j < ny; j++ {
		for m := 0; m < factor; m++ {
			t := float64(m) / float64(factor)
			n := 0
			for i := 0; i < nx; i++ {
				for k := 0; k < nz; k++ {
					cloudV[n] = (1-t)*f.At(i, j, k) + t*fPrime.At(i, j, k)
					cloudX[n] = (1-t)*float64(i) + t*xt.At(i, j, k)
					cloudZ[n] = (1-t)*float64(k) + t*zt.At(i, j, k)
					n++
				}
			}
			jy := j*factor + m
			slice, err := interp.Griddata(cloudX, cloudZ, cloudV, xq, zq, 0)
			if err != nil {
				return nil, fmt.Errorf("upscale interpolation at y-slice %d: %w", jy, err)
			}
			out.SetSlice(jy, slice)
			progress.Report(rep, float64(jy+1)/total)
		}
	}
	return out, nil
}
