// Package export renders fields, maps and traced surfaces for visualisation:
// legacy-format VTK files, PNG Poincare sections, and interactive HTML
// charts. Everything here is presentation; results never feed back into the
// map computations.
package export

import (
	"bufio"
	"fmt"
	"os"

	"github.com/plasmadyn/fluxgrid/internal/fcimaps"
	"github.com/plasmadyn/fluxgrid/internal/field"
	"github.com/plasmadyn/fluxgrid/internal/geometry"
	"github.com/plasmadyn/fluxgrid/internal/narray"
)

// WriteBFieldVTK writes the magnetic field vectors on the grid to a legacy
// rectilinear VTK file. The poloidal axes are stretched by scale so the
// typically thin x/z extent is visible next to y. An optional psi array
// (from MakeSurfaces) is written as a scalar attribute.
func WriteBFieldVTK(path string, grid geometry.Regular, bfield field.MagneticField, scale float64, psi *narray.Array3D) error {
	xarr, yarr, zarr := grid.XArray(), grid.YArray(), grid.ZArray()
	nx, ny, nz := len(xarr), len(yarr), len(zarr)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	writeVTKHeader(w, "fluxgrid magnetic field", xarr, yarr, zarr, scale)

	fmt.Fprintf(w, "POINT_DATA %d\n", nx*ny*nz)
	fmt.Fprintln(w, "VECTORS B double")
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				bx, bz, by := bfield.Sample(xarr[i], zarr[k], yarr[j])
				fmt.Fprintf(w, "%g %g %g\n", bx*scale, by, bz*scale)
			}
		}
	}

	if psi != nil {
		if psi.NX != nx || psi.NY != ny || psi.NZ != nz {
			return fmt.Errorf("psi shape %s does not match grid (%d, %d, %d)",
				psi.ShapeString(), nx, ny, nz)
		}
		fmt.Fprintln(w, "SCALARS psi double 1")
		fmt.Fprintln(w, "LOOKUP_TABLE default")
		for k := 0; k < nz; k++ {
			for j := 0; j < ny; j++ {
				for i := 0; i < nx; i++ {
					fmt.Fprintf(w, "%g\n", psi.At(i, j, k))
				}
			}
		}
	}
	return w.Flush()
}

// WriteMapsVTK re-expresses the forward single-step maps as displacement
// vectors in index space (xt_prime minus the index grid) and writes them to
// a legacy VTK file, so the field-line connectivity can be inspected even
// when the original field is no longer available.
func WriteMapsVTK(path string, mc *fcimaps.MapCollection, scale float64) error {
	xt, ok := mc.Field(fcimaps.ParallelSliceFieldName("xt_prime", 1))
	if !ok {
		return fmt.Errorf("maps are missing the forward xt_prime field")
	}
	zt, ok := mc.Field(fcimaps.ParallelSliceFieldName("zt_prime", 1))
	if !ok {
		return fmt.Errorf("maps are missing the forward zt_prime field")
	}
	nx, ny, nz := xt.Shape()

	xarr := indexAxis(nx)
	yarr := indexAxis(ny)
	zarr := indexAxis(nz)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	writeVTKHeader(w, "fluxgrid forward maps", xarr, yarr, zarr, scale)

	fmt.Fprintf(w, "POINT_DATA %d\n", nx*ny*nz)
	fmt.Fprintln(w, "VECTORS B double")
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				bx := xt.At(i, j, k) - float64(i)
				bz := zt.At(i, j, k) - float64(k)
				fmt.Fprintf(w, "%g %g %g\n", bx*scale, 1.0, bz*scale)
			}
		}
	}
	return w.Flush()
}

func writeVTKHeader(w *bufio.Writer, title string, xarr, yarr, zarr []float64, scale float64) {
	fmt.Fprintln(w, "# vtk DataFile Version 3.0")
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "ASCII")
	fmt.Fprintln(w, "DATASET RECTILINEAR_GRID")
	fmt.Fprintf(w, "DIMENSIONS %d %d %d\n", len(xarr), len(yarr), len(zarr))
	writeVTKAxis(w, "X_COORDINATES", xarr, scale)
	writeVTKAxis(w, "Y_COORDINATES", yarr, 1)
	writeVTKAxis(w, "Z_COORDINATES", zarr, scale)
}

func writeVTKAxis(w *bufio.Writer, label string, vals []float64, scale float64) {
	fmt.Fprintf(w, "%s %d double\n", label, len(vals))
	for i, v := range vals {
		if i > 0 {
			fmt.Fprint(w, " ")
		}
		fmt.Fprintf(w, "%g", v*scale)
	}
	fmt.Fprintln(w)
}

func indexAxis(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
