package fcimaps

import (
	"fmt"
	"sort"

	"github.com/plasmadyn/fluxgrid/internal/field"
	"github.com/plasmadyn/fluxgrid/internal/geometry"
	"github.com/plasmadyn/fluxgrid/internal/narray"
)

// SampleAttributes evaluates every named attribute of the field, plus the
// field magnitude under the name "B", over the whole grid. These arrays
// accompany the maps into the grid file as diagnostics.
func SampleAttributes(grid geometry.Grid, bfield field.MagneticField) (map[string]*narray.Array3D, error) {
	ny := grid.NumberOfPlanes()
	plane0, _, ok := grid.PlaneAt(0)
	if !ok {
		return nil, fmt.Errorf("grid has no plane at index 0")
	}
	nx, nz := plane0.Size()

	names := make([]string, 0, len(bfield.Attributes())+1)
	for name := range bfield.Attributes() {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]*narray.Array3D, len(names)+1)
	bmag := narray.NewArray3D(nx, ny, nz)
	out["B"] = bmag
	for _, name := range names {
		out[name] = narray.NewArray3D(nx, ny, nz)
	}

	for j := 0; j < ny; j++ {
		plane, y, ok := grid.PlaneAt(j)
		if !ok {
			return nil, fmt.Errorf("grid plane %d missing", j)
		}
		r, z := plane.R(), plane.Z()
		for i := 0; i < nx; i++ {
			for k := 0; k < nz; k++ {
				bmag.Set(i, j, k, field.Magnitude(bfield, r.At(i, k), z.At(i, k), y))
			}
		}
		for _, name := range names {
			sample := bfield.Attributes()[name]
			a := out[name]
			for i := 0; i < nx; i++ {
				for k := 0; k < nz; k++ {
					a.Set(i, j, k, sample(r.At(i, k), z.At(i, k), y))
				}
			}
		}
	}
	return out, nil
}
