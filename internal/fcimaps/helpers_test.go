package fcimaps

import "github.com/plasmadyn/fluxgrid/internal/narray"

func newTestArray(nx, ny, nz int) *narray.Array3D {
	return narray.NewArray3D(nx, ny, nz)
}

// rampArray fills an array with a value distinct per position.
func rampArray(nx, ny, nz int) *narray.Array3D {
	a := narray.NewArray3D(nx, ny, nz)
	for i := range a.Data {
		a.Data[i] = float64(i) * 0.5
	}
	return a
}
