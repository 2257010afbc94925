// Package interp provides the two interpolation primitives the map engine
// needs: multilinear resampling of dense arrays at fractional indices, and
// linear interpolation of scattered 2D point clouds onto regular meshes.
package interp

import (
	"math"

	"github.com/plasmadyn/fluxgrid/internal/narray"
)

// Trilinear samples a at the fractional index coordinates (ci, cj, ck).
// Coordinates are clamped to the array bounds, so callers that guarantee
// interior points only pay for round-off protection.
func Trilinear(a *narray.Array3D, ci, cj, ck float64) float64 {
	ci = clamp(ci, 0, float64(a.NX-1))
	cj = clamp(cj, 0, float64(a.NY-1))
	ck = clamp(ck, 0, float64(a.NZ-1))

	i0 := int(math.Floor(ci))
	j0 := int(math.Floor(cj))
	k0 := int(math.Floor(ck))
	if i0 > a.NX-2 {
		i0 = a.NX - 2
	}
	if j0 > a.NY-2 {
		j0 = a.NY - 2
	}
	if k0 > a.NZ-2 {
		k0 = a.NZ - 2
	}
	// Degenerate axes (length 1) collapse to index 0.
	if i0 < 0 {
		i0 = 0
	}
	if j0 < 0 {
		j0 = 0
	}
	if k0 < 0 {
		k0 = 0
	}
	i1, j1, k1 := minInt(i0+1, a.NX-1), minInt(j0+1, a.NY-1), minInt(k0+1, a.NZ-1)

	fx := ci - float64(i0)
	fy := cj - float64(j0)
	fz := ck - float64(k0)

	c000 := a.At(i0, j0, k0)
	c001 := a.At(i0, j0, k1)
	c010 := a.At(i0, j1, k0)
	c011 := a.At(i0, j1, k1)
	c100 := a.At(i1, j0, k0)
	c101 := a.At(i1, j0, k1)
	c110 := a.At(i1, j1, k0)
	c111 := a.At(i1, j1, k1)

	c00 := c000*(1-fx) + c100*fx
	c01 := c001*(1-fx) + c101*fx
	c10 := c010*(1-fx) + c110*fx
	c11 := c011*(1-fx) + c111*fx

	c0 := c00*(1-fy) + c10*fy
	c1 := c01*(1-fy) + c11*fy

	return c0*(1-fz) + c1*fz
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
