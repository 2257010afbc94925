package fcimaps

import (
	"fmt"
	"sort"

	"github.com/plasmadyn/fluxgrid/internal/field"
	"github.com/plasmadyn/fluxgrid/internal/geometry"
	"github.com/plasmadyn/fluxgrid/internal/narray"
	"github.com/plasmadyn/fluxgrid/internal/progress"
	"github.com/plasmadyn/fluxgrid/internal/tracer"
)

// SentinelIndex marks traced points with no valid neighbour: the trace left
// the field's boundary, or the neighbouring plane does not exist.
const SentinelIndex = -1.0

// ParallelSlice groups the four map arrays for one signed parallel offset.
// R and Z hold the physical end points of the traces; XtPrime and ZtPrime
// hold the fractional index of the end point on the neighbouring plane, or
// SentinelIndex where there is no valid neighbour.
type ParallelSlice struct {
	Offset  int
	R       *narray.Array3D
	Z       *narray.Array3D
	XtPrime *narray.Array3D
	ZtPrime *narray.Array3D
}

// MapCollection is the keyed set of map arrays handed downstream: the base
// physical R/Z grids plus one ParallelSlice's fields per offset, named via
// ParallelSliceFieldName. All arrays share the shape (nx, ny, nz).
type MapCollection struct {
	NX, NY, NZ int

	fields map[string]*narray.Array3D
	names  []string // insertion order, for deterministic output
}

// NewMapCollection returns an empty collection for the given grid shape.
// Stores use it to rebuild collections read back from grid files.
func NewMapCollection(nx, ny, nz int) *MapCollection {
	return &MapCollection{
		NX: nx, NY: ny, NZ: nz,
		fields: make(map[string]*narray.Array3D),
	}
}

// Add inserts a named array. Names must be unique and every array must match
// the collection's shape.
func (mc *MapCollection) Add(name string, a *narray.Array3D) error {
	if _, exists := mc.fields[name]; exists {
		return fmt.Errorf("duplicate map field %q", name)
	}
	if a.NX != mc.NX || a.NY != mc.NY || a.NZ != mc.NZ {
		return fmt.Errorf("field %q shape %s does not match collection shape (%d, %d, %d)",
			name, a.ShapeString(), mc.NX, mc.NY, mc.NZ)
	}
	mc.fields[name] = a
	mc.names = append(mc.names, name)
	return nil
}

func (mc *MapCollection) mustAdd(name string, a *narray.Array3D) *narray.Array3D {
	if err := mc.Add(name, a); err != nil {
		panic("fcimaps: " + err.Error())
	}
	return a
}

// Field returns the named array, if present.
func (mc *MapCollection) Field(name string) (*narray.Array3D, bool) {
	a, ok := mc.fields[name]
	return a, ok
}

// Names returns the field names in insertion order.
func (mc *MapCollection) Names() []string {
	out := make([]string, len(mc.names))
	copy(out, mc.names)
	return out
}

// Slices groups the per-offset fields, forward offsets first in ascending
// magnitude, then backward. Offsets with an incomplete field group are
// skipped.
func (mc *MapCollection) Slices() []ParallelSlice {
	present := make(map[int]bool)
	var offsets []int
	for _, name := range mc.names {
		if f, offset, ok := ParseParallelSliceFieldName(name); ok && f == "R" && !present[offset] {
			present[offset] = true
			offsets = append(offsets, offset)
		}
	}
	sort.Slice(offsets, func(a, b int) bool {
		oa, ob := offsets[a], offsets[b]
		if (oa > 0) != (ob > 0) {
			return oa > 0
		}
		return abs(oa) < abs(ob)
	})

	var out []ParallelSlice
	for _, offset := range offsets {
		r, okR := mc.fields[ParallelSliceFieldName("R", offset)]
		z, okZ := mc.fields[ParallelSliceFieldName("Z", offset)]
		xt, okX := mc.fields[ParallelSliceFieldName("xt_prime", offset)]
		zt, okT := mc.fields[ParallelSliceFieldName("zt_prime", offset)]
		if !okR || !okZ || !okX || !okT {
			continue
		}
		out = append(out, ParallelSlice{Offset: offset, R: r, Z: z, XtPrime: xt, ZtPrime: zt})
	}
	return out
}

// Options configures BuildMaps.
type Options struct {
	// NSlice is the number of parallel slices in each direction; 0 means 1.
	NSlice int
	// RTol overrides the tracer's relative tolerance when positive.
	RTol float64
	// Progress receives advisory completion fractions; may be nil.
	Progress progress.Reporter
}

// BuildMaps traces field lines from every grid point to its neighbouring
// poloidal planes and returns the forward and backward parallel-transport
// maps. Offsets run {1..nslice} then {-1..-nslice}.
func BuildMaps(grid geometry.Grid, bfield field.MagneticField, opts Options) (*MapCollection, error) {
	nslice := opts.NSlice
	if nslice <= 0 {
		nslice = 1
	}

	ny := grid.NumberOfPlanes()
	if ny < 1 {
		return nil, fmt.Errorf("grid has no poloidal planes")
	}
	plane0, _, ok := grid.PlaneAt(0)
	if !ok {
		return nil, fmt.Errorf("grid has no plane at index 0")
	}
	// All poloidal planes are assumed to share the same point count.
	nx, nz := plane0.Size()

	mc := NewMapCollection(nx, ny, nz)

	// Base physical coordinates of every grid point.
	baseR := mc.mustAdd("R", narray.NewArray3D(nx, ny, nz))
	baseZ := mc.mustAdd("Z", narray.NewArray3D(nx, ny, nz))
	for j := 0; j < ny; j++ {
		plane, _, ok := grid.PlaneAt(j)
		if !ok {
			return nil, fmt.Errorf("grid plane %d missing", j)
		}
		baseR.SetSlice(j, plane.R())
		baseZ.SetSlice(j, plane.Z())
	}

	// Allocate the per-offset arrays up front so every key exists before
	// the long tracing loops start.
	slices := make([]ParallelSlice, 0, 2*nslice)
	for _, offset := range offsetOrder(nslice) {
		slices = append(slices, ParallelSlice{
			Offset:  offset,
			R:       mc.mustAdd(ParallelSliceFieldName("R", offset), narray.NewArray3D(nx, ny, nz)),
			Z:       mc.mustAdd(ParallelSliceFieldName("Z", offset), narray.NewArray3D(nx, ny, nz)),
			XtPrime: mc.mustAdd(ParallelSliceFieldName("xt_prime", offset), narray.NewArray3D(nx, ny, nz)),
			ZtPrime: mc.mustAdd(ParallelSliceFieldName("zt_prime", offset), narray.NewArray3D(nx, ny, nz)),
		})
	}

	ft := tracer.NewFieldTracerTol(bfield, opts.RTol)
	totalWork := float64(len(slices) * ny)
	done := 0

	for _, ps := range slices {
		for j := 0; j < ny; j++ {
			progress.Report(opts.Progress, float64(done)/totalWork)
			done++

			startPlane, yStart, ok := grid.PlaneAt(j)
			if !ok {
				return nil, fmt.Errorf("grid plane %d missing", j)
			}
			neighbour, yEnd, haveNeighbour := grid.PlaneAt(j + ps.Offset)

			end, err := ft.FollowTo(startPlane.R().Data, startPlane.Z().Data, yStart, yEnd)
			if err != nil {
				return nil, fmt.Errorf("offset %+d plane %d: %w", ps.Offset, j, err)
			}

			rEnd := make([]float64, len(end))
			zEnd := make([]float64, len(end))
			for n, p := range end {
				rEnd[n] = p.X
				zEnd[n] = p.Z
			}
			storeSlice(ps.R, j, rEnd)
			storeSlice(ps.Z, j, zEnd)

			if !haveNeighbour {
				// Trace left the y domain: no neighbour to land on.
				fillSlice(ps.XtPrime, j, SentinelIndex)
				fillSlice(ps.ZtPrime, j, SentinelIndex)
				continue
			}

			xind, zind := neighbour.FindIndex(rEnd, zEnd)
			boundary := bfield.Boundary()
			for n := range xind {
				if boundary.Outside(rEnd[n], zEnd[n], yEnd) {
					xind[n] = SentinelIndex
					zind[n] = SentinelIndex
				}
			}
			storeSlice(ps.XtPrime, j, xind)
			storeSlice(ps.ZtPrime, j, zind)
		}
	}
	progress.Report(opts.Progress, 1)

	return mc, nil
}

// offsetOrder returns {1..nslice, -1..-nslice}.
func offsetOrder(nslice int) []int {
	out := make([]int, 0, 2*nslice)
	for o := 1; o <= nslice; o++ {
		out = append(out, o)
	}
	for o := -1; o >= -nslice; o-- {
		out = append(out, o)
	}
	return out
}

// storeSlice writes a flattened (nx*nz) row-major slice into y-index j.
func storeSlice(a *narray.Array3D, j int, flat []float64) {
	for i := 0; i < a.NX; i++ {
		for k := 0; k < a.NZ; k++ {
			a.Set(i, j, k, flat[i*a.NZ+k])
		}
	}
}

func fillSlice(a *narray.Array3D, j int, v float64) {
	for i := 0; i < a.NX; i++ {
		for k := 0; k < a.NZ; k++ {
			a.Set(i, j, k, v)
		}
	}
}
