// Package tracer integrates magnetic field lines through a sampled field.
//
// A field line through (x, z) at parameter y satisfies
//
//	dx/dy = bx/by,  dz/dy = bz/by
//
// with (bx, bz, by) sampled from the field at the current position. The
// integrator is an adaptive Dormand-Prince 5(4) scheme; the tolerance can be
// overridden per tracer.
package tracer

import (
	"fmt"
	"math"

	"github.com/plasmadyn/fluxgrid/internal/field"
)

// Point2 is an (x, z) position in a poloidal plane.
type Point2 struct {
	X, Z float64
}

// FieldTracer follows field lines through one magnetic field. It holds no
// mutable state between calls and is safe to reuse.
type FieldTracer struct {
	field field.MagneticField
	rtol  float64
}

// NewFieldTracer returns a tracer over f with the default relative tolerance.
func NewFieldTracer(f field.MagneticField) *FieldTracer {
	return &FieldTracer{field: f}
}

// NewFieldTracerTol returns a tracer with an explicit relative tolerance.
// rtol <= 0 selects the default.
func NewFieldTracerTol(f field.MagneticField, rtol float64) *FieldTracer {
	return &FieldTracer{field: f, rtol: rtol}
}

func (ft *FieldTracer) rhs(y float64, s, ds []float64) error {
	bx, bz, by := ft.field.Sample(s[0], s[1], y)
	if by == 0 || !isFinite(bx) || !isFinite(bz) || !isFinite(by) {
		return fmt.Errorf("field sample (%g, %g, %g) at (x=%g, z=%g, y=%g): %w",
			bx, bz, by, s[0], s[1], y, ErrNonFinite)
	}
	ds[0] = bx / by
	ds[1] = bz / by
	return nil
}

// FollowFieldLines traces a field line from each (xStart[i], zStart[i])
// through the ordered parameter values yVals. The result is indexed
// [t][i]: the position of start point i at yVals[t]. The first row echoes
// the starting positions, so yVals[0] is the initial y.
//
// Start points are traced independently; a single failed integration aborts
// the whole call with the underlying error.
func (ft *FieldTracer) FollowFieldLines(xStart, zStart []float64, yVals []float64) ([][]Point2, error) {
	if len(xStart) != len(zStart) {
		return nil, fmt.Errorf("mismatched start points: %d x values, %d z values",
			len(xStart), len(zStart))
	}
	if len(yVals) == 0 {
		return nil, fmt.Errorf("no target y values supplied")
	}

	out := make([][]Point2, len(yVals))
	for t := range out {
		out[t] = make([]Point2, len(xStart))
	}

	s := make([]float64, 2)
	for i := range xStart {
		s[0], s[1] = xStart[i], zStart[i]
		out[0][i] = Point2{X: s[0], Z: s[1]}
		for t := 1; t < len(yVals); t++ {
			if err := integrateRK45(ft.rhs, yVals[t-1], yVals[t], s, ft.rtol); err != nil {
				return nil, fmt.Errorf("field line from (x=%g, z=%g): %w",
					xStart[i], zStart[i], err)
			}
			out[t][i] = Point2{X: s[0], Z: s[1]}
		}
	}
	return out, nil
}

// FollowTo traces every start point from y0 to a single target y1 and
// returns only the end positions.
func (ft *FieldTracer) FollowTo(xStart, zStart []float64, y0, y1 float64) ([]Point2, error) {
	res, err := ft.FollowFieldLines(xStart, zStart, []float64{y0, y1})
	if err != nil {
		return nil, err
	}
	return res[1], nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
