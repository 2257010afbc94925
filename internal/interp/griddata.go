package interp

import (
	"errors"
	"fmt"
	"math"

	"github.com/fogleman/delaunay"

	"github.com/plasmadyn/fluxgrid/internal/narray"
)

// ErrDegenerate is returned when a point cloud cannot support linear
// interpolation (fewer than three distinct points, or all collinear).
var ErrDegenerate = errors.New("degenerate point cloud")

// Scattered2D interpolates values linearly over an unstructured 2D point
// cloud. Inside the convex hull queries are barycentric interpolation on the
// Delaunay triangulation; outside they report no coverage and callers
// substitute their fill value.
type Scattered2D struct {
	tri    *delaunay.Triangulation
	values []float64

	// Uniform bucket index over triangle bounding boxes.
	cellsX, cellsZ int
	minX, minZ     float64
	invDX, invDZ   float64
	buckets        [][]int32
}

// NewScattered2D triangulates the cloud given by parallel slices x, z, v.
// Coincident points are collapsed to the first occurrence before
// triangulation; clouds that cannot form a triangle return ErrDegenerate.
func NewScattered2D(x, z, v []float64) (*Scattered2D, error) {
	if len(x) != len(z) || len(x) != len(v) {
		return nil, fmt.Errorf("mismatched cloud slices: %d x, %d z, %d values",
			len(x), len(z), len(v))
	}

	// Collapse coincident points; duplicate sites break the triangulation
	// and carry no extra information.
	type key struct{ x, z float64 }
	seen := make(map[key]struct{}, len(x))
	pts := make([]delaunay.Point, 0, len(x))
	vals := make([]float64, 0, len(v))
	for i := range x {
		k := key{quantize(x[i]), quantize(z[i])}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		pts = append(pts, delaunay.Point{X: x[i], Y: z[i]})
		vals = append(vals, v[i])
	}
	if len(pts) < 3 {
		return nil, fmt.Errorf("%d distinct points: %w", len(pts), ErrDegenerate)
	}

	tri, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, fmt.Errorf("triangulate %d points: %v: %w", len(pts), err, ErrDegenerate)
	}
	if len(tri.Triangles) == 0 {
		return nil, fmt.Errorf("collinear cloud of %d points: %w", len(pts), ErrDegenerate)
	}

	s := &Scattered2D{tri: tri, values: vals}
	s.buildIndex()
	return s, nil
}

// quantize merges points closer than ~1e-12 of each other.
func quantize(v float64) float64 {
	return math.Round(v*1e12) / 1e12
}

func (s *Scattered2D) buildIndex() {
	nt := len(s.tri.Triangles) / 3
	n := int(math.Sqrt(float64(nt)))
	if n < 1 {
		n = 1
	}
	s.cellsX, s.cellsZ = n, n

	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	for _, p := range s.tri.Points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minZ = math.Min(minZ, p.Y)
		maxZ = math.Max(maxZ, p.Y)
	}
	spanX := maxX - minX
	spanZ := maxZ - minZ
	if spanX <= 0 {
		spanX = 1
	}
	if spanZ <= 0 {
		spanZ = 1
	}
	s.minX, s.minZ = minX, minZ
	s.invDX = float64(s.cellsX) / spanX
	s.invDZ = float64(s.cellsZ) / spanZ
	s.buckets = make([][]int32, s.cellsX*s.cellsZ)

	for t := 0; t < nt; t++ {
		a := s.tri.Points[s.tri.Triangles[3*t]]
		b := s.tri.Points[s.tri.Triangles[3*t+1]]
		c := s.tri.Points[s.tri.Triangles[3*t+2]]
		x0 := math.Min(a.X, math.Min(b.X, c.X))
		x1 := math.Max(a.X, math.Max(b.X, c.X))
		z0 := math.Min(a.Y, math.Min(b.Y, c.Y))
		z1 := math.Max(a.Y, math.Max(b.Y, c.Y))
		ix0, iz0 := s.cellOf(x0, z0)
		ix1, iz1 := s.cellOf(x1, z1)
		for ix := ix0; ix <= ix1; ix++ {
			for iz := iz0; iz <= iz1; iz++ {
				idx := ix*s.cellsZ + iz
				s.buckets[idx] = append(s.buckets[idx], int32(t))
			}
		}
	}
}

func (s *Scattered2D) cellOf(x, z float64) (int, int) {
	ix := int((x - s.minX) * s.invDX)
	iz := int((z - s.minZ) * s.invDZ)
	if ix < 0 {
		ix = 0
	} else if ix >= s.cellsX {
		ix = s.cellsX - 1
	}
	if iz < 0 {
		iz = 0
	} else if iz >= s.cellsZ {
		iz = s.cellsZ - 1
	}
	return ix, iz
}

// At evaluates the interpolant at (x, z). ok reports whether the point lies
// inside the convex hull of the cloud.
func (s *Scattered2D) At(x, z float64) (float64, bool) {
	ix, iz := s.cellOf(x, z)
	const eps = 1e-10
	for _, t := range s.buckets[ix*s.cellsZ+iz] {
		ia := s.tri.Triangles[3*t]
		ib := s.tri.Triangles[3*t+1]
		ic := s.tri.Triangles[3*t+2]
		a, b, c := s.tri.Points[ia], s.tri.Points[ib], s.tri.Points[ic]

		det := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
		if math.Abs(det) < 1e-300 {
			continue
		}
		w1 := ((x-a.X)*(c.Y-a.Y) - (c.X-a.X)*(z-a.Y)) / det
		w2 := ((b.X-a.X)*(z-a.Y) - (x-a.X)*(b.Y-a.Y)) / det
		w0 := 1 - w1 - w2
		if w0 < -eps || w1 < -eps || w2 < -eps {
			continue
		}
		return w0*s.values[ia] + w1*s.values[ib] + w2*s.values[ic], true
	}
	return 0, false
}

// Grid evaluates the interpolant on the tensor mesh xq by zq, substituting
// fill outside the hull. Result shape is (len(xq), len(zq)).
func (s *Scattered2D) Grid(xq, zq []float64, fill float64) *narray.Array2D {
	out := narray.NewArray2D(len(xq), len(zq))
	for i, x := range xq {
		for k, z := range zq {
			v, ok := s.At(x, z)
			if !ok {
				v = fill
			}
			out.Set(i, k, v)
		}
	}
	return out
}

// Griddata is the one-shot form: triangulate (x, z, v) and evaluate on the
// tensor mesh xq by zq with the given fill value.
func Griddata(x, z, v, xq, zq []float64, fill float64) (*narray.Array2D, error) {
	s, err := NewScattered2D(x, z, v)
	if err != nil {
		return nil, err
	}
	return s.Grid(xq, zq, fill), nil
}
