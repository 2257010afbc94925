package tracer

import (
	"errors"
	"math"
	"testing"

	"github.com/plasmadyn/fluxgrid/internal/field"
)

// funcField adapts a closure to field.MagneticField for tests.
type funcField struct {
	sample func(x, z, y float64) (float64, float64, float64)
}

func (f funcField) Sample(x, z, y float64) (float64, float64, float64) { return f.sample(x, z, y) }
func (f funcField) Boundary() field.Boundary                           { return field.NoBoundary{} }
func (f funcField) Attributes() map[string]field.Sampler               { return nil }

func TestFollowFieldLinesStraight(t *testing.T) {
	ft := NewFieldTracer(field.NewStraight())
	xs := []float64{0.1, 0.5, 0.9}
	zs := []float64{-0.3, 0, 0.3}

	res, err := ft.FollowFieldLines(xs, zs, []float64{0, 1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 4 || len(res[0]) != 3 {
		t.Fatalf("result shape = (%d, %d), want (4, 3)", len(res), len(res[0]))
	}
	// A straight field leaves every point where it started, at every target.
	for ti, row := range res {
		for i, p := range row {
			if math.Abs(p.X-xs[i]) > 1e-10 || math.Abs(p.Z-zs[i]) > 1e-10 {
				t.Fatalf("row %d point %d moved to (%v, %v)", ti, i, p.X, p.Z)
			}
		}
	}
}

func TestFollowFieldLinesFirstRowEchoesStart(t *testing.T) {
	slab := field.NewSlab()
	ft := NewFieldTracer(slab)
	res, err := ft.FollowFieldLines([]float64{0.2}, []float64{0.4}, []float64{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if res[0][0].X != 0.2 || res[0][0].Z != 0.4 {
		t.Fatalf("first row = %+v, want the initial position", res[0][0])
	}
}

func TestConstantDrift(t *testing.T) {
	// bz/by = 0.25 and no shear: z drifts linearly, x stays put.
	f := &field.Slab{By: 1, Bz: 0.25, BzPrime: 0}
	ft := NewFieldTracer(f)

	end, err := ft.FollowTo([]float64{0.5}, []float64{0}, 0, 4)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(end[0].X-0.5) > 1e-8 {
		t.Fatalf("x moved to %v", end[0].X)
	}
	if math.Abs(end[0].Z-1) > 1e-8 {
		t.Fatalf("z = %v, want 1", end[0].Z)
	}
}

func TestOscillatingFieldMatchesClosedForm(t *testing.T) {
	// dz/dy = cos(y) integrates to z = z0 + sin(y).
	f := funcField{sample: func(x, z, y float64) (float64, float64, float64) {
		return 0, math.Cos(y), 1
	}}
	ft := NewFieldTracer(f)

	targets := []float64{0, 0.5, 1.5, 3, 6}
	res, err := ft.FollowFieldLines([]float64{0}, []float64{0.2}, targets)
	if err != nil {
		t.Fatal(err)
	}
	for ti, y := range targets {
		want := 0.2 + math.Sin(y)
		if got := res[ti][0].Z; math.Abs(got-want) > 1e-6 {
			t.Fatalf("z(%v) = %v, want %v", y, got, want)
		}
	}
}

func TestBackwardIntegration(t *testing.T) {
	f := &field.Slab{By: 1, Bz: 0.5, BzPrime: 0}
	ft := NewFieldTracer(f)
	end, err := ft.FollowTo([]float64{0}, []float64{1}, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(end[0].Z-0) > 1e-8 {
		t.Fatalf("backward trace z = %v, want 0", end[0].Z)
	}
}

func TestTightTolerance(t *testing.T) {
	f := funcField{sample: func(x, z, y float64) (float64, float64, float64) {
		return 0, math.Cos(y), 1
	}}
	ft := NewFieldTracerTol(f, 1e-11)
	end, err := ft.FollowTo([]float64{0}, []float64{0}, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := end[0].Z, math.Sin(2.0); math.Abs(got-want) > 1e-9 {
		t.Fatalf("z = %v, want %v within 1e-9", got, want)
	}
}

func TestNonFiniteFieldPropagates(t *testing.T) {
	f := funcField{sample: func(x, z, y float64) (float64, float64, float64) {
		if y > 0.5 {
			return math.NaN(), 0, 1
		}
		return 0, 0, 1
	}}
	ft := NewFieldTracer(f)
	_, err := ft.FollowTo([]float64{0}, []float64{0}, 0, 1)
	if !errors.Is(err, ErrNonFinite) {
		t.Fatalf("err = %v, want ErrNonFinite", err)
	}
}

func TestZeroParallelComponentFails(t *testing.T) {
	f := funcField{sample: func(x, z, y float64) (float64, float64, float64) {
		return 0, 1, 0
	}}
	ft := NewFieldTracer(f)
	_, err := ft.FollowTo([]float64{0}, []float64{0}, 0, 1)
	if !errors.Is(err, ErrNonFinite) {
		t.Fatalf("err = %v, want ErrNonFinite for by=0", err)
	}
}

func TestInputValidation(t *testing.T) {
	ft := NewFieldTracer(field.NewStraight())
	if _, err := ft.FollowFieldLines([]float64{0, 1}, []float64{0}, []float64{0, 1}); err == nil {
		t.Fatalf("mismatched start slices should fail")
	}
	if _, err := ft.FollowFieldLines([]float64{0}, []float64{0}, nil); err == nil {
		t.Fatalf("empty target list should fail")
	}
}
