package geometry

import (
	"math"
	"testing"
)

func TestRectangularPlaneFindIndex(t *testing.T) {
	p := NewRectangularPlane(5, 9, 0, 0.25, -1, 0.25)
	nx, nz := p.Size()
	if nx != 5 || nz != 9 {
		t.Fatalf("Size = (%d, %d), want (5, 9)", nx, nz)
	}

	// Grid points must map back to integer indices.
	xind, zind := p.FindIndex([]float64{0, 0.5, 1.0}, []float64{-1, 0, 1})
	wantX := []float64{0, 2, 4}
	wantZ := []float64{0, 4, 8}
	for i := range wantX {
		if math.Abs(xind[i]-wantX[i]) > 1e-12 || math.Abs(zind[i]-wantZ[i]) > 1e-12 {
			t.Fatalf("FindIndex[%d] = (%v, %v), want (%v, %v)", i, xind[i], zind[i], wantX[i], wantZ[i])
		}
	}

	// Off-grid points give fractional indices.
	xind, zind = p.FindIndex([]float64{0.125}, []float64{-0.875})
	if math.Abs(xind[0]-0.5) > 1e-12 || math.Abs(zind[0]-0.5) > 1e-12 {
		t.Fatalf("fractional FindIndex = (%v, %v), want (0.5, 0.5)", xind[0], zind[0])
	}
}

func TestRectangularGridPeriodicPlaneAt(t *testing.T) {
	g, err := NewRectangularGrid(4, 8, 4, 1, 16, 1)
	if err != nil {
		t.Fatal(err)
	}
	if g.NumberOfPlanes() != 8 {
		t.Fatalf("NumberOfPlanes = %d, want 8", g.NumberOfPlanes())
	}

	_, y3, ok := g.PlaneAt(3)
	if !ok || math.Abs(y3-6) > 1e-12 {
		t.Fatalf("PlaneAt(3) = (y=%v, ok=%v), want (6, true)", y3, ok)
	}

	// Past the top: plane exists (wraps) and y continues linearly.
	pl, y8, ok := g.PlaneAt(8)
	if !ok || pl == nil {
		t.Fatalf("periodic grid must wrap at index 8")
	}
	if math.Abs(y8-16) > 1e-12 {
		t.Fatalf("PlaneAt(8) y = %v, want 16", y8)
	}

	_, yNeg, ok := g.PlaneAt(-1)
	if !ok || math.Abs(yNeg-(-2)) > 1e-12 {
		t.Fatalf("PlaneAt(-1) = (y=%v, ok=%v), want (-2, true)", yNeg, ok)
	}
}

func TestBoundedRectangularGridPlaneAt(t *testing.T) {
	g, err := NewBoundedRectangularGrid(4, 4, 4, 1, 8, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, ok := g.PlaneAt(3); !ok {
		t.Fatalf("interior plane 3 should exist")
	}
	pl, y, ok := g.PlaneAt(4)
	if ok || pl != nil {
		t.Fatalf("plane 4 should not exist on a bounded grid")
	}
	// y is still reported so callers can trace toward the absent plane.
	if math.Abs(y-8) > 1e-12 {
		t.Fatalf("absent plane y = %v, want 8", y)
	}
	if _, _, ok := g.PlaneAt(-1); ok {
		t.Fatalf("plane -1 should not exist on a bounded grid")
	}
}

func TestRectangularGridAxes(t *testing.T) {
	g, err := NewRectangularGrid(3, 4, 5, 1, 8, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.XCentre(); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("XCentre = %v, want 0.5", got)
	}
	if got := g.ZCentre(); math.Abs(got-1) > 1e-12 {
		t.Fatalf("ZCentre = %v, want 1", got)
	}
	if got := g.Ly(); got != 8 {
		t.Fatalf("Ly = %v, want 8", got)
	}
	if len(g.XArray()) != 3 || len(g.YArray()) != 4 || len(g.ZArray()) != 5 {
		t.Fatalf("axis lengths = (%d, %d, %d)", len(g.XArray()), len(g.YArray()), len(g.ZArray()))
	}
	if g.YArray()[1] != 2 {
		t.Fatalf("y spacing wrong: YArray[1] = %v, want 2", g.YArray()[1])
	}
}

func TestRectangularGridValidation(t *testing.T) {
	if _, err := NewRectangularGrid(1, 4, 4, 1, 1, 1); err == nil {
		t.Fatalf("nx=1 should be rejected")
	}
	if _, err := NewRectangularGrid(4, 0, 4, 1, 1, 1); err == nil {
		t.Fatalf("ny=0 should be rejected")
	}
}
