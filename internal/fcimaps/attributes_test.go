package fcimaps

import (
	"math"
	"testing"

	"github.com/plasmadyn/fluxgrid/internal/field"
)

func TestSampleAttributes(t *testing.T) {
	g := mustGrid(t, 4, 2, 4, 1, 2, 1)
	slab := &field.Slab{By: 2, Bz: 0, BzPrime: 0, XCentre: 0.5}

	attrs, err := SampleAttributes(g, slab)
	if err != nil {
		t.Fatal(err)
	}

	bmag, ok := attrs["B"]
	if !ok {
		t.Fatalf("missing B magnitude array")
	}
	if bmag.NX != 4 || bmag.NY != 2 || bmag.NZ != 4 {
		t.Fatalf("B shape %s, want (4, 2, 4)", bmag.ShapeString())
	}
	for _, v := range bmag.Data {
		if math.Abs(v-2) > 1e-12 {
			t.Fatalf("|B| = %v, want 2 everywhere for an unsheared slab", v)
		}
	}

	psi, ok := attrs["psi"]
	if !ok {
		t.Fatalf("slab psi attribute not sampled")
	}
	// psi depends on x only for a slab.
	if psi.At(0, 0, 0) == psi.At(3, 0, 0) {
		t.Fatalf("psi should vary across x")
	}
	if psi.At(1, 0, 0) != psi.At(1, 0, 3) {
		t.Fatalf("psi should not vary across z")
	}
}
