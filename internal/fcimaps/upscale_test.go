package fcimaps

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plasmadyn/fluxgrid/internal/field"
	"github.com/plasmadyn/fluxgrid/internal/narray"
)

func straightMaps(t *testing.T, nx, ny, nz int) *MapCollection {
	t.Helper()
	g := mustGrid(t, nx, ny, nz, 1, float64(ny), 1)
	mc, err := BuildMaps(g, field.NewStraight(), Options{})
	require.NoError(t, err)
	return mc
}

func TestUpscaleFactorOneRoundTrip(t *testing.T) {
	mc := straightMaps(t, 5, 4, 6)
	f := rampArray(5, 4, 6)

	out, err := Upscale(f, mc, 1, nil)
	require.NoError(t, err)
	require.Equal(t, 5, out.NX)
	require.Equal(t, 4, out.NY)
	require.Equal(t, 6, out.NZ)

	for i := 0; i < 5; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 6; k++ {
				require.InDeltaf(t, f.At(i, j, k), out.At(i, j, k), 1e-9,
					"value at (%d,%d,%d)", i, j, k)
			}
		}
	}
}

func TestUpscaleFactorTwoInterpolatesAlongY(t *testing.T) {
	// Straight-field maps are the identity, so the interleaved slices are
	// plain averages of adjacent y slices, wrapping at the top.
	mc := straightMaps(t, 4, 3, 4)
	f := rampArray(4, 3, 4)

	out, err := Upscale(f, mc, 2, nil)
	require.NoError(t, err)
	require.Equal(t, 6, out.NY)

	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			jup := (j + 1) % 3
			for k := 0; k < 4; k++ {
				require.InDeltaf(t, f.At(i, j, k), out.At(i, 2*j, k), 1e-9,
					"even slice at (%d,%d,%d)", i, j, k)
				want := 0.5 * (f.At(i, j, k) + f.At(i, jup, k))
				require.InDeltaf(t, want, out.At(i, 2*j+1, k), 1e-9,
					"odd slice at (%d,%d,%d)", i, j, k)
			}
		}
	}
}

func TestUpscaleRecoversTransposedLayout(t *testing.T) {
	mc := straightMaps(t, 4, 3, 6)
	f := rampArray(4, 3, 6)

	got, err := Upscale(f.Transposed(), mc, 1, nil)
	require.NoError(t, err)

	want, err := Upscale(f, mc, 1, nil)
	require.NoError(t, err)
	require.Equal(t, want.Data, got.Data)
}

func TestUpscaleShapeMismatch(t *testing.T) {
	mc := straightMaps(t, 4, 3, 6)
	bad := narray.NewArray3D(2, 2, 2)

	_, err := Upscale(bad, mc, 1, nil)
	require.ErrorIs(t, err, ErrShapeMismatch)
	require.Contains(t, err.Error(), "(2, 2, 2)")
	require.Contains(t, err.Error(), "(4, 3, 6)")
}

func TestUpscaleRequiresForwardMaps(t *testing.T) {
	mc := NewMapCollection(2, 2, 2)
	_, err := Upscale(narray.NewArray3D(2, 2, 2), mc, 1, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "forward")
}

func TestUpscaleFactorValidation(t *testing.T) {
	mc := straightMaps(t, 4, 3, 4)
	_, err := Upscale(rampArray(4, 3, 4), mc, 0, nil)
	require.Error(t, err)
}

// The slab drift moves the sample cloud off the mesh in z; the periodic
// wrap at the last plane must still index plane 0, not run off the array.
func TestUpscaleWrapsLastPlane(t *testing.T) {
	g := mustGrid(t, 4, 3, 4, 1, 3, 1)
	slab := &field.Slab{By: 1, Bz: 0.05, BzPrime: 0}
	mc, err := BuildMaps(g, slab, Options{})
	require.NoError(t, err)

	f := rampArray(4, 3, 4)
	out, err := Upscale(f, mc, 2, nil)
	require.NoError(t, err)
	require.Equal(t, 6, out.NY)
	for _, v := range out.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("upscaled field contains non-finite values")
		}
	}
}

func TestUpscaleErrorsAreSentinelWrapped(t *testing.T) {
	mc := straightMaps(t, 4, 3, 6)
	_, err := Upscale(narray.NewArray3D(5, 5, 5), mc, 1, nil)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
}
