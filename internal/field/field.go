// Package field defines the magnetic field capability consumed by the
// tracer and map builder, plus the analytic reference fields used by the
// CLI and tests.
package field

import "math"

// Sampler evaluates a named scalar attribute (poloidal flux, pressure, ...)
// at a physical position.
type Sampler func(x, z, y float64) float64

// Boundary tests whether a point lies outside the valid field domain.
type Boundary interface {
	Outside(x, z, y float64) bool
}

// MagneticField samples field components at physical positions. Components
// are (bx, bz, by): the two poloidal-plane components and the component
// along the field-line parameter y.
type MagneticField interface {
	Sample(x, z, y float64) (bx, bz, by float64)
	Boundary() Boundary
	// Attributes returns named scalar samplers. A nil map means no
	// attributes.
	Attributes() map[string]Sampler
}

// Magnitude returns |B| at a position.
func Magnitude(f MagneticField, x, z, y float64) float64 {
	bx, bz, by := f.Sample(x, z, y)
	return math.Sqrt(bx*bx + bz*bz + by*by)
}

// NoBoundary is a Boundary that never excludes a point.
type NoBoundary struct{}

// Outside always reports false.
func (NoBoundary) Outside(x, z, y float64) bool { return false }

// RectangularBoundary excludes points outside an axis-aligned (x, z) box,
// independent of y.
type RectangularBoundary struct {
	XMin, XMax float64
	ZMin, ZMax float64
}

// Outside reports whether (x, z) lies outside the box.
func (b RectangularBoundary) Outside(x, z, y float64) bool {
	return x < b.XMin || x > b.XMax || z < b.ZMin || z > b.ZMax
}
