package field

// Straight is a uniform field aligned with y: bx = bz = 0, by = By. Field
// lines are straight and every traced point maps back onto itself, which
// makes it the reference case for identity-map tests.
type Straight struct {
	By   float64
	Edge Boundary
}

// NewStraight returns a uniform field with by = 1 and no boundary.
func NewStraight() *Straight {
	return &Straight{By: 1, Edge: NoBoundary{}}
}

// Sample returns the field components at a position.
func (s *Straight) Sample(x, z, y float64) (float64, float64, float64) {
	return 0, 0, s.By
}

// Boundary returns the field's domain boundary.
func (s *Straight) Boundary() Boundary {
	if s.Edge == nil {
		return NoBoundary{}
	}
	return s.Edge
}

// Attributes returns no named attributes.
func (s *Straight) Attributes() map[string]Sampler { return nil }

// Slab is a sheared slab field: by and bz constant at a reference x, with bz
// varying linearly in x. bx is zero, so field lines stay on x = const planes
// and drift in z at a rate set by the local shear.
type Slab struct {
	By      float64 // component along y
	Bz      float64 // z component at x = XCentre
	BzPrime float64 // dBz/dx
	XCentre float64
	Edge    Boundary
}

// NewSlab returns a slab field with by = 1, bz = 0.1 and shear 1 about x = 0.
func NewSlab() *Slab {
	return &Slab{By: 1, Bz: 0.1, BzPrime: 1, Edge: NoBoundary{}}
}

// Sample returns the field components at a position.
func (s *Slab) Sample(x, z, y float64) (float64, float64, float64) {
	return 0, s.Bz + s.BzPrime*(x-s.XCentre), s.By
}

// Boundary returns the field's domain boundary.
func (s *Slab) Boundary() Boundary {
	if s.Edge == nil {
		return NoBoundary{}
	}
	return s.Edge
}

// Attributes exposes a pseudo poloidal flux that grows with distance from
// the slab centre. It exists so grid files carry the attribute plumbing the
// downstream code expects; it is not a physical flux.
func (s *Slab) Attributes() map[string]Sampler {
	return map[string]Sampler{
		"psi": func(x, z, y float64) float64 {
			dx := x - s.XCentre
			return s.Bz*dx + 0.5*s.BzPrime*dx*dx
		},
	}
}
