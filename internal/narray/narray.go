// Package narray provides small dense float64 array containers with shape
// metadata. Data is stored row-major (last index fastest), the same flat
// layout used for the map arrays persisted to grid files.
package narray

import "fmt"

// Array2D is a dense nx by nz array.
type Array2D struct {
	NX, NZ int
	Data   []float64
}

// NewArray2D allocates a zeroed nx by nz array.
func NewArray2D(nx, nz int) *Array2D {
	return &Array2D{NX: nx, NZ: nz, Data: make([]float64, nx*nz)}
}

// At returns the element at (i, k).
func (a *Array2D) At(i, k int) float64 { return a.Data[i*a.NZ+k] }

// Set stores v at (i, k).
func (a *Array2D) Set(i, k int, v float64) { a.Data[i*a.NZ+k] = v }

// Array3D is a dense nx by ny by nz array.
type Array3D struct {
	NX, NY, NZ int
	Data       []float64
}

// NewArray3D allocates a zeroed nx by ny by nz array.
func NewArray3D(nx, ny, nz int) *Array3D {
	return &Array3D{NX: nx, NY: ny, NZ: nz, Data: make([]float64, nx*ny*nz)}
}

// At returns the element at (i, j, k).
func (a *Array3D) At(i, j, k int) float64 {
	return a.Data[(i*a.NY+j)*a.NZ+k]
}

// Set stores v at (i, j, k).
func (a *Array3D) Set(i, j, k int, v float64) {
	a.Data[(i*a.NY+j)*a.NZ+k] = v
}

// Shape returns the (nx, ny, nz) dimensions.
func (a *Array3D) Shape() (int, int, int) { return a.NX, a.NY, a.NZ }

// ShapeString renders the shape as "(nx, ny, nz)" for error messages.
func (a *Array3D) ShapeString() string {
	return fmt.Sprintf("(%d, %d, %d)", a.NX, a.NY, a.NZ)
}

// Len returns the total number of elements.
func (a *Array3D) Len() int { return a.NX * a.NY * a.NZ }

// Fill sets every element to v.
func (a *Array3D) Fill(v float64) {
	for i := range a.Data {
		a.Data[i] = v
	}
}

// Clone returns a deep copy.
func (a *Array3D) Clone() *Array3D {
	out := NewArray3D(a.NX, a.NY, a.NZ)
	copy(out.Data, a.Data)
	return out
}

// SetSlice copies a 2D array into y-slice j, so that At(i, j, k) == s.At(i, k).
func (a *Array3D) SetSlice(j int, s *Array2D) {
	if s.NX != a.NX || s.NZ != a.NZ {
		panic(fmt.Sprintf("narray: slice shape (%d, %d) does not match (%d, %d)",
			s.NX, s.NZ, a.NX, a.NZ))
	}
	for i := 0; i < a.NX; i++ {
		for k := 0; k < a.NZ; k++ {
			a.Set(i, j, k, s.At(i, k))
		}
	}
}

// Transposed returns a new array with reversed axis order: out(i, j, k) is
// a(k, j, i). Used to recover fields supplied with transposed memory layout.
func (a *Array3D) Transposed() *Array3D {
	out := NewArray3D(a.NZ, a.NY, a.NX)
	for i := 0; i < a.NX; i++ {
		for j := 0; j < a.NY; j++ {
			for k := 0; k < a.NZ; k++ {
				out.Set(k, j, i, a.At(i, j, k))
			}
		}
	}
	return out
}
