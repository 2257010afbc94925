package tracer

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonFinite is wrapped into integration errors when the right-hand side
// evaluates to NaN or Inf.
var ErrNonFinite = errors.New("non-finite derivative")

// errStepCollapse is returned when step control cannot find an acceptable
// step, which in practice means the field is discontinuous or near-singular.
var errStepCollapse = errors.New("step size collapsed")

const (
	defaultRTol = 1e-8
	defaultATol = 1e-10
	maxSteps    = 1_000_000
)

// rhsFunc evaluates the derivative ds/dy at parameter y into ds.
// len(ds) == len(s).
type rhsFunc func(y float64, s, ds []float64) error

// Dormand-Prince 5(4) coefficients.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	// 5th order solution weights (same as the last a row: FSAL).
	dpB5 = [7]float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0}
	// 4th order embedded weights.
	dpB4 = [7]float64{5179.0 / 57600, 0, 7571.0 / 16695, 393.0 / 640, -92097.0 / 339200, 187.0 / 2100, 1.0 / 40}
)

// integrateRK45 advances s in place from y0 to y1 with adaptive
// Dormand-Prince 5(4) stepping. rtol <= 0 selects the default tolerance.
func integrateRK45(f rhsFunc, y0, y1 float64, s []float64, rtol float64) error {
	if y0 == y1 {
		return nil
	}
	if rtol <= 0 {
		rtol = defaultRTol
	}
	n := len(s)
	dir := 1.0
	if y1 < y0 {
		dir = -1
	}

	h := (y1 - y0) / 16
	hMin := math.Abs(y1-y0) * 1e-14

	k := make([][]float64, 7)
	for i := range k {
		k[i] = make([]float64, n)
	}
	stage := make([]float64, n)
	s5 := make([]float64, n)
	s4 := make([]float64, n)

	y := y0
	for step := 0; step < maxSteps; step++ {
		if dir*(y-y1) >= 0 {
			return nil
		}
		// Do not overshoot the target.
		if dir*(y+h-y1) > 0 {
			h = y1 - y
		}

		if err := f(y, s, k[0]); err != nil {
			return fmt.Errorf("rhs at y=%g: %w", y, err)
		}
		failed := false
		for i := 1; i < 7; i++ {
			for j := 0; j < n; j++ {
				sum := 0.0
				for m := 0; m < i; m++ {
					sum += dpA[i][m] * k[m][j]
				}
				stage[j] = s[j] + h*sum
			}
			if err := f(y+dpC[i]*h, stage, k[i]); err != nil {
				return fmt.Errorf("rhs at y=%g: %w", y+dpC[i]*h, err)
			}
		}

		// Candidate solutions and error norm.
		errNorm := 0.0
		for j := 0; j < n; j++ {
			sum5, sum4 := 0.0, 0.0
			for i := 0; i < 7; i++ {
				sum5 += dpB5[i] * k[i][j]
				sum4 += dpB4[i] * k[i][j]
			}
			s5[j] = s[j] + h*sum5
			s4[j] = s[j] + h*sum4
			sc := defaultATol + rtol*math.Max(math.Abs(s[j]), math.Abs(s5[j]))
			e := (s5[j] - s4[j]) / sc
			errNorm += e * e
		}
		errNorm = math.Sqrt(errNorm / float64(n))
		if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) {
			return fmt.Errorf("step error estimate at y=%g: %w", y, ErrNonFinite)
		}

		if errNorm <= 1 {
			y += h
			copy(s, s5)
		} else {
			failed = true
		}

		// PI-flavoured step update, clamped.
		fac := 0.9 * math.Pow(math.Max(errNorm, 1e-16), -0.2)
		if fac < 0.2 {
			fac = 0.2
		} else if fac > 5 {
			fac = 5
		}
		if failed && fac > 1 {
			fac = 1
		}
		h *= fac
		if math.Abs(h) < hMin {
			return fmt.Errorf("at y=%g: %w", y, errStepCollapse)
		}
	}
	return fmt.Errorf("integration from y=%g to y=%g exceeded %d steps", y0, y1, maxSteps)
}
