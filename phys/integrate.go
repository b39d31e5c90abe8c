// SPDX-License-Identifier: MIT

package phys

import "math"

// loglogTol is the tolerance on the local power-law index γ around the
// logarithmic special case (γ = -1 for dA/dx integrands).
const loglogTol = 1.0e-2

// Trapz2 integrates a single interval with the linear trapezoid rule.
func Trapz2(x0, x1, y0, y1 float64) float64 {
	return 0.5 * (y0 + y1) * (x1 - x0)
}

// TrapzLogLog2 integrates y = dA/dx over [x0, x1] assuming y is a local
// power law y = a x^γ between the two samples, i.e. a trapezoid rule in
// log-log space. When γ ≈ -1 the logarithmic form A = <x y> ln(x1/x0) is used.
//
// Non-positive samples cannot be represented as a power law; the linear
// trapezoid is used for them instead.
func TrapzLogLog2(x0, x1, y0, y1 float64) float64 {
	if x0 == x1 {
		return 0
	}
	if x0 <= 0 || x1 <= 0 || y0 <= 0 || y1 <= 0 {
		return Trapz2(x0, x1, y0, y1)
	}
	dlogx := math.Log(x1 / x0)
	gamma := math.Log(y1/y0) / dlogx
	if isClose(gamma, -1.0, loglogTol) {
		return 0.5 * (x0*y0 + x1*y1) * dlogx
	}
	return (x1*y1 - x0*y0) / (gamma + 1.0)
}

// TrapzLogLog integrates y = dA/dx over the samples x (monotonic) with the
// log-log trapezoid rule and returns the total.
func TrapzLogLog(y, x []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, ErrLengthMismatch
	}
	if len(x) < 2 {
		return 0, ErrTooFewPoints
	}
	var total float64
	for i := 1; i < len(x); i++ {
		total += TrapzLogLog2(x[i-1], x[i], y[i-1], y[i])
	}
	return total, nil
}

// Trapz integrates y over x with the linear trapezoid rule.
func Trapz(y, x []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, ErrLengthMismatch
	}
	if len(x) < 2 {
		return 0, ErrTooFewPoints
	}
	var total float64
	for i := 1; i < len(x); i++ {
		total += Trapz2(x[i-1], x[i], y[i-1], y[i])
	}
	return total, nil
}

// LogSpace returns n points log-uniformly spaced from lo to hi inclusive.
// The end points are returned exactly.
func LogSpace(lo, hi float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, ErrTooFewPoints
	}
	if lo <= 0 || hi <= 0 {
		return nil, ErrNonPositive
	}
	out := make([]float64, n)
	LogSpaceInto(out, lo, hi)
	return out, nil
}

// LogSpaceInto fills dst with len(dst) log-uniform points from lo to hi.
// Callers guarantee len(dst) ≥ 2 and positive bounds.
func LogSpaceInto(dst []float64, lo, hi float64) {
	n := len(dst)
	llo, lhi := math.Log10(lo), math.Log10(hi)
	step := (lhi - llo) / float64(n-1)
	for i := range dst {
		dst[i] = math.Pow(10.0, llo+float64(i)*step)
	}
	dst[0], dst[n-1] = lo, hi
}

// Midpoints returns the centres of consecutive edges, geometric when log is set.
func Midpoints(edges []float64, log bool) ([]float64, error) {
	if len(edges) < 2 {
		return nil, ErrTooFewPoints
	}
	out := make([]float64, len(edges)-1)
	for i := range out {
		if log {
			out[i] = math.Sqrt(edges[i] * edges[i+1])
		} else {
			out[i] = 0.5 * (edges[i] + edges[i+1])
		}
	}
	return out, nil
}

// isClose mirrors the usual |a-b| ≤ atol + rtol|b| closeness test with atol = rtol = tol.
func isClose(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol+tol*math.Abs(b)
}
