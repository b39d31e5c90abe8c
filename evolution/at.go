// SPDX-License-Identifier: MIT

package evolution

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jaedmunt/holodeck/grid"
)

// Independent selects the variable that targets are expressed in.
type Independent string

// Interpolation variables.
const (
	IndepSepa Independent = "sepa" // binary separation [cm]
	IndepFobs Independent = "fobs" // observer-frame orbital frequency [1/s]
)

// ParseIndependent maps a case-insensitive name to an Independent.
func ParseIndependent(name string) (Independent, error) {
	switch v := Independent(strings.ToLower(strings.TrimSpace(name))); v {
	case IndepSepa, IndepFobs:
		return v, nil
	}
	return "", fmt.Errorf("ParseIndependent(%q): %w", name, ErrBadIndependent)
}

// Interp selects the interpolation space for dependent variables.
type Interp int

const (
	// InterpAuto uses linear space for signed or bounded quantities
	// (eccentricity, scale-factor, lookback time, rates) plus AtOptions.Linear,
	// and log-log space for everything else.
	InterpAuto Interp = iota
	// InterpLinear interpolates every parameter linearly in log x.
	InterpLinear
	// InterpLogLog interpolates every parameter in log-log space.
	InterpLogLog
)

// AtOptions tunes Track.At.
type AtOptions struct {
	// CoalescingOnly leaves binaries that never reach ISCO as NaN.
	CoalescingOnly bool
	Interp         Interp
	// Linear forces additional parameters to linear space under InterpAuto.
	Linear []Param
}

// At interpolates params of every binary to targets expressed in indep.
//
// The result maps each param to an N×T matrix (binaries × targets). Entries
// outside a binary's track, and entries of non-coalescing binaries when
// CoalescingOnly is set, are NaN. A target equal to the first or last stored
// value is inside the track.
//
// Implementation:
//   - Stage 1: validate indep, targets and params; build output filled with NaN.
//   - Stage 2: per binary, put log10 x in ascending order (separations are
//     stored decreasing, so they are reversed), locate each target with a
//     binary search and compute its fractional position in log x.
//   - Stage 3: per param, blend the bounding samples linearly or in log-log.
//   - A target set that misses the union of every track raises
//     ErrTargetsOutOfBounds.
//
// Errors:
//   - ErrBadIndependent, ErrBadTargets, ErrUnknownParam, ErrTargetsOutOfBounds.
//
// Complexity:
//   - Time O(N·(S + T·(log S + P))), Space O(N·T·P).
func (t *Track) At(indep Independent, targets []float64, params []Param, opts AtOptions) (map[Param]*grid.Dense, error) {
	if indep != IndepSepa && indep != IndepFobs {
		return nil, fmt.Errorf("Track.At(%q): %w", indep, ErrBadIndependent)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("Track.At: %w", ErrBadTargets)
	}
	ltarg := make([]float64, len(targets))
	for j, x := range targets {
		if !(x > 0) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("Track.At: target[%d] = %g: %w", j, x, ErrBadTargets)
		}
		ltarg[j] = math.Log10(x)
	}
	linear, err := t.interpModes(params, opts)
	if err != nil {
		return nil, err
	}

	n := t.Size()
	out := make(map[Param]*grid.Dense, len(params))
	for _, p := range params {
		m, err := grid.NewFilled(n, len(targets), math.NaN())
		if err != nil {
			return nil, err
		}
		out[p] = m
	}

	gmin, gmax := math.Inf(1), math.Inf(-1)
	var lx []float64
	for i := 0; i < n; i++ {
		lx = t.logAxis(indep, i, lx[:0])
		gmin = math.Min(gmin, lx[0])
		gmax = math.Max(gmax, lx[len(lx)-1])
		if opts.CoalescingOnly && !t.IsCoalesced(i) {
			continue
		}
		if err := t.fill(indep, i, lx, ltarg, params, linear, out); err != nil {
			return nil, err
		}
	}

	for _, lt := range ltarg {
		if lt >= gmin && lt <= gmax {
			return out, nil
		}
	}
	return nil, fmt.Errorf("Track.At(%q): targets [%g, %g] vs tracks [%g, %g]: %w",
		indep, math.Pow(10, minOf(ltarg)), math.Pow(10, maxOf(ltarg)),
		math.Pow(10, gmin), math.Pow(10, gmax), ErrTargetsOutOfBounds)
}

// interpModes validates params and resolves, per param, linear (true) or
// log-log (false) interpolation.
func (t *Track) interpModes(params []Param, opts AtOptions) (map[Param]bool, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("Track.At: no parameters: %w", ErrUnknownParam)
	}
	linear := make(map[Param]bool, len(params))
	for _, p := range params {
		if !t.tracks(p) {
			return nil, fmt.Errorf("Track.At(%q): %w", p, ErrUnknownParam)
		}
		switch opts.Interp {
		case InterpLinear:
			linear[p] = true
		case InterpLogLog:
			linear[p] = false
		default:
			linear[p] = linearByDefault[p]
		}
	}
	for _, p := range opts.Linear {
		if _, ok := linear[p]; !ok {
			return nil, fmt.Errorf("Track.At: linear %q not requested: %w", p, ErrUnknownParam)
		}
		if opts.Interp == InterpAuto {
			linear[p] = true
		}
	}
	return linear, nil
}

// logAxis writes log10 of binary i's independent variable into dst in
// ascending order.
func (t *Track) logAxis(indep Independent, i int, dst []float64) []float64 {
	if indep == IndepFobs {
		for _, f := range t.FreqOrbObs(i) {
			dst = append(dst, math.Log10(f))
		}
		return dst
	}
	sepa := t.col(grid.ColSepa, i)
	for k := len(sepa) - 1; k >= 0; k-- {
		dst = append(dst, math.Log10(sepa[k]))
	}
	return dst
}

// fill interpolates binary i into row i of every output matrix.
func (t *Track) fill(indep Independent, i int, lx, ltarg []float64, params []Param, linear map[Param]bool, out map[Param]*grid.Dense) error {
	last := len(lx) - 1
	// step maps an ascending position back to a stored step index
	step := func(pos int) int { return pos }
	if indep == IndepSepa {
		step = func(pos int) int { return last - pos }
	}

	series := make([][]float64, len(params))
	for j, p := range params {
		s, err := t.Series(p, i)
		if err != nil {
			return err
		}
		series[j] = s
	}

	for j, lt := range ltarg {
		if lt < lx[0] || lt > lx[last] {
			continue
		}
		lo := sort.SearchFloat64s(lx, lt)
		hi, frac := lo, 0.0
		if lx[lo] != lt {
			lo, hi = lo-1, lo
			frac = (lt - lx[lo]) / (lx[hi] - lx[lo])
		}
		for k, p := range params {
			y0, y1 := series[k][step(lo)], series[k][step(hi)]
			out[p].Row(i)[j] = blend(y0, y1, frac, linear[p])
		}
	}
	return nil
}

// blend interpolates between y0 and y1 at fraction frac. Log-log blending of
// non-positive samples is undefined and yields NaN.
func blend(y0, y1, frac float64, linear bool) float64 {
	switch {
	case frac == 0:
		return y0
	case frac == 1:
		return y1
	case linear:
		return y0 + frac*(y1-y0)
	case y0 <= 0 || y1 <= 0:
		return math.NaN()
	}
	l0 := math.Log10(y0)
	return math.Pow(10, l0+frac*(math.Log10(y1)-l0))
}

func minOf(xs []float64) float64 {
	m := math.Inf(1)
	for _, x := range xs {
		m = math.Min(m, x)
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		m = math.Max(m, x)
	}
	return m
}
