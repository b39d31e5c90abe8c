// SPDX-License-Identifier: MIT

package hardening

import (
	"fmt"
	"math"

	"github.com/jaedmunt/holodeck/binary"
	"github.com/jaedmunt/holodeck/phys"
)

// Fixed-time defaults.
const (
	DefaultRChar      = 100.0 * phys.PC
	DefaultGammaInner = -1.0
	DefaultGammaOuter = +1.5

	defaultNormPoints = 128
	normMaxExpand     = 200
	normMaxBisect     = 200
	normRelTol        = 1.0e-6
)

// FixedTime is a phenomenological environmental hardening rate
//
//	da/dt = -A_i x^(1-γ_in) (1+x)^(γ_in-γ_out),   x = a / r_char
//
// with a per-binary normalisation A_i chosen so that, combined with GW
// emission, binary i travels from its initial separation to ISCO in exactly
// the configured hardening time. Binaries whose GW-only inspiral is already
// shorter than that time get A_i = 0.
type FixedTime struct {
	tHard  float64
	rchar  float64
	gin    float64
	gout   float64
	points int

	norm []float64
}

// FixedTimeOption configures NewFixedTime.
type FixedTimeOption func(*FixedTime)

// WithRChar sets the break radius [cm]. Panics on non-positive input.
func WithRChar(r float64) FixedTimeOption {
	return func(f *FixedTime) {
		if !(r > 0) {
			panic(fmt.Sprintf("hardening: WithRChar(%g) must be > 0", r))
		}
		f.rchar = r
	}
}

// WithGammas sets the inner and outer power-law indices.
func WithGammas(inner, outer float64) FixedTimeOption {
	return func(f *FixedTime) {
		f.gin = inner
		f.gout = outer
	}
}

// WithNormPoints sets the number of separations used to integrate the
// coalescence time during normalisation. Panics below 8.
func WithNormPoints(n int) FixedTimeOption {
	return func(f *FixedTime) {
		if n < 8 {
			panic(fmt.Sprintf("hardening: WithNormPoints(%d) must be >= 8", n))
		}
		f.points = n
	}
}

// NewFixedTime solves the normalisation of every binary in pop.
//
// Implementation:
//   - Stage 1: per binary, tabulate the shape x^(1-γ_in)(1+x)^(γ_in-γ_out) and
//     the circular GW rate on a log grid from ISCO to the initial separation.
//   - Stage 2: bracket A in log space, then bisect until the log-log
//     trapezoid time ∫ da/|da/dt| matches tHard.
//
// Errors:
//   - ErrNilPopulation, ErrBadParam, ErrNoSolution.
//
// Complexity:
//   - Time O(N·P·I) for N binaries, P grid points and I bisection steps.
func NewFixedTime(pop *binary.Population, tHard float64, opts ...FixedTimeOption) (*FixedTime, error) {
	if pop == nil {
		return nil, ErrNilPopulation
	}
	if !(tHard > 0) || math.IsInf(tHard, 0) {
		return nil, fmt.Errorf("NewFixedTime(tHard=%g): %w", tHard, ErrBadParam)
	}
	f := &FixedTime{
		tHard:  tHard,
		rchar:  DefaultRChar,
		gin:    DefaultGammaInner,
		gout:   DefaultGammaOuter,
		points: defaultNormPoints,
	}
	for _, opt := range opts {
		opt(f)
	}

	n := pop.Size()
	f.norm = make([]float64, n)
	sepa := make([]float64, f.points)
	shape := make([]float64, f.points)
	gw := make([]float64, f.points)
	inv := make([]float64, f.points)
	for i := 0; i < n; i++ {
		m1, m2 := pop.M1[i], pop.M2[i]
		phys.LogSpaceInto(sepa, phys.RadISCO(m1, m2), pop.Sepa[i])
		for k, a := range sepa {
			shape[k] = f.shape(a)
			gw[k] = -phys.GWDadt(m1, m2, a, 0)
		}
		timeAt := func(norm float64) float64 {
			for k := range sepa {
				inv[k] = 1.0 / (norm*shape[k] + gw[k])
			}
			t, _ := phys.TrapzLogLog(inv, sepa)
			return t
		}
		a, err := solveNorm(timeAt, tHard, pop.Sepa[i]/tHard)
		if err != nil {
			return nil, fmt.Errorf("NewFixedTime: binary %d: %w", i, err)
		}
		f.norm[i] = a
	}
	return f, nil
}

// solveNorm finds A ≥ 0 with timeAt(A) = target. timeAt is decreasing in A.
func solveNorm(timeAt func(float64) float64, target, guess float64) (float64, error) {
	if timeAt(0) <= target {
		return 0, nil
	}
	lo, hi := guess, guess
	var k int
	for k = 0; timeAt(lo) < target && k < normMaxExpand; k++ {
		lo /= 10
	}
	if k == normMaxExpand {
		return 0, ErrNoSolution
	}
	for k = 0; timeAt(hi) > target && k < normMaxExpand; k++ {
		hi *= 10
	}
	if k == normMaxExpand {
		return 0, ErrNoSolution
	}

	llo, lhi := math.Log(lo), math.Log(hi)
	for k = 0; k < normMaxBisect; k++ {
		mid := 0.5 * (llo + lhi)
		t := timeAt(math.Exp(mid))
		if math.Abs(t-target) <= normRelTol*target {
			return math.Exp(mid), nil
		}
		if t > target {
			llo = mid
		} else {
			lhi = mid
		}
	}
	return math.Exp(0.5 * (llo + lhi)), nil
}

func (f *FixedTime) shape(sepa float64) float64 {
	x := sepa / f.rchar
	return pow(x, 1.0-f.gin) * pow(1.0+x, f.gin-f.gout)
}

// Name implements Model.
func (f *FixedTime) Name() string { return string(KindFixedTime) }

// Rate implements Model. States whose Index is outside the population the
// model was normalised for yield NaN, which the integrator rejects.
func (f *FixedTime) Rate(s binary.State) (float64, float64) {
	if s.Index < 0 || s.Index >= len(f.norm) {
		return math.NaN(), 0
	}
	return -f.norm[s.Index] * f.shape(s.Sepa), 0
}

// Norm returns the normalisation A_i [cm/s] of binary i.
func (f *FixedTime) Norm(i int) float64 { return f.norm[i] }

// HardeningTime returns the target coalescence time [s].
func (f *FixedTime) HardeningTime() float64 { return f.tHard }

func pow(x, y float64) float64 { return math.Pow(x, y) }
