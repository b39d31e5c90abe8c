// SPDX-License-Identifier: MIT

package binary

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/jaedmunt/holodeck/phys"
	"github.com/jaedmunt/holodeck/rng"
)

// Range is a closed [Lo, Hi] interval.
type Range struct {
	Lo, Hi float64
}

func (r Range) valid() bool { return r.Lo <= r.Hi && !math.IsNaN(r.Lo) && !math.IsNaN(r.Hi) }

// SyntheticOptions configures Synthetic.
type SyntheticOptions struct {
	N     int
	Mtot  Range // total mass [g], drawn log-uniform
	Mrat  Range // mass ratio, drawn uniform in (0,1]
	Sepa  Range // initial separation [cm], drawn log-uniform
	Redz  Range // formation redshift, drawn uniform
	Eccen *Range

	// Volume is the comoving volume [cm^3] assigned to the sample.
	Volume float64
}

// DefaultSyntheticOptions returns a massive, circular population roughly
// matching a cosmological-box merger catalog.
func DefaultSyntheticOptions(n int) SyntheticOptions {
	return SyntheticOptions{
		N:      n,
		Mtot:   Range{1.0e8 * phys.MSOL, 1.0e10 * phys.MSOL},
		Mrat:   Range{0.1, 1.0},
		Sepa:   Range{1.0e3 * phys.PC, 1.0e4 * phys.PC},
		Redz:   Range{0.1, 3.0},
		Volume: math.Pow(100.0*phys.MPC, 3),
	}
}

// WithEccen returns a copy of o that tracks eccentricity drawn uniform in r.
func (o SyntheticOptions) WithEccen(r Range) SyntheticOptions {
	if !r.valid() || r.Lo < 0 || r.Hi >= 1 {
		panic(fmt.Sprintf("binary: WithEccen(%v) outside [0,1)", r))
	}
	o.Eccen = &r
	return o
}

// Synthetic draws a population from o using r. A nil r uses the default seed.
//
// Errors:
//   - ErrBadOptions for non-positive N, inverted or non-physical ranges.
func Synthetic(r *rand.Rand, o SyntheticOptions) (*Population, error) {
	if o.N < 1 {
		return nil, fmt.Errorf("Synthetic: n=%d: %w", o.N, ErrBadOptions)
	}
	checks := []struct {
		name   string
		rg     Range
		strict bool // Lo must be > 0 rather than >= 0
	}{
		{"mtot", o.Mtot, true}, {"mrat", o.Mrat, true}, {"sepa", o.Sepa, true}, {"redz", o.Redz, false},
	}
	for _, c := range checks {
		if !c.rg.valid() || c.rg.Lo < 0 || (c.strict && c.rg.Lo == 0) {
			return nil, fmt.Errorf("Synthetic: %s range %v: %w", c.name, c.rg, ErrBadOptions)
		}
	}
	if o.Mrat.Hi > 1 || !(o.Volume > 0) {
		return nil, fmt.Errorf("Synthetic: mrat %v volume %g: %w", o.Mrat, o.Volume, ErrBadOptions)
	}
	r = rng.OrDefault(r)

	pop := &Population{
		M1:           make([]float64, o.N),
		M2:           make([]float64, o.N),
		Sepa:         make([]float64, o.N),
		Scafa:        make([]float64, o.N),
		SampleVolume: o.Volume,
	}
	if o.Eccen != nil {
		pop.Eccen = make([]float64, o.N)
	}
	for i := 0; i < o.N; i++ {
		mtot := logUniform(r, o.Mtot)
		q := uniform(r, o.Mrat)
		pop.M1[i], pop.M2[i] = phys.M1M2FromMtotMrat(mtot, q)
		pop.Sepa[i] = logUniform(r, o.Sepa)
		pop.Scafa[i] = 1.0 / (1.0 + uniform(r, o.Redz))
		if pop.Eccen != nil {
			pop.Eccen[i] = uniform(r, *o.Eccen)
		}
	}
	return pop, nil
}

func uniform(r *rand.Rand, rg Range) float64 {
	return rg.Lo + (rg.Hi-rg.Lo)*r.Float64()
}

func logUniform(r *rand.Rand, rg Range) float64 {
	lo, hi := math.Log(rg.Lo), math.Log(rg.Hi)
	return math.Exp(lo + (hi-lo)*r.Float64())
}
