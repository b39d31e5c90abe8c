// SPDX-License-Identifier: MIT

package binary

import (
	"fmt"
	"math"

	"github.com/jaedmunt/holodeck/phys"
)

// Population is the initial state of N binaries. All slices have length N;
// Eccen is nil when eccentricity is not tracked.
type Population struct {
	M1    []float64 // primary mass [g]
	M2    []float64 // secondary mass [g]
	Sepa  []float64 // initial separation [cm]
	Scafa []float64 // scale-factor at formation
	Eccen []float64 // initial eccentricity in [0,1), optional

	// SampleVolume is the effective comoving volume [cm^3] the population
	// was drawn from.
	SampleVolume float64
}

// Size returns the number of binaries.
func (p *Population) Size() int { return len(p.Sepa) }

// Eccentric reports whether eccentricity is tracked.
func (p *Population) Eccentric() bool { return p.Eccen != nil }

// Mtot returns the initial total mass of binary i.
func (p *Population) Mtot(i int) float64 { return p.M1[i] + p.M2[i] }

// Validate checks shapes and domains. It is called by the integrator before
// any numeric work.
//
// Errors:
//   - ErrEmpty, ErrShapeMismatch, ErrBadValue.
func (p *Population) Validate() error {
	n := len(p.Sepa)
	if n == 0 {
		return ErrEmpty
	}
	if len(p.M1) != n || len(p.M2) != n || len(p.Scafa) != n {
		return fmt.Errorf("Population: m1=%d m2=%d sepa=%d scafa=%d: %w",
			len(p.M1), len(p.M2), n, len(p.Scafa), ErrShapeMismatch)
	}
	if p.Eccen != nil && len(p.Eccen) != n {
		return fmt.Errorf("Population: eccen=%d sepa=%d: %w", len(p.Eccen), n, ErrShapeMismatch)
	}
	if !(p.SampleVolume > 0) || math.IsInf(p.SampleVolume, 0) {
		return fmt.Errorf("Population: sample volume %g: %w", p.SampleVolume, ErrBadValue)
	}
	for i := 0; i < n; i++ {
		if !positive(p.M1[i]) || !positive(p.M2[i]) {
			return fmt.Errorf("Population: binary %d masses (%g,%g): %w", i, p.M1[i], p.M2[i], ErrBadValue)
		}
		if !positive(p.Sepa[i]) {
			return fmt.Errorf("Population: binary %d sepa %g: %w", i, p.Sepa[i], ErrBadValue)
		}
		if !(p.Scafa[i] > 0) || p.Scafa[i] > 1 {
			return fmt.Errorf("Population: binary %d scafa %g: %w", i, p.Scafa[i], ErrBadValue)
		}
		if p.Sepa[i] <= phys.RadISCO(p.M1[i], p.M2[i]) {
			return fmt.Errorf("Population: binary %d starts inside ISCO: %w", i, ErrBadValue)
		}
		if p.Eccen != nil {
			e := p.Eccen[i]
			if math.IsNaN(e) || e < 0 || e >= 1 {
				return fmt.Errorf("Population: binary %d eccen %g: %w", i, e, ErrBadValue)
			}
		}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// State is the snapshot of one binary at one step that rate models see.
type State struct {
	Index int // binary index in the population
	Step  int // step index within the binary's track

	M1, M2 float64 // [g]
	Sepa   float64 // [cm]
	Eccen  float64 // 0 when not tracked
	Scafa  float64
	Tlook  float64 // [s]

	// Eccentric reports whether Eccen is evolved.
	Eccentric bool
}

// Mtot returns M1+M2.
func (s State) Mtot() float64 { return s.M1 + s.M2 }

// Mrat returns M2/M1, folded into (0,1].
func (s State) Mrat() float64 {
	_, q := phys.MtotMrat(s.M1, s.M2)
	return q
}

// Redz returns the redshift implied by the scale-factor.
func (s State) Redz() float64 { return 1.0/s.Scafa - 1.0 }
