// SPDX-License-Identifier: MIT

package evolution

import (
	"fmt"
	"strings"

	"github.com/jaedmunt/holodeck/cosmo"
	"github.com/jaedmunt/holodeck/grid"
	"github.com/jaedmunt/holodeck/phys"
)

// Mode records which integrator produced a track.
type Mode int

// Integrator modes.
const (
	ModeFixed Mode = iota
	ModeAdaptive
)

func (m Mode) String() string {
	if m == ModeAdaptive {
		return "adaptive"
	}
	return "fixed"
}

// Param names a per-step tracked quantity.
type Param string

// Tracked parameters. ParamFobs is derived from sepa, masses and scafa.
const (
	ParamSepa  Param = "sepa"
	ParamEccen Param = "eccen"
	ParamM1    Param = "m1"
	ParamM2    Param = "m2"
	ParamScafa Param = "scafa"
	ParamTlook Param = "tlook"
	ParamDadt  Param = "dadt"
	ParamDedt  Param = "dedt"
	ParamMdot1 Param = "mdot1"
	ParamMdot2 Param = "mdot2"
	ParamFobs  Param = "fobs"
)

var paramColumn = map[Param]int{
	ParamSepa:  grid.ColSepa,
	ParamEccen: grid.ColEccen,
	ParamM1:    grid.ColM1,
	ParamM2:    grid.ColM2,
	ParamScafa: grid.ColScafa,
	ParamTlook: grid.ColTlook,
	ParamDadt:  grid.ColDadt,
	ParamDedt:  grid.ColDedt,
	ParamMdot1: grid.ColMdot1,
	ParamMdot2: grid.ColMdot2,
}

// linearByDefault lists quantities that are signed, bounded or may be zero,
// and so are interpolated in linear space.
var linearByDefault = map[Param]bool{
	ParamEccen: true,
	ParamScafa: true,
	ParamTlook: true,
	ParamDadt:  true,
	ParamDedt:  true,
	ParamMdot1: true,
	ParamMdot2: true,
}

// ParseParam maps a case-insensitive name to a Param.
func ParseParam(name string) (Param, error) {
	p := Param(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := paramColumn[p]; ok || p == ParamFobs {
		return p, nil
	}
	return "", fmt.Errorf("ParseParam(%q): %w", name, ErrUnknownParam)
}

// Track holds the committed evolution of every binary. It is read-only once
// returned by an integrator, apart from the Modifiers run during finalisation.
type Track struct {
	arena *grid.Arena
	mode  Mode

	eccentric bool
	accreting bool

	hardNames []string
	debug     bool

	cosmo        cosmo.Cosmology
	sampleVolume float64

	coal []bool
}

// Size returns the number of binaries.
func (t *Track) Size() int { return t.arena.Binaries() }

// Steps returns the number of stored steps of binary i.
func (t *Track) Steps(i int) int { return t.arena.Steps(i) }

// TotalSteps returns the number of stored steps over all binaries.
func (t *Track) TotalSteps() int { return t.arena.Len() }

// Mode returns the integrator that produced t.
func (t *Track) Mode() Mode { return t.mode }

// Eccentric reports whether eccentricity was evolved.
func (t *Track) Eccentric() bool { return t.eccentric }

// Accreting reports whether an accretion model was attached.
func (t *Track) Accreting() bool { return t.accreting }

// SampleVolume returns the population's effective comoving volume [cm^3].
func (t *Track) SampleVolume() float64 { return t.sampleVolume }

// Cosmology returns the conversions used during integration.
func (t *Track) Cosmology() cosmo.Cosmology { return t.cosmo }

// HardeningNames returns the names of the hardening models, in order.
func (t *Track) HardeningNames() []string { return t.hardNames }

// Params returns the parameters stored for this track.
func (t *Track) Params() []Param {
	ps := []Param{ParamSepa, ParamM1, ParamM2, ParamScafa, ParamTlook, ParamDadt}
	if t.eccentric {
		ps = append(ps, ParamEccen, ParamDedt)
	}
	if t.accreting {
		ps = append(ps, ParamMdot1, ParamMdot2)
	}
	return ps
}

// tracks reports whether p is available on t.
func (t *Track) tracks(p Param) bool {
	switch p {
	case ParamEccen, ParamDedt:
		return t.eccentric
	case ParamMdot1, ParamMdot2:
		return t.accreting
	case ParamFobs:
		return true
	}
	_, ok := paramColumn[p]
	return ok
}

// Series returns parameter p of binary i. Stored parameters share storage
// with the track; ParamFobs is computed into a new slice.
func (t *Track) Series(p Param, i int) ([]float64, error) {
	if !t.tracks(p) {
		return nil, fmt.Errorf("Track.Series(%q): %w", p, ErrUnknownParam)
	}
	if i < 0 || i >= t.Size() {
		return nil, fmt.Errorf("Track.Series(%q, %d): %w", p, i, grid.ErrOutOfRange)
	}
	if p == ParamFobs {
		return t.FreqOrbObs(i), nil
	}
	return t.arena.Series(paramColumn[p], i), nil
}

// col is Series for stored columns without checks.
func (t *Track) col(c, i int) []float64 { return t.arena.Series(c, i) }

// DebugRates returns the da/dt contribution of hardening model j for
// binary i, or nil when debug rates were not recorded.
func (t *Track) DebugRates(j, i int) []float64 {
	if !t.debug || j < 0 || j >= len(t.hardNames) {
		return nil
	}
	return t.arena.Series(grid.ColumnCount+j, i)
}

// Coalesced reports, per binary, whether the final scale-factor is < 1.
func (t *Track) Coalesced() []bool {
	if t.coal == nil {
		t.coal = make([]bool, t.Size())
		for i := range t.coal {
			t.coal[i] = t.IsCoalesced(i)
		}
	}
	return t.coal
}

// IsCoalesced reports whether binary i reached ISCO before redshift zero.
func (t *Track) IsCoalesced(i int) bool {
	sc := t.col(grid.ColScafa, i)
	return sc[len(sc)-1] < 1.0
}

// Final returns the last stored value of p for binary i.
func (t *Track) Final(p Param, i int) (float64, error) {
	s, err := t.Series(p, i)
	if err != nil {
		return 0, err
	}
	return s[len(s)-1], nil
}

// FreqOrbRest returns the rest-frame orbital frequency [1/s] of binary i at
// every step.
func (t *Track) FreqOrbRest(i int) []float64 {
	sepa := t.col(grid.ColSepa, i)
	m1, m2 := t.col(grid.ColM1, i), t.col(grid.ColM2, i)
	out := make([]float64, len(sepa))
	for k := range sepa {
		out[k] = phys.KeplerFreqFromSepa(m1[k]+m2[k], sepa[k])
	}
	return out
}

// FreqOrbObs returns the observer-frame orbital frequency [1/s] of binary i.
func (t *Track) FreqOrbObs(i int) []float64 {
	out := t.FreqOrbRest(i)
	sc := t.col(grid.ColScafa, i)
	for k := range out {
		out[k] *= sc[k] // f_obs = f_rest / (1+z) = f_rest * a
	}
	return out
}

// Age returns the age of the universe [s] at every step of binary i.
func (t *Track) Age(i int) []float64 {
	age0 := t.cosmo.Age(0)
	tl := t.col(grid.ColTlook, i)
	out := make([]float64, len(tl))
	for k := range tl {
		out[k] = age0 - tl[k]
	}
	return out
}

// TotalMassRatio returns total mass [g] and mass ratio (≤ 1) of binary i.
func (t *Track) TotalMassRatio(i int) (mtot, mrat []float64) {
	m1, m2 := t.col(grid.ColM1, i), t.col(grid.ColM2, i)
	mtot = make([]float64, len(m1))
	mrat = make([]float64, len(m1))
	for k := range m1 {
		mtot[k], mrat[k] = phys.MtotMrat(m1[k], m2[k])
	}
	return mtot, mrat
}
