// SPDX-License-Identifier: MIT

package evolution

import (
	"math"

	"github.com/jaedmunt/holodeck/binary"
	"github.com/jaedmunt/holodeck/cosmo"
	"github.com/jaedmunt/holodeck/grid"
	"github.com/jaedmunt/holodeck/hardening"
	"github.com/jaedmunt/holodeck/phys"
)

// maxEccen is the upper clip applied to evolved eccentricities.
const maxEccen = 1.0 - phys.MaxEccenOneMinus

// integrator carries what both modes share while a track is being built.
type integrator struct {
	pop   *binary.Population
	hard  *hardening.Composite
	opts  Options
	track *Track

	cols [][]float64 // arena columns, refreshed whenever the arena may grow
	per  []float64   // per-model da/dt scratch, nil unless debugging
}

// prepare wires the integrator around arena.
func prepare(pop *binary.Population, models []hardening.Model, opts Options, arena *grid.Arena, mode Mode) *integrator {
	hard := hardening.NewComposite(models...)
	names := make([]string, hard.Len())
	for j, m := range hard.Models() {
		names[j] = m.Name()
	}
	in := &integrator{
		pop:  pop,
		hard: hard,
		opts: opts,
		track: &Track{
			arena:        arena,
			mode:         mode,
			eccentric:    pop.Eccentric(),
			accreting:    opts.Accretion != nil,
			hardNames:    names,
			debug:        opts.DebugRates,
			cosmo:        opts.Cosmology,
			sampleVolume: pop.SampleVolume,
		},
	}
	if opts.DebugRates {
		in.per = make([]float64, hard.Len())
	}
	in.refresh()
	return in
}

// columnCount returns the arena width needed for models under opts.
func columnCount(models []hardening.Model, opts Options) int {
	if !opts.DebugRates {
		return grid.ColumnCount
	}
	return grid.ColumnCount + hardening.NewComposite(models...).Len()
}

// validateInputs runs the configuration checks shared by both modes.
func validateInputs(pop *binary.Population, models []hardening.Model) error {
	if err := pop.Validate(); err != nil {
		return err
	}
	if hardening.NewComposite(models...).Len() == 0 {
		return ErrNoModels
	}
	return nil
}

func (in *integrator) refresh() {
	a := in.track.arena
	if in.cols == nil {
		in.cols = make([][]float64, a.Columns())
	}
	for c := range in.cols {
		in.cols[c] = a.Col(c)
	}
}

// state builds the rate-model view of row k, which is step `step` of binary i.
func (in *integrator) state(i, step, k int) binary.State {
	c := in.cols
	return binary.State{
		Index:     i,
		Step:      step,
		M1:        c[grid.ColM1][k],
		M2:        c[grid.ColM2][k],
		Sepa:      c[grid.ColSepa][k],
		Eccen:     c[grid.ColEccen][k],
		Scafa:     c[grid.ColScafa][k],
		Tlook:     c[grid.ColTlook][k],
		Eccentric: in.track.eccentric,
	}
}

// rates evaluates the summed hardening rates; when store is set and debug
// rates are enabled the per-model values are written to row k.
func (in *integrator) rates(s binary.State, k int, store bool) (dadt, dedt float64) {
	if in.per == nil || !store {
		return in.hard.Rates(s, nil)
	}
	dadt, dedt = in.hard.Rates(s, in.per)
	for j, v := range in.per {
		in.cols[grid.ColumnCount+j][k] = v
	}
	return dadt, dedt
}

// mdot returns the per-component accretion rates at s, zero without a model.
func (in *integrator) mdot(s binary.State) (m1dot, m2dot float64) {
	acc := in.opts.Accretion
	if acc == nil {
		return 0, 0
	}
	return acc.Split(acc.TotalRate(s), s)
}

// evolveMass reports whether accreted mass is added to the binary.
func (in *integrator) evolveMass() bool {
	return in.opts.Accretion != nil && in.opts.Accretion.EvolveMass()
}

// initRow copies binary i's initial conditions into row k.
func (in *integrator) initRow(i, k int) {
	c, p := in.cols, in.pop
	c[grid.ColSepa][k] = p.Sepa[i]
	c[grid.ColM1][k] = p.M1[i]
	c[grid.ColM2][k] = p.M2[i]
	c[grid.ColScafa][k] = p.Scafa[i]
	c[grid.ColTlook][k] = in.opts.Cosmology.ZToTlbk(in.opts.Cosmology.AToZ(p.Scafa[i]))
	if p.Eccen != nil {
		c[grid.ColEccen][k] = p.Eccen[i]
	}
}

// scafaFromTlook returns the scale-factor at lookback time tlook, held at
// unity once tlook crosses zero.
func scafaFromTlook(c cosmo.Cosmology, tlook float64) float64 {
	if tlook <= 0 {
		return 1.0
	}
	return c.ZToA(c.TlbkToZ(tlook))
}

func clipEccen(e float64) float64 {
	if e < 0 {
		return 0
	}
	if e > maxEccen {
		return maxEccen
	}
	return e
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// finalize runs modifiers and the consistency checks shared by both modes.
//
// Checks:
//   - every stored value is finite;
//   - separation never increases and lookback time never increases;
//   - step 0 reproduces the initial separation and masses exactly;
//   - final masses are not below the initial masses.
func (in *integrator) finalize() (*Track, error) {
	t := in.track
	for _, mod := range in.opts.Modifiers {
		if err := mod(t); err != nil {
			return nil, err
		}
	}
	t.coal = nil

	names := []string{"sepa", "eccen", "m1", "m2", "scafa", "tlook", "dadt", "dedt", "mdot1", "mdot2"}
	for i := 0; i < t.Size(); i++ {
		for c, name := range names {
			for s, v := range t.col(c, i) {
				if !finite(v) {
					return nil, integrationErr(i, s, name, v, ErrNonFinite)
				}
			}
		}
		sepa, tl := t.col(grid.ColSepa, i), t.col(grid.ColTlook, i)
		for s := 1; s < len(sepa); s++ {
			if sepa[s] > sepa[s-1] {
				return nil, integrationErr(i, s, "sepa", sepa[s], ErrSeparationIncrease)
			}
			if tl[s] > tl[s-1] {
				return nil, integrationErr(i, s, "tlook", tl[s], ErrInvariant)
			}
		}

		m1, m2 := t.col(grid.ColM1, i), t.col(grid.ColM2, i)
		last := len(m1) - 1
		switch {
		case sepa[0] != in.pop.Sepa[i]:
			return nil, integrationErr(i, 0, "sepa", sepa[0], ErrInvariant)
		case m1[0] != in.pop.M1[i]:
			return nil, integrationErr(i, 0, "m1", m1[0], ErrInvariant)
		case m2[0] != in.pop.M2[i]:
			return nil, integrationErr(i, 0, "m2", m2[0], ErrInvariant)
		case m1[last] < m1[0]:
			return nil, integrationErr(i, last, "m1", m1[last], ErrInvariant)
		case m2[last] < m2[0]:
			return nil, integrationErr(i, last, "m2", m2[last], ErrInvariant)
		}
	}
	return t, nil
}
