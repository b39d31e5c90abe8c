// SPDX-License-Identifier: MIT

package evolution

import (
	"math"

	"github.com/jaedmunt/holodeck/binary"
	"github.com/jaedmunt/holodeck/grid"
	"github.com/jaedmunt/holodeck/hardening"
	"github.com/jaedmunt/holodeck/phys"
)

// edge is the rate set evaluated at one side of a step.
type edge struct {
	dadt, dedt   float64
	m1dot, m2dot float64
}

// EvolveAdaptive integrates pop one binary at a time with CFL-limited
// variable steps, storing tracks in a chunked arena.
//
// Implementation:
//   - Stage 1: copy the initial state into the binary's first row and
//     evaluate its rates.
//   - Stage 2: while a > ISCO and tlook > 0: dt_left from the stability
//     bounds, provisional right edge, dt_right from the provisional rates,
//     averaged rates with dt = min(dt_left, dt_right). A step ending below
//     z = 1e-3 is stretched to z = 0; one ending within 1.001·ISCO is
//     rescaled so the binary lands exactly on ISCO. A binary formed below
//     z = 1e-3 therefore takes a single step to z = 0.
//   - Stage 3: trim the arena, run modifiers and the consistency checks.
//
// Stability bounds, each scaled by CFL: a/|da/dt|, max(e,1e-3)/|de/dt| when
// eccentric, min(m_k/mdot_k) when accreting; then capped by MaxStep and by
// the remaining lookback time.
//
// Errors:
//   - configuration: binary.Err*, ErrNoModels;
//   - numerical: *IntegrationError wrapping ErrStepBudget,
//     ErrNegativeTimestep, ErrNonFinite, ErrSeparationIncrease or ErrInvariant.
//
// Complexity:
//   - Time O(Σ S_i · H), Space O(Σ S_i) for S_i steps of binary i.
func EvolveAdaptive(pop *binary.Population, models []hardening.Model, opts ...Option) (*Track, error) {
	if err := validateInputs(pop, models); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	n := pop.Size()
	arena, err := grid.NewArena(columnCount(models, o), n, n*o.ChunkPerBinary)
	if err != nil {
		return nil, err
	}
	in := prepare(pop, models, o, arena, ModeAdaptive)
	o.logf("evolution: adaptive mode, %d binaries, cfl=%g, hardening=%s", n, o.CFL, in.hard.Name())

	for i := 0; i < n; i++ {
		if err := in.evolveOne(i); err != nil {
			return nil, err
		}
		o.progress(i+1, n)
	}
	arena.Trim()
	in.refresh()

	t, err := in.finalize()
	if err != nil {
		return nil, err
	}
	o.logf("evolution: done, %d steps stored, %d/%d binaries coalesce before z=0",
		arena.Len(), countTrue(t.Coalesced()), n)
	return t, nil
}

// push appends a row for the open binary, re-slicing columns after growth.
func (in *integrator) push() (int, error) {
	a := in.track.arena
	before := a.Cap()
	k, err := a.Push()
	if err != nil {
		return 0, err
	}
	if a.Cap() != before {
		in.opts.logf("evolution: arena grown to %d rows", a.Cap())
	}
	in.refresh()
	return k, nil
}

// evaluate returns the rates at row k and stores them (and debug rates).
func (in *integrator) evaluate(i, step, k int, store bool) edge {
	s := in.state(i, step, k)
	var e edge
	e.dadt, e.dedt = in.rates(s, k, store)
	e.m1dot, e.m2dot = in.mdot(s)
	return e
}

// timestep returns the CFL-limited step at row k under rates e.
func (in *integrator) timestep(k int, e edge) float64 {
	c, cfl := in.cols, in.opts.CFL
	dt := math.Inf(1)
	if e.dadt != 0 {
		dt = math.Min(dt, cfl*c[grid.ColSepa][k]/math.Abs(e.dadt))
	}
	if in.track.eccentric && e.dedt != 0 {
		dt = math.Min(dt, cfl*math.Max(c[grid.ColEccen][k], eccenFloor)/math.Abs(e.dedt))
	}
	if e.m1dot > 0 {
		dt = math.Min(dt, cfl*c[grid.ColM1][k]/e.m1dot)
	}
	if e.m2dot > 0 {
		dt = math.Min(dt, cfl*c[grid.ColM2][k]/e.m2dot)
	}
	return dt
}

// advance writes the right edge r = l + rates·dt.
func (in *integrator) advance(l, r int, e edge, dt float64, sepa float64) {
	c := in.cols
	c[grid.ColSepa][r] = sepa
	if in.track.eccentric {
		c[grid.ColEccen][r] = clipEccen(c[grid.ColEccen][l] + e.dedt*dt)
	}
	c[grid.ColM1][r] = c[grid.ColM1][l]
	c[grid.ColM2][r] = c[grid.ColM2][l]
	if in.evolveMass() {
		c[grid.ColM1][r] += e.m1dot * dt
		c[grid.ColM2][r] += e.m2dot * dt
	}
	c[grid.ColTlook][r] = c[grid.ColTlook][l] - dt
	c[grid.ColScafa][r] = scafaFromTlook(in.opts.Cosmology, c[grid.ColTlook][r])
}

// evolveOne integrates binary i to completion.
func (in *integrator) evolveOne(i int) error {
	a := in.track.arena
	if err := a.Begin(i); err != nil {
		return err
	}
	l, err := in.push()
	if err != nil {
		return err
	}
	in.initRow(i, l)
	left := in.evaluate(i, 0, l, true)
	in.store(l, left)

	c := in.cols
	risco := phys.RadISCO(c[grid.ColM1][l], c[grid.ColM2][l])
	for step := 1; c[grid.ColSepa][l] > risco && c[grid.ColTlook][l] > 0; step++ {
		if step > in.opts.MaxBinarySteps {
			return integrationErr(i, step, "steps", float64(step), ErrStepBudget)
		}
		r, err := in.push()
		if err != nil {
			return err
		}
		c = in.cols
		capDt := math.Min(c[grid.ColTlook][l], in.opts.MaxStep)

		// predictor
		dtL := in.snap(l, math.Min(in.timestep(l, left), capDt))
		in.advance(l, r, left, dtL, c[grid.ColSepa][l]+left.dadt*dtL)
		right := in.evaluate(i, step, r, false)
		dtR := math.Min(in.timestep(r, right), capDt)

		// corrector
		avg := edge{
			dadt:  0.5 * (left.dadt + right.dadt),
			dedt:  0.5 * (left.dedt + right.dedt),
			m1dot: 0.5 * (left.m1dot + right.m1dot),
			m2dot: 0.5 * (left.m2dot + right.m2dot),
		}
		dt := in.snap(l, math.Min(dtL, dtR))
		sepa := c[grid.ColSepa][l] + avg.dadt*dt
		if sepa <= iscoMargin*risco {
			dt = (risco - c[grid.ColSepa][l]) / avg.dadt
			sepa = risco
		}
		if !finite(dt) {
			return integrationErr(i, step, "dt", dt, ErrNonFinite)
		}
		if dt <= 0 {
			return integrationErr(i, step, "dt", dt, ErrNegativeTimestep)
		}
		// a step may round to the same separation far from ISCO, never above it
		if !(sepa <= c[grid.ColSepa][l]) {
			return integrationErr(i, step, "sepa", sepa, ErrSeparationIncrease)
		}
		in.advance(l, r, avg, dt, sepa)

		right = in.evaluate(i, step, r, true)
		in.store(r, right)
		if !finite(right.dadt) {
			return integrationErr(i, step, "dadt", right.dadt, ErrNonFinite)
		}
		left, l = right, r
		risco = phys.RadISCO(c[grid.ColM1][l], c[grid.ColM2][l])
	}
	return a.End()
}

// snap stretches dt to the remaining lookback time when the step would end
// below the redshift floor, so that tracks stopped by the floor finish at
// z = 0 with scale-factor 1 instead of counting as coalesced.
func (in *integrator) snap(l int, dt float64) float64 {
	tl := in.cols[grid.ColTlook][l]
	if in.opts.Cosmology.TlbkToZ(tl-dt) < redzFloor {
		return tl
	}
	return dt
}

// store records the rates of row k.
func (in *integrator) store(k int, e edge) {
	c := in.cols
	c[grid.ColDadt][k] = e.dadt
	if in.track.eccentric {
		c[grid.ColDedt][k] = e.dedt
	}
	if in.opts.Accretion != nil {
		c[grid.ColMdot1][k] = e.m1dot
		c[grid.ColMdot2][k] = e.m2dot
	}
}
