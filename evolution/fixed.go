// SPDX-License-Identifier: MIT

package evolution

import (
	"github.com/jaedmunt/holodeck/binary"
	"github.com/jaedmunt/holodeck/grid"
	"github.com/jaedmunt/holodeck/hardening"
	"github.com/jaedmunt/holodeck/phys"
)

// Evolve integrates pop under the summed hardening models using a fixed
// number of steps per binary.
//
// Implementation:
//   - Stage 1: per binary, log-space Steps separations from the initial
//     value to ISCO and copy the initial state into step 0.
//   - Stage 2: for s = 1..Steps-1, advance every binary from s-1 (left) to
//     s (right): provisional dt = -Δa/(da/dt)_left, provisional right-edge
//     eccentricity and lookback time, right-edge rates, corrected dt from a
//     log-log trapezoid on 1/|da/dt|, trapezoid de over the step, and
//     mass growth mdot_left·dt when accreting.
//   - Stage 3: modifiers, then the consistency checks of finalize.
//
// Errors:
//   - configuration: binary.Err*, ErrNoModels, ErrBadSteps;
//   - numerical: *IntegrationError wrapping ErrNegativeTimestep,
//     ErrNonFinite, ErrSeparationIncrease or ErrInvariant.
//
// Complexity:
//   - Time O(N·S·H) for N binaries, S steps and H models; Space O(N·S).
func Evolve(pop *binary.Population, models []hardening.Model, opts ...Option) (*Track, error) {
	if err := validateInputs(pop, models); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	if o.Steps < 2 {
		return nil, ErrBadSteps
	}
	n, steps := pop.Size(), o.Steps
	arena, err := grid.NewFixedArena(columnCount(models, o), n, steps)
	if err != nil {
		return nil, err
	}
	in := prepare(pop, models, o, arena, ModeFixed)
	o.logf("evolution: fixed mode, %d binaries x %d steps, hardening=%s", n, steps, in.hard.Name())

	in.initFixed()
	for s := 1; s < steps; s++ {
		for i := 0; i < n; i++ {
			if err := in.stepFixed(i, s); err != nil {
				return nil, err
			}
		}
		o.progress(s, steps-1)
	}

	t, err := in.finalize()
	if err != nil {
		return nil, err
	}
	o.logf("evolution: done, %d/%d binaries coalesce before z=0", countTrue(t.Coalesced()), n)
	return t, nil
}

// initFixed lays out separations and step-0 state for every binary.
func (in *integrator) initFixed() {
	a, c := in.track.arena, in.cols
	for i := 0; i < in.pop.Size(); i++ {
		first, last := a.Span(i)
		risco := phys.RadISCO(in.pop.M1[i], in.pop.M2[i])
		phys.LogSpaceInto(c[grid.ColSepa][first:last], in.pop.Sepa[i], risco)

		in.initRow(i, first)
		for k := first + 1; k < last; k++ {
			c[grid.ColM1][k] = in.pop.M1[i]
			c[grid.ColM2][k] = in.pop.M2[i]
		}
		dadt, dedt := in.rates(in.state(i, 0, first), first, true)
		c[grid.ColDadt][first] = dadt
		if in.track.eccentric {
			c[grid.ColDedt][first] = dedt
		}
	}
}

// stepFixed advances binary i from step s-1 to step s.
func (in *integrator) stepFixed(i, s int) error {
	c := in.cols
	first, _ := in.track.arena.Span(i)
	l, r := first+s-1, first+s
	cos := in.opts.Cosmology
	ecc := in.track.eccentric

	// left-edge rates, without touching the debug columns
	left := in.state(i, s-1, l)
	dadtL, dedtL := in.rates(left, l, false)
	da := c[grid.ColSepa][l] - c[grid.ColSepa][r]
	dt := da / -dadtL
	if err := checkDt(i, s, dt); err != nil {
		return err
	}

	// provisional right edge
	c[grid.ColM1][r] = c[grid.ColM1][l]
	c[grid.ColM2][r] = c[grid.ColM2][l]
	if ecc {
		c[grid.ColEccen][r] = clipEccen(c[grid.ColEccen][l] + dedtL*dt)
	}
	c[grid.ColTlook][r] = c[grid.ColTlook][l] - dt
	c[grid.ColScafa][r] = scafaFromTlook(cos, c[grid.ColTlook][r])

	dadtR, dedtR := in.rates(in.state(i, s, r), r, true)
	c[grid.ColDadt][r] = dadtR
	if ecc {
		c[grid.ColDedt][r] = dedtR
	}

	// corrected step: x runs from the right (smaller) to the left separation
	dt = phys.TrapzLogLog2(c[grid.ColSepa][r], c[grid.ColSepa][l], 1.0/-dadtR, 1.0/-dadtL)
	if err := checkDt(i, s, dt); err != nil {
		return err
	}
	c[grid.ColTlook][r] = c[grid.ColTlook][l] - dt
	c[grid.ColScafa][r] = scafaFromTlook(cos, c[grid.ColTlook][r])
	if ecc {
		// forward time is -tlook, so the integral runs from tlook_l to tlook_r
		decc := phys.Trapz2(c[grid.ColTlook][r], c[grid.ColTlook][l], dedtR, dedtL)
		if !finite(decc) {
			return integrationErr(i, s, "eccen", decc, ErrNonFinite)
		}
		c[grid.ColEccen][r] = clipEccen(c[grid.ColEccen][l] + decc)
	}

	if in.opts.Accretion != nil {
		m1dot, m2dot := in.mdot(left)
		c[grid.ColMdot1][l] = m1dot
		c[grid.ColMdot2][l] = m2dot
		if in.evolveMass() {
			c[grid.ColM1][r] = c[grid.ColM1][l] + dt*m1dot
			c[grid.ColM2][r] = c[grid.ColM2][l] + dt*m2dot
		}
		if s == in.opts.Steps-1 {
			c[grid.ColMdot1][r], c[grid.ColMdot2][r] = in.mdot(in.state(i, s, r))
		}
	}
	return nil
}

func checkDt(i, s int, dt float64) error {
	if !finite(dt) {
		return integrationErr(i, s, "dt", dt, ErrNonFinite)
	}
	if dt < 0 {
		return integrationErr(i, s, "dt", dt, ErrNegativeTimestep)
	}
	return nil
}

func countTrue(bs []bool) int {
	var n int
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
