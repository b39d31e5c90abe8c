// SPDX-License-Identifier: MIT

// Package evolution integrates discrete binary populations from formation
// to coalescence and interpolates the resulting tracks.
//
// 🚀 What is evolution?
//
//	Evolve          - fixed step count per binary, separations log-spaced
//	                  from the initial value to ISCO; time steps from a
//	                  log-log trapezoid rule on 1/|da/dt|
//	EvolveAdaptive  - one binary at a time with CFL-limited steps,
//	                  predictor-corrector averaging and ISCO clamping,
//	                  stored in a chunked arena
//	Track.At        - interpolate any tracked quantity to target
//	                  separations or observer-frame orbital frequencies
//
// Each binary is an independent state machine:
//
//	ACTIVE ──step──▶ ACTIVE
//	ACTIVE ──a ≤ ISCO or tlook ≤ 0──▶ DONE
//	ACTIVE ──step budget exhausted──▶ error (*IntegrationError)
//
// A binary is "coalesced" when its final scale-factor is < 1, i.e. it
// reached ISCO before the present epoch.
//
// ⚙️ Usage
//
//	ft, _ := hardening.NewFixedTime(pop, phys.GYR)
//	track, err := evolution.Evolve(pop, []hardening.Model{hardening.GW{}, ft},
//	    evolution.WithSteps(100))
//	vals, err := track.At(evolution.IndepFobs, fobs,
//	    []evolution.Param{evolution.ParamM1, evolution.ParamEccen},
//	    evolution.AtOptions{CoalescingOnly: true})
//
// Numerical-invariant violations are fatal: the integrators return a
// *IntegrationError naming the binary, step, field and offending value, and
// never a partial track.
package evolution
