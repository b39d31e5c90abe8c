// SPDX-License-Identifier: MIT

// Package accretion provides optional mass-growth models for the integrator.
//
// A Model answers two questions per binary and step: how much gas the
// binary accretes in total (TotalRate) and how that gas is shared between
// primary and secondary (Split). EvolveMass reports whether the integrator
// should actually add the mass; when false the rates are kept for
// diagnostics only.
//
// ⚙️ Usage
//
//	acc := accretion.NewEddington(0.1, accretion.SplitSecondary, accretion.WithSubPc())
//	mdot := acc.TotalRate(state)
//	m1dot, m2dot := acc.Split(mdot, state)
package accretion
