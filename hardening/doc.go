// SPDX-License-Identifier: MIT

// Package hardening provides binary hardening-rate models.
//
// 🚀 What is a hardening model?
//
//	Anything that shrinks a binary's separation: GW emission, stellar
//	scattering, dynamical friction, circumbinary-disk torques. Every model
//	answers one question for one binary at one step:
//
//	    Rate(state) -> (da/dt [cm/s], de/dt [1/s])
//
// Models are a closed set selected by Kind:
//
//	gw                 - Peters (1964) GW emission
//	fixed_time         - two-power-law environmental rate normalised so that
//	                     env+GW coalescence takes a fixed total time
//	power_law          - un-normalised single power law in separation
//	stellar_scattering - Quinlan (1996) da/dt = -H G ρ a² / σ
//
// Composite sums any number of them (net rate = sum of channel rates).
//
// ⚙️ Usage
//
//	ft, _ := hardening.NewFixedTime(pop, 1*phys.GYR)
//	hard := hardening.NewComposite(hardening.GW{}, ft)
//	dadt, dedt := hard.Rate(state)
package hardening
