// Package phys collects the pure numeric building blocks shared by the
// binary-evolution integrator and the gravitational-wave synthesis engine.
//
// 🚀 What lives here?
//
//	Stateless float64 functions, all in CGS units:
//	  • Kepler frequency ↔ separation conversions, Schwarzschild and ISCO radii
//	  • chirp mass, total mass and mass ratio conversions
//	  • Peters (1964) GW hardening rates da/dt, de/dt and the F(e) enhancement
//	  • the GW frequency distribution g(n,e) of an eccentric orbit (Peters & Mathews 1963)
//	  • sky/polarisation averaged source strain and GW luminosity
//	  • the "lambda factor" that converts one simulated binary into an expected
//	    number of binaries in the observer's light cone per ln-frequency
//	  • trapezoid rules in linear and log-log space
//
// ⚙️ Conventions:
//
//   - Frequencies are ORBITAL frequencies unless a name says otherwise; for a
//     circular orbit the GW frequency is twice the orbital frequency.
//   - da/dt is negative for a shrinking orbit; de/dt is signed.
//   - Functions never panic and never allocate in scalar form; slice helpers
//     report length problems through the sentinels in errors.go.
//
// References:
//
//	Peters 1964, PhRv 136, 1224: GW driven orbital decay.
//	Enoki & Nagashima 2007, PThPh 117, 241: harmonic decomposition.
//	Sesana, Haardt & Madau 2004/2008: source strain and number counts.
package phys
