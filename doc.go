// Package holodeck populates a universe with massive black-hole binaries,
// evolves them to coalescence and synthesizes the gravitational-wave
// background they produce in a pulsar-timing band.
//
// 🚀 What is holodeck?
//
//	A pure-Go engine that brings together:
//		• Binary populations: explicit or synthetic, optionally eccentric
//		• Hardening models: GW emission, fixed-time, power-law, stellar scattering
//		• Accretion: Eddington-limited growth with preferential-accretion splits
//		• Integration: fixed step count or adaptive CFL steps on a chunked arena
//		• Interpolation: any tracked quantity at target separations or frequencies
//		• Resampling: lambda-factor weights and a reflecting Gaussian KDE
//		• GWB synthesis: Poisson realizations, harmonics, foreground/background
//
// ✨ Why holodeck?
//
//   - Reproducible – every stochastic call takes an explicit *rand.Rand
//   - Checked – integration stops with a typed error naming binary, step and field
//   - Configurable – strict YAML with suggestions for mistyped model kinds
//
// Under the hood, everything is organized under these packages:
//
//	phys/       CGS constants, Kepler and Peters relations, g(n,e), trapezoid rules
//	rng/        seeding, stream derivation, Poisson and normal draws
//	grid/       Dense matrices and the per-binary column Arena
//	cosmo/      flat ΛCDM distances, lookback times, redshift inversions
//	binary/     Population, per-step State, synthetic generator
//	hardening/  rate models and the kind factory
//	accretion/  accretion models and split policies
//	evolution/  Evolve, EvolveAdaptive, Track and Track.At
//	universe/   Weights, Sample and Resample
//	gwb/        Synthesize and FromCatalog
//	config/     YAML run configuration and builders
//
// Quick ASCII picture of a synthesized spectrum:
//
//	hc ▲
//	   │ ╲        foreground: L loudest sources
//	   │   ╲___   background: everything else
//	   └────────▶ f_gw
//
//	go install github.com/jaedmunt/holodeck/cmd/holodeck@latest
package holodeck
