// SPDX-License-Identifier: MIT

// Package config reads a run description from YAML and turns it into the
// populations, models and options of the library packages.
//
// 🚀 What is config?
//
//	Parse/Load   - strict YAML decoding on top of Default(); unknown keys are
//	               rejected, unknown kinds come back with a suggestion
//	Validate     - domain checks for every field, run before any numeric work
//	Fingerprint  - stable xxh3 digest of the effective configuration
//	Build*       - population, hardening models, accretion model, integrator,
//	               synthesis and resampling options
//
// Values are given in astronomer units (M☉, pc, Gyr, yr, nHz, Mpc³) and
// converted to CGS by the builders.
//
// ⚙️ Usage
//
//	cfg, err := config.Load("run.yaml")
//	pop, err := cfg.BuildPopulation(rng.FromSeed(cfg.Seed))
//	models, err := cfg.BuildHardening(pop)
//	evoOpts, err := cfg.EvolutionOptions()
//
// A minimal document:
//
//	seed: 7
//	population: {n: 200, sepa_pc: [100, 1000]}
//	hardening:
//	  - kind: gw
//	  - kind: fixed_time
//	    hard_time_gyr: 0.5
//	gwb: {fmin_nhz: 2, fmax_nhz: 200, bins: 10, realizations: 200}
package config
