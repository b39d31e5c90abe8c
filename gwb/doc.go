// SPDX-License-Identifier: MIT

// Package gwb synthesizes the gravitational-wave background of an evolved
// binary population.
//
// 🚀 What is gwb?
//
//	Synthesize   - Monte-Carlo spectrum over R Poisson realizations of the
//	               universe: foreground (L loudest sources), background,
//	               total, the analytic expectation, and the circular (n=2)
//	               sub-spectrum
//	FromCatalog  - one-realization spectrum of a resampled catalog, every
//	               catalog entry being one circular source
//
// Frequencies are observer-frame GW frequencies. Harmonic n of a binary
// contributes at GW frequency f when its orbital frequency is f/n; circular
// populations, or NHarmonics = 1, use n = 2 only with unit weight.
//
// All strain outputs are characteristic strain h_c; squared values add.
//
// ⚙️ Usage
//
//	sp, err := gwb.Synthesize(rnd, track, gwEdges,
//	    gwb.WithHarmonics(20), gwb.WithRealizations(500), gwb.WithLoudest(5))
//	hc := sp.Total.Row(0) // R realizations at the first frequency
package gwb
