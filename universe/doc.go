// SPDX-License-Identifier: MIT

// Package universe turns a finite set of evolved binaries into a synthetic
// observable universe at a set of orbital-frequency bins.
//
// 🚀 What is universe?
//
//	Weights   - interpolate every binary to the bin centres and attach the
//	            expected number of such binaries in the light cone
//	Resample  - draw a Poisson number of synthetic binaries from the
//	            weighted point cloud with a Gaussian kernel, reflecting at
//	            the physical bounds (q ≤ 1, e ∈ [0,1], f inside the band)
//	Sample    - both steps in one call
//
// Samples are kept in the space the kernel works in: log10 of total mass,
// mass ratio, redshift and frequency; linear eccentricity and rates.
// Catalog values are always linear physical units (CGS).
//
// ⚙️ Usage
//
//	cat, samples, err := universe.Sample(rnd, track, fobsEdges,
//	    universe.WithDownSample(10))
//	fmt.Println(cat.Len(), samples.TotalWeight()/10)
package universe
