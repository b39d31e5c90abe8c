// SPDX-License-Identifier: MIT

package phys

import "math"

// KeplerFreqFromSepa returns the orbital frequency [1/s] of a binary with
// total mass mass [g] at separation sepa [cm].
func KeplerFreqFromSepa(mass, sepa float64) float64 {
	return (1.0 / (2.0 * math.Pi)) * math.Sqrt(NWTG*mass) / math.Pow(sepa, 1.5)
}

// KeplerSepaFromFreq is the inverse of KeplerFreqFromSepa.
func KeplerSepaFromFreq(mass, freq float64) float64 {
	w := 2.0 * math.Pi * freq
	return math.Cbrt(NWTG * mass / (w * w))
}

// SchwarzschildRadius returns 2GM/c^2 [cm].
func SchwarzschildRadius(mass float64) float64 {
	return SCHW * mass
}

// RadISCO returns the separation at which a binary is considered merged:
// ISCOFactor Schwarzschild radii of the total mass.
func RadISCO(m1, m2 float64) float64 {
	return ISCOFactor * SchwarzschildRadius(m1+m2)
}

// FrstFromFobs converts an observer-frame frequency to the rest frame.
func FrstFromFobs(fobs, redz float64) float64 {
	return fobs * (1.0 + redz)
}

// DfdtFromDadt converts a separation hardening rate into an orbital
// frequency chirp rate, df/dt = -(3/2) (f/a) da/dt. A shrinking orbit
// (dadt < 0) gives dfdt > 0.
func DfdtFromDadt(dadt, sepa, forb float64) float64 {
	dfda := -1.5 * forb / sepa
	return dfda * dadt
}

// NyquistFreqs returns the Fourier frequencies 1/dur, 2/dur, ... up to 1/cad
// for an observing campaign of duration dur with cadence cad (both [s]).
func NyquistFreqs(dur, cad float64) ([]float64, error) {
	if dur <= 0 || cad <= 0 {
		return nil, ErrNonPositive
	}
	fmin := 1.0 / dur
	fmax := 1.0 / cad
	n := int(math.Floor(fmax/fmin + 0.1))
	if n < 1 {
		return nil, ErrTooFewPoints
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i+1) * fmin
	}
	return out, nil
}
