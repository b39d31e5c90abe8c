// SPDX-License-Identifier: MIT

package phys

import "math"

// gneEccenFloor is the eccentricity below which g(n,e) is taken at its
// circular limit exactly.
const gneEccenFloor = 1.0e-8

// GWEccFunc returns the Peters (1964) eccentric enhancement F(e) of the GW
// hardening rate; F(0) = 1.
func GWEccFunc(eccen float64) float64 {
	e2 := eccen * eccen
	num := 1.0 + (73.0/24.0)*e2 + (37.0/96.0)*e2*e2
	den := math.Pow(1.0-e2, 7.0/2.0)
	return num / den
}

// GWDadt returns the GW hardening rate da/dt [cm/s] (negative).
// Pass eccen = 0 for a circular orbit.
func GWDadt(m1, m2, sepa, eccen float64) float64 {
	dadt := gwDadtSepConst * m1 * m2 * (m1 + m2) / math.Pow(sepa, 3.0)
	if eccen > 0 {
		dadt *= GWEccFunc(eccen)
	}
	return dadt
}

// GWDedt returns the GW eccentricity evolution rate de/dt [1/s] (negative,
// e and a shrink together). Peters 1964 Eq.5.8.
func GWDedt(m1, m2, sepa, eccen float64) float64 {
	e2 := eccen * eccen
	dedt := gwDedtEccConst * m1 * m2 * (m1 + m2) / math.Pow(sepa, 4.0)
	dedt *= (1.0 + e2*121.0/304.0) * eccen / math.Pow(1.0-e2, 5.0/2.0)
	return dedt
}

// GWDfdt returns the GW chirp rate df/dt [1/s^2] at orbital frequency freq.
func GWDfdt(m1, m2, freq, eccen float64) float64 {
	sepa := KeplerSepaFromFreq(m1+m2, freq)
	dadt := GWDadt(m1, m2, sepa, eccen)
	return DfdtFromDadt(dadt, sepa, freq)
}

// GWFreqDistFunc returns g(n,e), the fraction of GW power an orbit of
// eccentricity e radiates into harmonic n of the orbital frequency
// (Peters & Mathews 1963; EN07 Eq.2.4).
//
// Below gneEccenFloor the circular limit is returned exactly:
// g(2,0) = 1 and g(n≠2,0) = 0. Bessel functions are evaluated directly with
// math.Jn rather than by upward recursion, which loses precision as ne → 0.
func GWFreqDistFunc(n int, eccen float64) float64 {
	if n < 1 {
		return 0
	}
	if eccen < gneEccenFloor {
		if n == 2 {
			return 1
		}
		return 0
	}

	ne := float64(n) * eccen
	jm2 := math.Jn(n-2, ne)
	jm1 := math.Jn(n-1, ne)
	j0 := math.Jn(n, ne)
	jp1 := math.Jn(n+1, ne)
	jp2 := math.Jn(n+2, ne)

	nf := float64(n)
	n2 := nf * nf
	aa := jm2 - 2.0*eccen*jm1 + (2.0/nf)*j0 + 2.0*eccen*jp1 - jp2
	bb := jm2 - 2.0*j0 + jp2
	cc := (4.0 / (3.0 * n2)) * j0 * j0
	return (n2 * n2 / 32.0) * (aa*aa + (1.0-eccen*eccen)*bb*bb + cc)
}

// GWStrainSource returns the sky- and polarisation-averaged strain amplitude
// of a circular source with chirp mass mchirp [g] at distance dist [cm]
// emitting at orbital frequency forb [1/s] (Sesana+2004 Eq.36).
//
// Rest-frame (mchirp, dcom, frst) and observer-frame (mchirp(1+z), dlum,
// fobs) arguments give the same result.
func GWStrainSource(mchirp, dist, forb float64) float64 {
	return gwSrcConst * mchirp * math.Pow(2.0*mchirp*forb, 2.0/3.0) / dist
}

// GWLumCirc returns the GW luminosity [erg/s] of a circular binary (EN07 Eq.2.2).
func GWLumCirc(mchirp, forbRest float64) float64 {
	return gwLumConst * math.Pow(2.0*math.Pi*forbRest*mchirp, 10.0/3.0)
}

// GWCharStrain converts a source strain into characteristic strain by the
// number of cycles spent near frequency, clipped to the cycles observed in
// durObs (Sesana+2004 Eq.35).
func GWCharStrain(hs, durObs, fobs, frst, dfdt float64) float64 {
	ncycles := frst * frst / dfdt
	if lim := durObs * fobs; ncycles > lim {
		ncycles = lim
	}
	return hs * math.Sqrt(ncycles)
}

// TimeToMergeAtSep returns the GW-only inspiral time [s] from separation
// sepa to the ISCO of a circular binary.
func TimeToMergeAtSep(m1, m2, sepa float64) float64 {
	a1 := RadISCO(m1, m2)
	delta := math.Pow(sepa, 4.0) - math.Pow(a1, 4.0)
	return delta / (-gwDadtSepConst * 4.0 * m1 * m2 * (m1 + m2))
}

// SepToMergeInTime returns the initial separation [cm] from which a circular
// binary reaches ISCO after time [s] of GW-only inspiral.
func SepToMergeInTime(m1, m2, time float64) float64 {
	a1 := RadISCO(m1, m2)
	return math.Pow(-gwDadtSepConst*4.0*m1*m2*(m1+m2)*time+math.Pow(a1, 4.0), 0.25)
}

// LambdaFactorDlnf returns the expected number of binaries, per unit
// comoving volume of the simulation and per ln-frequency, that one simulated
// binary represents in the observer's light cone:
//
//	λ = 4π c (1+z) dcom² · f/(df/dt)
//
// Divide by the simulation volume and multiply by Δln f to obtain a count.
func LambdaFactorDlnf(frst, dfdt, redz, dcom float64) float64 {
	vfac := 4.0 * math.Pi * SPLC * (1.0 + redz) * dcom * dcom
	tfac := frst / dfdt
	return vfac * tfac
}
