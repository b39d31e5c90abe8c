// SPDX-License-Identifier: MIT

package phys

import "math"

// Physical constants and unit conversions, CGS.
const (
	NWTG  = 6.6743e-08                 // Newton's gravitational constant [cm^3/g/s^2]
	SPLC  = 2.99792458e+10             // speed of light [cm/s]
	MSOL  = 1.988409870698051e+33      // solar mass [g]
	MPRT  = 1.67262192369e-24          // proton mass [g]
	SIGMT = 6.6524587321e-25           // Thomson cross section [cm^2]
	PC    = 3.085677581491367e+18      // parsec [cm]
	KPC   = 1.0e3 * PC                 // kiloparsec [cm]
	MPC   = 1.0e6 * PC                 // megaparsec [cm]
	YR    = 3.15576e+07                // Julian year [s]
	GYR   = 1.0e9 * YR                 // gigayear [s]
	SCHW  = 2.0 * NWTG / (SPLC * SPLC) // Schwarzschild radius per unit mass [cm/g]
)

// EddingtonEfficiency is the radiative efficiency used to convert an
// Eddington luminosity into an Eddington accretion rate.
const EddingtonEfficiency = 0.1

// ISCOFactor is the ISCO radius in units of the Schwarzschild radius of the
// total mass.
const ISCOFactor = 3.0

// MaxEccenOneMinus bounds eccentricity away from unity: e ∈ [0, 1-MaxEccenOneMinus].
const MaxEccenOneMinus = 1.0e-6

// Pre-computed Peters (1964) and strain prefactors.
var (
	// Sesana+2004 Eq.36
	gwSrcConst = 8.0 * math.Pow(NWTG, 5.0/3.0) * math.Pow(math.Pi, 2.0/3.0) / math.Sqrt(10.0) / math.Pow(SPLC, 4.0)
	// Peters 1964 Eq.5.6
	gwDadtSepConst = -64.0 * math.Pow(NWTG, 3.0) / 5.0 / math.Pow(SPLC, 5.0)
	// Peters 1964 Eq.5.8
	gwDedtEccConst = -304.0 * math.Pow(NWTG, 3.0) / 15.0 / math.Pow(SPLC, 5.0)
	// EN07 Eq.2.2
	gwLumConst = (32.0 / 5.0) * math.Pow(NWTG, 7.0/3.0) * math.Pow(SPLC, -5.0)
	// L_Edd / (eps c^2) per gram of accretor
	eddMdotConst = 4.0 * math.Pi * NWTG * MPRT / (SIGMT * SPLC * EddingtonEfficiency)
)
