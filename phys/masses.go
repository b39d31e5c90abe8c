// SPDX-License-Identifier: MIT

package phys

import "math"

// ChirpMass returns (m1 m2)^(3/5) / (m1+m2)^(1/5).
func ChirpMass(m1, m2 float64) float64 {
	return math.Pow(m1*m2, 3.0/5.0) / math.Pow(m1+m2, 1.0/5.0)
}

// MtotMrat returns total mass and mass ratio q = min/max ≤ 1.
func MtotMrat(m1, m2 float64) (mtot, mrat float64) {
	mtot = m1 + m2
	if m1 >= m2 {
		return mtot, m2 / m1
	}
	return mtot, m1 / m2
}

// M1M2FromMtotMrat splits a total mass into primary and secondary masses.
func M1M2FromMtotMrat(mtot, mrat float64) (m1, m2 float64) {
	m1 = mtot / (1.0 + mrat)
	return m1, mtot - m1
}

// EddingtonRate returns the Eddington-limited accretion rate [g/s] of an
// accretor of mass [g], at EddingtonEfficiency.
func EddingtonRate(mass float64) float64 {
	return eddMdotConst * mass
}
