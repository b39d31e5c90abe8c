// SPDX-License-Identifier: MIT

// Package cosmo converts between scale-factor, redshift, lookback time and
// distances.
//
// The engine treats cosmology as a black-box service behind the Cosmology
// interface. FlatLCDM is the bundled implementation: a flat matter+Λ
// universe with closed-form cosmic time and a tabulated comoving distance.
//
// ⚙️ Usage
//
//	c := cosmo.Default()
//	z := c.AToZ(0.5)          // 1.0
//	t := c.ZToTlbk(1.0)       // lookback time [s]
//	d := c.ZToDcom(1.0)       // comoving distance [cm]
//
// All quantities are CGS.
package cosmo
