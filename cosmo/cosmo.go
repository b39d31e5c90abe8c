// SPDX-License-Identifier: MIT

package cosmo

import (
	"fmt"
	"math"
	"sort"

	"github.com/jaedmunt/holodeck/phys"
)

// Cosmology is the conversion service consumed by the engine. Implementations
// must be pure: the same input always yields the same output.
type Cosmology interface {
	// AToZ converts a scale-factor to redshift.
	AToZ(scafa float64) float64
	// ZToA converts a redshift to scale-factor.
	ZToA(redz float64) float64
	// ZToTlbk returns the lookback time [s] to redshift redz.
	ZToTlbk(redz float64) float64
	// TlbkToZ is the inverse of ZToTlbk. Non-positive lookback times map to 0.
	TlbkToZ(tlbk float64) float64
	// ZToDcom returns the line-of-sight comoving distance [cm].
	ZToDcom(redz float64) float64
	// ZToDlum returns the luminosity distance [cm].
	ZToDlum(redz float64) float64
	// Age returns the age of the universe [s] at redshift redz.
	Age(redz float64) float64
	// Efunc returns H(z)/H0.
	Efunc(redz float64) float64
	// H0 returns the Hubble constant [1/s].
	H0() float64
}

// Default parameters (Planck 2015, flat).
const (
	DefaultHubble  = 67.74 // [km/s/Mpc]
	DefaultOmegaM  = 0.3089
	defaultZMax    = 1.0e4
	defaultTabSize = 2048
)

// FlatLCDM is a flat matter+Λ cosmology.
//
// Cosmic time has a closed form; comoving distance is integrated once at
// construction on a log(1+z) grid and interpolated afterwards.
type FlatLCDM struct {
	hubble  float64 // [km/s/Mpc]
	omegaM  float64
	omegaL  float64
	h0      float64 // [1/s]
	hubDist float64 // c/H0 [cm]

	lnzp1 []float64 // ln(1+z) grid
	dcom  []float64 // comoving distance on the grid [cm]
	zmax  float64
}

// NewFlatLCDM builds a flat cosmology with Hubble constant hubble [km/s/Mpc]
// and matter density omegaM (Ω_Λ = 1 - Ω_m).
//
// Errors:
//   - ErrBadParams when hubble<=0 or omegaM outside (0,1).
//
// Complexity:
//   - Time O(T) for the T-point distance table, Space O(T).
func NewFlatLCDM(hubble, omegaM float64) (*FlatLCDM, error) {
	if !(hubble > 0) || !(omegaM > 0) || !(omegaM < 1) {
		return nil, fmt.Errorf("NewFlatLCDM(%g,%g): %w", hubble, omegaM, ErrBadParams)
	}
	c := &FlatLCDM{
		hubble: hubble,
		omegaM: omegaM,
		omegaL: 1.0 - omegaM,
		h0:     hubble * 1.0e5 / phys.MPC,
		zmax:   defaultZMax,
	}
	c.hubDist = phys.SPLC / c.h0
	c.tabulate(defaultTabSize)
	return c, nil
}

// Default returns the Planck 2015 flat cosmology.
func Default() *FlatLCDM {
	c, err := NewFlatLCDM(DefaultHubble, DefaultOmegaM)
	if err != nil {
		panic(err)
	}
	return c
}

// tabulate integrates dcom = (c/H0) ∫ dz/E(z) with the trapezoid rule in
// ln(1+z), where dz = (1+z) dln(1+z).
func (c *FlatLCDM) tabulate(n int) {
	c.lnzp1 = make([]float64, n)
	c.dcom = make([]float64, n)
	top := math.Log1p(c.zmax)
	step := top / float64(n-1)
	prev := 1.0 / c.Efunc(0)
	for i := 1; i < n; i++ {
		x := float64(i) * step
		c.lnzp1[i] = x
		zp1 := math.Exp(x)
		cur := zp1 / c.Efunc(zp1-1.0)
		c.dcom[i] = c.dcom[i-1] + 0.5*(prev+cur)*step*c.hubDist
		prev = cur
	}
	c.lnzp1[n-1] = top
}

// Hubble returns H0 in [km/s/Mpc].
func (c *FlatLCDM) Hubble() float64 { return c.hubble }

// OmegaM returns the matter density parameter.
func (c *FlatLCDM) OmegaM() float64 { return c.omegaM }

// H0 returns the Hubble constant in [1/s].
func (c *FlatLCDM) H0() float64 { return c.h0 }

// Efunc returns H(z)/H0 = sqrt(Ω_m (1+z)^3 + Ω_Λ).
func (c *FlatLCDM) Efunc(redz float64) float64 {
	zp1 := 1.0 + redz
	return math.Sqrt(c.omegaM*zp1*zp1*zp1 + c.omegaL)
}

// AToZ converts scale-factor to redshift.
func (c *FlatLCDM) AToZ(scafa float64) float64 { return 1.0/scafa - 1.0 }

// ZToA converts redshift to scale-factor.
func (c *FlatLCDM) ZToA(redz float64) float64 { return 1.0 / (1.0 + redz) }

// Age returns the cosmic time [s] at redshift redz:
// t = 2/(3 H0 √Ω_Λ) asinh(√(Ω_Λ/Ω_m) (1+z)^{-3/2}).
func (c *FlatLCDM) Age(redz float64) float64 {
	if math.IsInf(redz, 1) {
		return 0
	}
	sl := math.Sqrt(c.omegaL)
	arg := math.Sqrt(c.omegaL/c.omegaM) * math.Pow(1.0+redz, -1.5)
	return 2.0 / (3.0 * c.h0 * sl) * math.Asinh(arg)
}

// ZToTlbk returns the lookback time [s].
func (c *FlatLCDM) ZToTlbk(redz float64) float64 {
	return c.Age(0) - c.Age(redz)
}

// TlbkToZ inverts ZToTlbk. tlbk<=0 maps to 0 and tlbk>=Age(0) to +Inf.
func (c *FlatLCDM) TlbkToZ(tlbk float64) float64 {
	if tlbk <= 0 {
		return 0
	}
	t := c.Age(0) - tlbk
	if t <= 0 {
		return math.Inf(1)
	}
	sl := math.Sqrt(c.omegaL)
	s := math.Sinh(1.5*c.h0*sl*t) / math.Sqrt(c.omegaL/c.omegaM)
	z := math.Pow(s, -2.0/3.0) - 1.0
	if z < 0 {
		return 0
	}
	return z
}

// ZToDcom returns the comoving distance [cm]. Beyond the table the
// matter-dominated tail is added analytically.
func (c *FlatLCDM) ZToDcom(redz float64) float64 {
	if redz <= 0 {
		return 0
	}
	x := math.Log1p(redz)
	n := len(c.lnzp1)
	if x >= c.lnzp1[n-1] {
		tail := 2.0 / math.Sqrt(c.omegaM) * (1.0/math.Sqrt(1.0+c.zmax) - 1.0/math.Sqrt(1.0+redz))
		return c.dcom[n-1] + c.hubDist*tail
	}
	k := sort.SearchFloat64s(c.lnzp1, x)
	if k == 0 {
		return c.dcom[0]
	}
	x0, x1 := c.lnzp1[k-1], c.lnzp1[k]
	w := (x - x0) / (x1 - x0)
	return c.dcom[k-1]*(1.0-w) + c.dcom[k]*w
}

// ZToDlum returns the luminosity distance (1+z) dcom [cm].
func (c *FlatLCDM) ZToDlum(redz float64) float64 {
	return (1.0 + redz) * c.ZToDcom(redz)
}

// ComovingVolume returns the all-sky comoving volume [cm^3] within redz.
func (c *FlatLCDM) ComovingVolume(redz float64) float64 {
	d := c.ZToDcom(redz)
	return 4.0 / 3.0 * math.Pi * d * d * d
}

var _ Cosmology = (*FlatLCDM)(nil)
