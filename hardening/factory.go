// SPDX-License-Identifier: MIT

package hardening

import (
	"fmt"

	"github.com/jaedmunt/holodeck/binary"
)

// Params carries the union of model parameters. Zero fields take the
// model's defaults; fields a kind does not use are ignored.
type Params struct {
	HardTime   float64 // fixed_time: total coalescence time [s]
	RChar      float64 // fixed_time, power_law: break radius [cm]
	GammaInner float64 // fixed_time
	GammaOuter float64 // fixed_time
	Norm       float64 // power_law [cm/s]
	Index      float64 // power_law

	H     float64 // stellar_scattering
	Rho   float64 // stellar_scattering [g/cm^3]
	Sigma float64 // stellar_scattering [cm/s]
}

// New builds one model of the given kind. pop is required by fixed_time.
//
// Errors:
//   - ErrUnknownKind, ErrNilPopulation, ErrBadParam, ErrNoSolution.
func New(kind Kind, pop *binary.Population, p Params) (Model, error) {
	switch kind {
	case KindGW:
		return GW{}, nil

	case KindFixedTime:
		var opts []FixedTimeOption
		if p.RChar != 0 {
			if !(p.RChar > 0) {
				return nil, fmt.Errorf("New(%s): rchar %g: %w", kind, p.RChar, ErrBadParam)
			}
			opts = append(opts, WithRChar(p.RChar))
		}
		if p.GammaInner != 0 || p.GammaOuter != 0 {
			gin, gout := p.GammaInner, p.GammaOuter
			if gin == 0 {
				gin = DefaultGammaInner
			}
			if gout == 0 {
				gout = DefaultGammaOuter
			}
			opts = append(opts, WithGammas(gin, gout))
		}
		return NewFixedTime(pop, p.HardTime, opts...)

	case KindPowerLaw:
		rchar := p.RChar
		if rchar == 0 {
			rchar = DefaultRChar
		}
		return NewPowerLaw(p.Norm, rchar, p.Index)

	case KindStellarScattering:
		h := p.H
		if h == 0 {
			h = 15.0
		}
		return NewStellarScattering(h, p.Rho, p.Sigma)
	}
	return nil, fmt.Errorf("New(%q): %w", kind, ErrUnknownKind)
}
