// SPDX-License-Identifier: MIT

package hardening

import (
	"fmt"
	"strings"

	"github.com/jaedmunt/holodeck/binary"
	"github.com/jaedmunt/holodeck/phys"
)

// Model returns the instantaneous hardening rates of one binary.
// da/dt must be ≤ 0; de/dt is ignored when the state is not eccentric.
type Model interface {
	Name() string
	Rate(s binary.State) (dadt, dedt float64)
}

// Kind selects a model variant.
type Kind string

// Known kinds.
const (
	KindGW                Kind = "gw"
	KindFixedTime         Kind = "fixed_time"
	KindPowerLaw          Kind = "power_law"
	KindStellarScattering Kind = "stellar_scattering"
)

// Kinds lists every known kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindGW, KindFixedTime, KindPowerLaw, KindStellarScattering}
}

// ParseKind maps a case-insensitive name to a Kind.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("ParseKind(%q): %w", name, ErrUnknownKind)
}

// GW is Peters (1964) gravitational-wave hardening.
type GW struct{}

// Name implements Model.
func (GW) Name() string { return string(KindGW) }

// Rate implements Model.
func (GW) Rate(s binary.State) (float64, float64) {
	if !s.Eccentric {
		return phys.GWDadt(s.M1, s.M2, s.Sepa, 0), 0
	}
	return phys.GWDadt(s.M1, s.M2, s.Sepa, s.Eccen), phys.GWDedt(s.M1, s.M2, s.Sepa, s.Eccen)
}

// PowerLaw is da/dt = -Norm (a/RChar)^Index, independent of mass.
type PowerLaw struct {
	Norm  float64 // [cm/s]
	RChar float64 // [cm]
	Index float64
}

// NewPowerLaw validates and returns a PowerLaw model.
func NewPowerLaw(norm, rchar, index float64) (*PowerLaw, error) {
	if !(norm > 0) || !(rchar > 0) {
		return nil, fmt.Errorf("NewPowerLaw(norm=%g, rchar=%g): %w", norm, rchar, ErrBadParam)
	}
	return &PowerLaw{Norm: norm, RChar: rchar, Index: index}, nil
}

// Name implements Model.
func (p *PowerLaw) Name() string { return string(KindPowerLaw) }

// Rate implements Model.
func (p *PowerLaw) Rate(s binary.State) (float64, float64) {
	return -p.Norm * pow(s.Sepa/p.RChar, p.Index), 0
}

// StellarScattering is the Quinlan (1996) hard-binary rate
// da/dt = -H G ρ a² / σ for a fixed stellar background.
type StellarScattering struct {
	H     float64 // dimensionless hardening constant (≈15)
	Rho   float64 // stellar density [g/cm^3]
	Sigma float64 // velocity dispersion [cm/s]
}

// NewStellarScattering validates and returns a StellarScattering model.
func NewStellarScattering(h, rho, sigma float64) (*StellarScattering, error) {
	if !(h > 0) || !(rho > 0) || !(sigma > 0) {
		return nil, fmt.Errorf("NewStellarScattering(%g,%g,%g): %w", h, rho, sigma, ErrBadParam)
	}
	return &StellarScattering{H: h, Rho: rho, Sigma: sigma}, nil
}

// Name implements Model.
func (m *StellarScattering) Name() string { return string(KindStellarScattering) }

// Rate implements Model.
func (m *StellarScattering) Rate(s binary.State) (float64, float64) {
	return -m.H * phys.NWTG * m.Rho * s.Sepa * s.Sepa / m.Sigma, 0
}

// Composite sums the rates of its members.
type Composite struct {
	models []Model
}

// NewComposite returns the sum of models. Nil members are skipped.
func NewComposite(models ...Model) *Composite {
	c := &Composite{models: make([]Model, 0, len(models))}
	for _, m := range models {
		if m != nil {
			c.models = append(c.models, m)
		}
	}
	return c
}

// Models returns the members in evaluation order.
func (c *Composite) Models() []Model { return c.models }

// Len returns the number of members.
func (c *Composite) Len() int { return len(c.models) }

// Name implements Model.
func (c *Composite) Name() string {
	names := make([]string, len(c.models))
	for i, m := range c.models {
		names[i] = m.Name()
	}
	return strings.Join(names, "+")
}

// Rate implements Model.
func (c *Composite) Rate(s binary.State) (float64, float64) {
	return c.Rates(s, nil)
}

// Rates returns the summed rates and, when per is non-nil, writes each
// member's da/dt into per[i]. len(per) must be ≥ Len().
func (c *Composite) Rates(s binary.State, per []float64) (dadt, dedt float64) {
	for i, m := range c.models {
		da, de := m.Rate(s)
		dadt += da
		if s.Eccentric {
			dedt += de
		}
		if per != nil {
			per[i] = da
		}
	}
	return dadt, dedt
}
