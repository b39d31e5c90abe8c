// SPDX-License-Identifier: MIT

package accretion

import (
	"fmt"
	"strings"

	"github.com/jaedmunt/holodeck/binary"
	"github.com/jaedmunt/holodeck/phys"
)

// Model supplies accretion rates [g/s] to the integrator.
type Model interface {
	TotalRate(s binary.State) float64
	Split(mdot float64, s binary.State) (m1dot, m2dot float64)
	EvolveMass() bool
}

// Split names a preferential-accretion policy.
type Split string

// Known split policies.
const (
	// SplitProportional shares gas in proportion to mass.
	SplitProportional Split = "proportional"
	// SplitEqual gives each component half.
	SplitEqual Split = "equal"
	// SplitSecondary follows the circumbinary-disk fit of Duffell et al.
	// (2020): mdot2/mdot1 = 1/(0.1 + 0.9 q).
	SplitSecondary Split = "secondary"
)

// ParseSplit maps a case-insensitive name to a Split.
func ParseSplit(name string) (Split, error) {
	s := Split(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case SplitProportional, SplitEqual, SplitSecondary:
		return s, nil
	}
	return "", fmt.Errorf("ParseSplit(%q): %w", name, ErrUnknownSplit)
}

// Divide splits mdot between primary and secondary under policy p.
// Component labels follow s.M1/s.M2, whichever is heavier.
func (p Split) Divide(mdot float64, s binary.State) (m1dot, m2dot float64) {
	switch p {
	case SplitEqual:
		return 0.5 * mdot, 0.5 * mdot
	case SplitSecondary:
		q := s.Mrat()
		ratio := 1.0 / (0.1 + 0.9*q) // lighter / heavier
		heavy := mdot / (1.0 + ratio)
		light := mdot - heavy
		if s.M1 >= s.M2 {
			return heavy, light
		}
		return light, heavy
	default:
		mt := s.M1 + s.M2
		return mdot * s.M1 / mt, mdot * s.M2 / mt
	}
}

// Option configures the models in this package.
type Option func(*config)

type config struct {
	noEvolve bool
	subPc    float64
}

// WithoutMassEvolution keeps rates for diagnostics but holds masses fixed.
func WithoutMassEvolution() Option {
	return func(c *config) { c.noEvolve = true }
}

// WithSubPc switches accretion on only below one parsec separation.
func WithSubPc() Option {
	return WithMaxSepa(phys.PC)
}

// WithMaxSepa switches accretion on only below sepa [cm]. Panics on
// non-positive input.
func WithMaxSepa(sepa float64) Option {
	return func(c *config) {
		if !(sepa > 0) {
			panic(fmt.Sprintf("accretion: WithMaxSepa(%g) must be > 0", sepa))
		}
		c.subPc = sepa
	}
}

func newConfig(opts []Option) config {
	var c config
	for _, o := range opts {
		o(&c)
	}
	return c
}

// gated reports whether accretion is switched off at s.
func (c config) gated(s binary.State) bool {
	return c.subPc > 0 && s.Sepa > c.subPc
}

// Eddington accretes a fixed fraction of the Eddington rate of the total mass.
type Eddington struct {
	FEdd   float64
	Policy Split
	cfg    config
}

// NewEddington returns an Eddington-fraction model. fEdd must be ≥ 0.
func NewEddington(fEdd float64, policy Split, opts ...Option) (*Eddington, error) {
	if !(fEdd >= 0) {
		return nil, fmt.Errorf("NewEddington(%g): %w", fEdd, ErrBadParam)
	}
	if _, err := ParseSplit(string(policy)); err != nil {
		return nil, err
	}
	return &Eddington{FEdd: fEdd, Policy: policy, cfg: newConfig(opts)}, nil
}

// TotalRate implements Model.
func (e *Eddington) TotalRate(s binary.State) float64 {
	if e.cfg.gated(s) {
		return 0
	}
	return e.FEdd * phys.EddingtonRate(s.M1+s.M2)
}

// Split implements Model.
func (e *Eddington) Split(mdot float64, s binary.State) (float64, float64) {
	return e.Policy.Divide(mdot, s)
}

// EvolveMass implements Model.
func (e *Eddington) EvolveMass() bool { return !e.cfg.noEvolve }

// External serves pre-computed total rates, one row per binary and one
// column per step. Steps past the end of a row reuse the last column.
type External struct {
	rates  [][]float64
	Policy Split
	cfg    config
}

// NewExternal wraps a per-binary rate table. Every row must be non-empty.
func NewExternal(rates [][]float64, policy Split, opts ...Option) (*External, error) {
	for i, row := range rates {
		if len(row) == 0 {
			return nil, fmt.Errorf("NewExternal: row %d empty: %w", i, ErrShapeMismatch)
		}
	}
	if _, err := ParseSplit(string(policy)); err != nil {
		return nil, err
	}
	return &External{rates: rates, Policy: policy, cfg: newConfig(opts)}, nil
}

// Binaries returns the number of rows.
func (x *External) Binaries() int { return len(x.rates) }

// TotalRate implements Model. Unknown binaries accrete nothing.
func (x *External) TotalRate(s binary.State) float64 {
	if s.Index < 0 || s.Index >= len(x.rates) || x.cfg.gated(s) {
		return 0
	}
	row := x.rates[s.Index]
	k := s.Step
	if k >= len(row) {
		k = len(row) - 1
	}
	if k < 0 {
		k = 0
	}
	return row[k]
}

// Split implements Model.
func (x *External) Split(mdot float64, s binary.State) (float64, float64) {
	return x.Policy.Divide(mdot, s)
}

// EvolveMass implements Model.
func (x *External) EvolveMass() bool { return !x.cfg.noEvolve }
