// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/jaedmunt/holodeck/accretion"
	"github.com/jaedmunt/holodeck/binary"
	"github.com/jaedmunt/holodeck/evolution"
	"github.com/jaedmunt/holodeck/gwb"
	"github.com/jaedmunt/holodeck/hardening"
	"github.com/jaedmunt/holodeck/phys"
	"github.com/jaedmunt/holodeck/universe"
)

const kmPerSec = 1.0e5 // [cm/s]

func span(r []float64, unit float64) binary.Range {
	return binary.Range{Lo: r[0] * unit, Hi: r[1] * unit}
}

// BuildPopulation draws the synthetic population.
func (c *Config) BuildPopulation(r *rand.Rand) (*binary.Population, error) {
	p := c.Population
	o := binary.DefaultSyntheticOptions(p.N)
	o.Mtot = span(p.MtotMsol, phys.MSOL)
	o.Mrat = span(p.Mrat, 1)
	o.Sepa = span(p.SepaPc, phys.PC)
	o.Redz = span(p.Redz, 1)
	o.Volume = p.VolumeMpc3 * math.Pow(phys.MPC, 3)
	if len(p.Eccen) == 2 {
		o = o.WithEccen(span(p.Eccen, 1))
	}
	return binary.Synthetic(r, o)
}

// BuildHardening builds the hardening models in document order.
func (c *Config) BuildHardening(pop *binary.Population) ([]hardening.Model, error) {
	models := make([]hardening.Model, 0, len(c.Hardening))
	for i, h := range c.Hardening {
		kind, err := hardening.ParseKind(h.Kind)
		if err != nil {
			return nil, unknown(fmt.Sprintf("hardening[%d].kind", i), h.Kind, kindNames())
		}
		m, err := hardening.New(kind, pop, hardening.Params{
			HardTime:   h.HardTimeGyr * phys.GYR,
			RChar:      h.RCharPc * phys.PC,
			GammaInner: h.GammaInner,
			GammaOuter: h.GammaOuter,
			Norm:       h.Norm,
			Index:      h.Index,
			H:          h.H,
			Rho:        h.RhoMsolPc3 * phys.MSOL / math.Pow(phys.PC, 3),
			Sigma:      h.SigmaKmS * kmPerSec,
		})
		if err != nil {
			return nil, fmt.Errorf("hardening[%d]: %w", i, err)
		}
		models = append(models, m)
	}
	return models, nil
}

// BuildAccretion returns the accretion model, or nil when none is configured.
func (c *Config) BuildAccretion() (accretion.Model, error) {
	a := c.Accretion
	if a == nil {
		return nil, nil
	}
	split, err := accretion.ParseSplit(a.Split)
	if err != nil {
		return nil, err
	}
	var opts []accretion.Option
	if a.MaxSepaPc > 0 {
		opts = append(opts, accretion.WithMaxSepa(a.MaxSepaPc*phys.PC))
	}
	if a.FixedMass {
		opts = append(opts, accretion.WithoutMassEvolution())
	}
	m, err := accretion.NewEddington(a.FEdd, split, opts...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Adaptive reports whether the adaptive integrator is selected.
func (c *Config) Adaptive() bool { return c.Evolution.Mode == ModeAdaptive }

// EvolutionOptions returns integrator options, including the accretion model.
func (c *Config) EvolutionOptions() ([]evolution.Option, error) {
	e := c.Evolution
	opts := []evolution.Option{evolution.WithSteps(e.Steps)}
	if c.Adaptive() {
		opts = []evolution.Option{
			evolution.WithCFL(e.CFL),
			evolution.WithMaxStep(e.MaxStepGyr * phys.GYR),
			evolution.WithMaxBinarySteps(e.MaxBinarySteps),
			evolution.WithChunkPerBinary(e.ChunkPerBinary),
		}
	}
	if e.DebugRates {
		opts = append(opts, evolution.WithDebugRates())
	}
	acc, err := c.BuildAccretion()
	if err != nil {
		return nil, err
	}
	if acc != nil {
		opts = append(opts, evolution.WithAccretion(acc))
	}
	return opts, nil
}

// Edges returns the GW-frequency bin edges [1/s].
//
// PTA bins are centred on k/dur for k = 1..⌊dur/cad⌋ with edges halfway
// between, so their arithmetic centres are exactly the Fourier frequencies.
func (c *Config) Edges() ([]float64, error) {
	g := c.GWB
	if g.DurYr > 0 {
		dur := g.DurYr * phys.YR
		freqs, err := phys.NyquistFreqs(dur, g.CadYr*phys.YR)
		if err != nil {
			return nil, fmt.Errorf("gwb: %v: %w", err, ErrBadConfig)
		}
		edges := make([]float64, len(freqs)+1)
		for k := range edges {
			edges[k] = (float64(k) + 0.5) / dur
		}
		return edges, nil
	}
	return phys.LogSpace(g.FminNHz*1e-9, g.FmaxNHz*1e-9, g.Bins+1)
}

// GWBOptions returns the synthesis options.
func (c *Config) GWBOptions() []gwb.Option {
	opts := []gwb.Option{
		gwb.WithHarmonics(c.GWB.Harmonics),
		gwb.WithRealizations(c.GWB.Realizations),
		gwb.WithLoudest(c.GWB.Loudest),
	}
	if c.GWB.DurYr > 0 {
		opts = append(opts, gwb.WithObservingDuration(c.GWB.DurYr*phys.YR))
	}
	return opts
}

// UniverseOptions returns the resampling options; nil when resampling is off.
func (c *Config) UniverseOptions() []universe.Option {
	u := c.Universe
	if u == nil {
		return nil
	}
	opts := []universe.Option{
		universe.WithDownSample(u.DownSample),
		universe.WithBandwidthScale(u.BandwidthScale),
	}
	if u.MaxSamples > 0 {
		opts = append(opts, universe.WithMaxSamples(u.MaxSamples))
	}
	return opts
}
