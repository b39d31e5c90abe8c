// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"

	"github.com/jaedmunt/holodeck/accretion"
	"github.com/jaedmunt/holodeck/hardening"
)

// Integrator modes.
const (
	ModeFixed    = "fixed"
	ModeAdaptive = "adaptive"
)

// Config is the complete run description.
type Config struct {
	Seed       int64             `yaml:"seed"`
	Population PopulationConfig  `yaml:"population"`
	Hardening  []HardeningConfig `yaml:"hardening"`
	Accretion  *AccretionConfig  `yaml:"accretion,omitempty"`
	Evolution  EvolutionConfig   `yaml:"evolution"`
	GWB        GWBConfig         `yaml:"gwb"`
	Universe   *UniverseConfig   `yaml:"universe,omitempty"`
}

// PopulationConfig describes a synthetic population. Ranges are [lo, hi].
type PopulationConfig struct {
	N          int       `yaml:"n"`
	MtotMsol   []float64 `yaml:"mtot_msol"`
	Mrat       []float64 `yaml:"mrat"`
	SepaPc     []float64 `yaml:"sepa_pc"`
	Redz       []float64 `yaml:"redz"`
	Eccen      []float64 `yaml:"eccen,omitempty"` // empty: circular, untracked
	VolumeMpc3 float64   `yaml:"volume_mpc3"`
}

// HardeningConfig is one hardening model. Zero fields take model defaults.
type HardeningConfig struct {
	Kind string `yaml:"kind"`

	HardTimeGyr float64 `yaml:"hard_time_gyr,omitempty"`
	RCharPc     float64 `yaml:"rchar_pc,omitempty"`
	GammaInner  float64 `yaml:"gamma_inner,omitempty"`
	GammaOuter  float64 `yaml:"gamma_outer,omitempty"`

	Norm  float64 `yaml:"norm,omitempty"` // power_law [cm/s]
	Index float64 `yaml:"index,omitempty"`

	H          float64 `yaml:"h,omitempty"`
	RhoMsolPc3 float64 `yaml:"rho_msol_pc3,omitempty"`
	SigmaKmS   float64 `yaml:"sigma_km_s,omitempty"`
}

// AccretionConfig selects Eddington-limited accretion.
type AccretionConfig struct {
	FEdd      float64 `yaml:"f_edd"`
	Split     string  `yaml:"split"`
	MaxSepaPc float64 `yaml:"max_sepa_pc,omitempty"` // 0: always on
	FixedMass bool    `yaml:"fixed_mass,omitempty"`
}

// EvolutionConfig selects and tunes the integrator.
type EvolutionConfig struct {
	Mode           string  `yaml:"mode"`
	Steps          int     `yaml:"steps"`
	CFL            float64 `yaml:"cfl"`
	MaxStepGyr     float64 `yaml:"max_step_gyr"`
	MaxBinarySteps int     `yaml:"max_binary_steps"`
	ChunkPerBinary int     `yaml:"chunk_per_binary"`
	DebugRates     bool    `yaml:"debug_rates,omitempty"`
}

// GWBConfig sets the frequency bins and the synthesis knobs. When DurYr is
// set the bins are the Fourier frequencies of a PTA campaign of that length
// and cadence; otherwise Bins log-spaced bins span [FminNHz, FmaxNHz].
type GWBConfig struct {
	FminNHz float64 `yaml:"fmin_nhz"`
	FmaxNHz float64 `yaml:"fmax_nhz"`
	Bins    int     `yaml:"bins"`
	DurYr   float64 `yaml:"dur_yr,omitempty"`
	CadYr   float64 `yaml:"cad_yr,omitempty"`

	Harmonics    int `yaml:"harmonics"`
	Realizations int `yaml:"realizations"`
	Loudest      int `yaml:"loudest"`
}

// UniverseConfig enables catalog resampling.
type UniverseConfig struct {
	DownSample     float64 `yaml:"down_sample"`
	BandwidthScale float64 `yaml:"bandwidth_scale"`
	MaxSamples     int     `yaml:"max_samples"`
}

// Default returns the configuration every document is decoded on top of.
func Default() *Config {
	return &Config{
		Seed: 1,
		Population: PopulationConfig{
			N:          100,
			MtotMsol:   []float64{1e8, 1e10},
			Mrat:       []float64{0.1, 1},
			SepaPc:     []float64{1e3, 1e4},
			Redz:       []float64{0.1, 3},
			VolumeMpc3: 1e6,
		},
		Hardening: []HardeningConfig{
			{Kind: string(hardening.KindGW)},
			{Kind: string(hardening.KindFixedTime), HardTimeGyr: 1},
		},
		Evolution: EvolutionConfig{
			Mode:           ModeFixed,
			Steps:          100,
			CFL:            0.1,
			MaxStepGyr:     0.1,
			MaxBinarySteps: 10000,
			ChunkPerBinary: 64,
		},
		GWB: GWBConfig{
			FminNHz:      2,
			FmaxNHz:      200,
			Bins:         10,
			Harmonics:    30,
			Realizations: 100,
			Loudest:      5,
		},
	}
}

// Parse decodes a YAML document on top of Default and validates it.
//
// Errors:
//   - ErrBadConfig for undecodable documents, unknown keys or bad values.
//   - ErrUnknownKind for unknown hardening kinds, split policies or modes.
func Parse(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("Parse: %v: %w", err, ErrBadConfig)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() []byte {
	data, err := yaml.Marshal(c)
	if err != nil {
		// plain structs of numbers and strings always marshal
		panic(err)
	}
	return data
}

// Fingerprint returns a 16-hex-digit digest of the effective configuration.
// Documents that differ only in layout, comments or explicit defaults share
// a fingerprint.
func (c *Config) Fingerprint() string {
	return fmt.Sprintf("%016x", xxh3.Hash(c.Marshal()))
}

// Validate checks every field against its domain.
func (c *Config) Validate() error {
	p := c.Population
	if p.N < 1 {
		return badf("population.n = %d must be >= 1", p.N)
	}
	if err := checkRange("population.mtot_msol", p.MtotMsol, 0, math.Inf(1)); err != nil {
		return err
	}
	if err := checkRange("population.mrat", p.Mrat, 0, 1); err != nil {
		return err
	}
	if err := checkRange("population.sepa_pc", p.SepaPc, 0, math.Inf(1)); err != nil {
		return err
	}
	if err := checkRange("population.redz", p.Redz, 0, math.Inf(1)); err != nil {
		return err
	}
	if len(p.Eccen) > 0 {
		if err := checkRange("population.eccen", p.Eccen, -1, 1); err != nil {
			return err
		}
		if p.Eccen[0] < 0 || p.Eccen[1] >= 1 {
			return badf("population.eccen = %v outside [0,1)", p.Eccen)
		}
	}
	if !positive(p.VolumeMpc3) {
		return badf("population.volume_mpc3 = %g must be > 0", p.VolumeMpc3)
	}

	if len(c.Hardening) == 0 {
		return badf("hardening: at least one model is required")
	}
	for i, h := range c.Hardening {
		if _, err := hardening.ParseKind(h.Kind); err != nil {
			return unknown(fmt.Sprintf("hardening[%d].kind", i), h.Kind, kindNames())
		}
	}

	if a := c.Accretion; a != nil {
		if !positive(a.FEdd) {
			return badf("accretion.f_edd = %g must be > 0", a.FEdd)
		}
		if _, err := accretion.ParseSplit(a.Split); err != nil {
			return unknown("accretion.split", a.Split, []string{
				string(accretion.SplitProportional), string(accretion.SplitEqual), string(accretion.SplitSecondary),
			})
		}
		if a.MaxSepaPc < 0 {
			return badf("accretion.max_sepa_pc = %g must be >= 0", a.MaxSepaPc)
		}
	}

	e := c.Evolution
	switch e.Mode {
	case ModeFixed:
		if e.Steps < 2 {
			return badf("evolution.steps = %d must be >= 2", e.Steps)
		}
	case ModeAdaptive:
		if !(e.CFL > 0) || e.CFL > 1 {
			return badf("evolution.cfl = %g outside (0,1]", e.CFL)
		}
		if !positive(e.MaxStepGyr) {
			return badf("evolution.max_step_gyr = %g must be > 0", e.MaxStepGyr)
		}
		if e.MaxBinarySteps < 1 || e.ChunkPerBinary < 1 {
			return badf("evolution.max_binary_steps and chunk_per_binary must be >= 1")
		}
	default:
		return unknown("evolution.mode", e.Mode, []string{ModeFixed, ModeAdaptive})
	}

	g := c.GWB
	if g.DurYr != 0 || g.CadYr != 0 {
		if !positive(g.DurYr) || !positive(g.CadYr) || g.CadYr >= g.DurYr {
			return badf("gwb.dur_yr = %g, cad_yr = %g: need 0 < cad < dur", g.DurYr, g.CadYr)
		}
	} else {
		if !positive(g.FminNHz) || !(g.FmaxNHz > g.FminNHz) || math.IsInf(g.FmaxNHz, 0) {
			return badf("gwb.fmin_nhz = %g, fmax_nhz = %g: need 0 < fmin < fmax", g.FminNHz, g.FmaxNHz)
		}
		if g.Bins < 1 {
			return badf("gwb.bins = %d must be >= 1", g.Bins)
		}
	}
	if g.Harmonics < 1 || g.Realizations < 1 || g.Loudest < 0 {
		return badf("gwb: harmonics %d and realizations %d must be >= 1, loudest %d >= 0",
			g.Harmonics, g.Realizations, g.Loudest)
	}

	if u := c.Universe; u != nil {
		if !positive(u.DownSample) {
			return badf("universe.down_sample = %g must be > 0", u.DownSample)
		}
		if !(u.BandwidthScale >= 0) {
			return badf("universe.bandwidth_scale = %g must be >= 0", u.BandwidthScale)
		}
		if u.MaxSamples < 0 {
			return badf("universe.max_samples = %d must be >= 0", u.MaxSamples)
		}
	}
	return nil
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

func badf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrBadConfig)
}

// checkRange requires a finite [lo, hi] pair with lo <= hi inside (floor, ceil].
func checkRange(field string, r []float64, floor, ceil float64) error {
	if len(r) != 2 {
		return badf("%s = %v must be [lo, hi]", field, r)
	}
	for _, v := range r {
		if math.IsNaN(v) || math.IsInf(v, 0) || !(v > floor) || v > ceil {
			return badf("%s = %v outside (%g, %g]", field, r, floor, ceil)
		}
	}
	if r[0] > r[1] {
		return badf("%s = %v is inverted", field, r)
	}
	return nil
}

func kindNames() []string {
	kinds := hardening.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

// unknown reports name as unknown in field, suggesting the closest of known.
func unknown(field, name string, known []string) error {
	if s := suggest(name, known); s != "" {
		return fmt.Errorf("%s = %q (did you mean %q?): %w", field, name, s, ErrUnknownKind)
	}
	return fmt.Errorf("%s = %q (one of %s): %w", field, name, strings.Join(known, ", "), ErrUnknownKind)
}

// suggest returns the known name closest to name in edit distance, or ""
// when nothing is within half the length of name.
func suggest(name string, known []string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	best, bestDist := "", len(name)/2+1
	for _, k := range known {
		if d := levenshtein.ComputeDistance(name, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}
