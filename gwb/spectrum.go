// SPDX-License-Identifier: MIT

package gwb

import (
	"math"
	"math/rand"
	"sort"

	"github.com/jaedmunt/holodeck/grid"
	"github.com/jaedmunt/holodeck/rng"
)

// Components is one decomposition of the spectrum. Matrices are F×R
// (frequency × realization) characteristic strain.
type Components struct {
	Foreground *grid.Dense // the NLoudest loudest sources of each realization
	Background *grid.Dense // everything else
	Total      *grid.Dense
	// Analytic is the expectation value of h_c per frequency, without
	// Poisson sampling; nil for catalog spectra.
	Analytic []float64
}

func newComponents(nf, nr int, analytic bool) (Components, error) {
	var c Components
	var err error
	if c.Foreground, err = grid.NewDense(nf, nr); err != nil {
		return c, err
	}
	if c.Background, err = grid.NewDense(nf, nr); err != nil {
		return c, err
	}
	if c.Total, err = grid.NewDense(nf, nr); err != nil {
		return c, err
	}
	if analytic {
		c.Analytic = make([]float64, nf)
	}
	return c, nil
}

// sqrt converts accumulated h_c² into h_c.
func (c *Components) sqrt() {
	c.Foreground.Sqrt()
	c.Background.Sqrt()
	c.Total.Sqrt()
	for j, v := range c.Analytic {
		c.Analytic[j] = math.Sqrt(math.Max(v, 0))
	}
}

// Spectrum is the synthesized GW signal.
type Spectrum struct {
	Freqs     []float64 // GW-frequency bin centres [1/s]
	Harmonics []int     // harmonics that contributed

	Components            // all harmonics
	Circular   Components // n = 2 only

	// Loudest is F×L×R: h_c of each foreground source, loudest first, zero
	// where a realization has fewer than L sources.
	Loudest *grid.Cube

	// Single is, per frequency, the characteristic strain of the strongest
	// simulated binary harmonic observed for Options.DurObs; nil unless
	// WithObservingDuration is given. Catalog spectra leave it nil.
	Single []float64
}

// NReals returns the number of realizations.
func (s *Spectrum) NReals() int { return s.Total.Cols() }

func newSpectrum(freqs []float64, harms []int, nreals, nloud int, analytic bool) (*Spectrum, error) {
	all, err := newComponents(len(freqs), nreals, analytic)
	if err != nil {
		return nil, err
	}
	circ, err := newComponents(len(freqs), nreals, analytic)
	if err != nil {
		return nil, err
	}
	loud, err := grid.NewCube(len(freqs), nloud, nreals)
	if err != nil {
		return nil, err
	}
	return &Spectrum{Freqs: freqs, Harmonics: harms, Components: all, Circular: circ, Loudest: loud}, nil
}

// source is one (binary, harmonic) term at one frequency.
type source struct {
	hc2  float64 // h_c² contributed by a single instance
	num  float64 // expected number of instances in the universe
	circ bool    // n = 2
}

// tally accumulates one realization of one frequency bin.
type tally struct {
	total, fore float64
	nloud       int
}

// add records c instances of s, the first into the foreground while it has
// room for limit sources, and returns how many went to the foreground.
func (t *tally) add(s source, c int64, limit int) int {
	t.total += s.hc2 * float64(c)
	take := 0
	if room := limit - t.nloud; room > 0 {
		take = int(math.Min(float64(room), float64(c)))
		t.fore += s.hc2 * float64(take)
		t.nloud += take
	}
	return take
}

func (t *tally) store(c *Components, j, rr int) {
	c.Total.Row(j)[rr] = t.total
	c.Foreground.Row(j)[rr] = t.fore
	c.Background.Row(j)[rr] = math.Max(t.total-t.fore, 0)
}

// realize draws every realization of frequency bin j from srcs.
//
// Sources are ordered by strain once, so walking them per realization fills
// the foreground with the loudest instances first.
func (s *Spectrum) realize(r *rand.Rand, j int, srcs []source, nloud int) error {
	sort.Slice(srcs, func(a, b int) bool { return srcs[a].hc2 > srcs[b].hc2 })
	for _, src := range srcs {
		s.Analytic[j] += src.hc2 * src.num
		if src.circ {
			s.Circular.Analytic[j] += src.hc2 * src.num
		}
	}

	for rr := 0; rr < s.NReals(); rr++ {
		var all, circ tally
		for _, src := range srcs {
			c, err := rng.Poisson(r, src.num)
			if err != nil {
				return err
			}
			if c == 0 {
				continue
			}
			first := all.nloud
			took := all.add(src, c, nloud)
			for q := 0; q < took; q++ {
				if err := s.Loudest.Set(j, first+q, rr, math.Sqrt(src.hc2)); err != nil {
					return err
				}
			}
			if src.circ {
				circ.add(src, c, nloud)
			}
		}
		all.store(&s.Components, j, rr)
		circ.store(&s.Circular, j, rr)
	}
	return nil
}

func (s *Spectrum) finish() {
	s.Components.sqrt()
	s.Circular.sqrt()
}
