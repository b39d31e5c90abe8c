// SPDX-License-Identifier: MIT

package universe

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/jaedmunt/holodeck/evolution"
	"github.com/jaedmunt/holodeck/rng"
)

// Resampling defaults.
const (
	DefaultBandwidthScale = 0.5
	DefaultMaxSamples     = 50_000_000

	// maxReflect bounds the reflections of one kernel draw before clamping.
	maxReflect = 8
	// progressEvery is the number of draws between progress callbacks.
	progressEvery = 4096
)

// Options configures Resample.
type Options struct {
	// DownSample divides every weight, so the catalog is DownSample times
	// smaller than the universe it represents. 1 keeps the full count.
	DownSample float64
	// BandwidthScale multiplies Scott's rule kernel width.
	BandwidthScale float64
	// MaxSamples rejects Poisson means above this count.
	MaxSamples int

	Logf     func(format string, args ...any)
	Progress func(done, total int)
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the defaults used when no options are given.
func DefaultOptions() Options {
	return Options{DownSample: 1, BandwidthScale: DefaultBandwidthScale, MaxSamples: DefaultMaxSamples}
}

// WithDownSample divides the expected count by f. Panics unless f > 0.
func WithDownSample(f float64) Option {
	return func(o *Options) {
		if !(f > 0) || math.IsInf(f, 0) {
			panic(fmt.Sprintf("universe: WithDownSample(%g) must be finite and > 0", f))
		}
		o.DownSample = f
	}
}

// WithBandwidthScale rescales the kernel. Panics on negative input.
func WithBandwidthScale(s float64) Option {
	return func(o *Options) {
		if !(s >= 0) {
			panic(fmt.Sprintf("universe: WithBandwidthScale(%g) must be >= 0", s))
		}
		o.BandwidthScale = s
	}
}

// WithMaxSamples sets the ceiling on the expected catalog size. Panics below 1.
func WithMaxSamples(n int) Option {
	return func(o *Options) {
		if n < 1 {
			panic(fmt.Sprintf("universe: WithMaxSamples(%d) must be >= 1", n))
		}
		o.MaxSamples = n
	}
}

// WithLogf routes progress messages to logf.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(o *Options) { o.Logf = logf }
}

// WithProgress installs a progress callback.
func WithProgress(fn func(done, total int)) Option {
	return func(o *Options) { o.Progress = fn }
}

func (o *Options) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

// Catalog is a synthetic universe, one entry per binary, in linear CGS units.
type Catalog struct {
	Mtot  []float64 // total mass [g]
	Mrat  []float64 // mass ratio ≤ 1
	Redz  []float64 // redshift
	Fobs  []float64 // observer-frame orbital frequency [1/s]
	Eccen []float64
	Dadt  []float64 // [cm/s]
	Dedt  []float64 // [1/s]
}

// Len returns the number of synthetic binaries.
func (c *Catalog) Len() int { return len(c.Mtot) }

func (c *Catalog) cols() [NumDims]*[]float64 {
	return [NumDims]*[]float64{&c.Mtot, &c.Mrat, &c.Redz, &c.Fobs, &c.Eccen, &c.Dadt, &c.Dedt}
}

// Sample runs Weights then Resample and returns both the catalog and the
// weighted samples it was drawn from.
func Sample(r *rand.Rand, t *evolution.Track, fobsEdges []float64, opts ...Option) (*Catalog, *Samples, error) {
	s, err := Weights(t, fobsEdges)
	if err != nil {
		return nil, nil, err
	}
	cat, err := Resample(r, s, fobsEdges, opts...)
	if err != nil {
		return nil, nil, err
	}
	return cat, s, nil
}

// Resample draws a synthetic catalog from s.
//
// Implementation:
//   - Stage 1: the catalog size is one Poisson draw with mean Σw / DownSample.
//   - Stage 2: each entry picks a sample with probability ∝ w and adds
//     Gaussian jitter per dimension; widths are BandwidthScale × Scott's
//     factor n_eff^(-1/(d+4)) × the weighted standard deviation, where
//     n_eff = (Σw)²/Σw² and d counts dimensions with non-zero spread.
//   - Stage 3: draws leaving a bound are reflected back in: log q ≤ 0,
//     log f inside the edges, e ∈ [0,1].
//
// Errors:
//   - ErrNoSamples, ErrBadEdges, ErrTooManySamples.
//
// Complexity:
//   - Time O(S + M·(log S + D)) for S samples and M draws, Space O(M·D).
func Resample(r *rand.Rand, s *Samples, fobsEdges []float64, opts ...Option) (*Catalog, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if s == nil || s.Len() == 0 {
		return nil, ErrNoSamples
	}
	if _, _, err := Bins(fobsEdges); err != nil {
		return nil, err
	}
	r = rng.OrDefault(r)

	total := s.TotalWeight()
	mean := total / o.DownSample
	if mean > float64(o.MaxSamples) {
		return nil, fmt.Errorf("Resample: mean %g > %d: %w", mean, o.MaxSamples, ErrTooManySamples)
	}
	if o.DownSample != 1 {
		o.logf("universe: down-sampling %.4e binaries by %g to %.4e", total, o.DownSample, mean)
	}
	n, err := rng.Poisson(r, mean)
	if err != nil {
		return nil, err
	}
	o.logf("universe: drawing %d binaries from %d weighted samples", n, s.Len())

	width := bandwidths(s, o.BandwidthScale)
	bounds := reflectBounds(fobsEdges)
	cdf := make([]float64, s.Len())
	var acc float64
	for k, w := range s.Weights {
		acc += w
		cdf[k] = acc
	}

	cat := &Catalog{}
	cols := cat.cols()
	for d := range cols {
		*cols[d] = make([]float64, n)
	}
	for m := 0; m < int(n); m++ {
		k := sort.SearchFloat64s(cdf, r.Float64()*acc)
		if k >= len(cdf) {
			k = len(cdf) - 1
		}
		for d := Dim(0); d < NumDims; d++ {
			x := s.Values[d][k]
			if width[d] > 0 {
				x = reflect(rng.Normal(r, x, width[d]), bounds[d])
			}
			if logDims[d] {
				x = math.Pow(10, x)
			}
			(*cols[d])[m] = x
		}
		if o.Progress != nil && (m+1)%progressEvery == 0 {
			o.Progress(m+1, int(n))
		}
	}
	if o.Progress != nil {
		o.Progress(int(n), int(n))
	}
	return cat, nil
}

// bandwidths returns the per-dimension kernel width.
func bandwidths(s *Samples, scale float64) [NumDims]float64 {
	var sum, sum2 float64
	for _, w := range s.Weights {
		sum += w
		sum2 += w * w
	}
	var sigma [NumDims]float64
	active := 0
	for d := range sigma {
		var mu float64
		for k, w := range s.Weights {
			mu += w * s.Values[d][k]
		}
		mu /= sum
		var v float64
		for k, w := range s.Weights {
			dx := s.Values[d][k] - mu
			v += w * dx * dx
		}
		sigma[d] = math.Sqrt(v / sum)
		if sigma[d] > 0 {
			active++
		}
	}
	if active == 0 {
		return sigma
	}
	neff := sum * sum / sum2
	factor := scale * math.Pow(neff, -1.0/float64(active+4))
	for d := range sigma {
		sigma[d] *= factor
	}
	return sigma
}

// bound is a closed interval; NaN ends are open.
type bound struct{ lo, hi float64 }

func reflectBounds(edges []float64) [NumDims]bound {
	nan := math.NaN()
	var b [NumDims]bound
	for d := range b {
		b[d] = bound{nan, nan}
	}
	b[DimMrat].hi = 0
	b[DimFobs] = bound{math.Log10(edges[0]), math.Log10(edges[len(edges)-1])}
	b[DimEccen] = bound{0, 1}
	return b
}

// reflect mirrors x at the bounds of b until it lies inside, clamping after
// maxReflect reflections.
func reflect(x float64, b bound) float64 {
	for i := 0; i < maxReflect; i++ {
		switch {
		case !math.IsNaN(b.lo) && x < b.lo:
			x = 2*b.lo - x
		case !math.IsNaN(b.hi) && x > b.hi:
			x = 2*b.hi - x
		default:
			return x
		}
	}
	if !math.IsNaN(b.lo) && x < b.lo {
		return b.lo
	}
	if !math.IsNaN(b.hi) && x > b.hi {
		return b.hi
	}
	return x
}
